package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/diff"
	"onway_routes/internal/models"
	"onway_routes/internal/repository"
	"onway_routes/internal/storage"
)

// RouteService creates, edits, describes and deletes route aggregates.
// Every write runs in a single transaction.
type RouteService struct {
	tx          repository.TxRunner
	users       repository.UserLookup
	routes      repository.RouteRepo
	tags        repository.RouteTagRepo
	images      repository.RouteImageRepo
	points      repository.RoutePointRepo
	pointImages repository.RoutePointImageRepo
	deleter     *Deleter
}

func NewRouteService(repos repository.Repos, store storage.Gateway, deleteConcurrency int) *RouteService {
	return &RouteService{
		tx:          repos.Tx,
		users:       repos.Users,
		routes:      repos.Routes,
		tags:        repos.Tags,
		images:      repos.Images,
		points:      repos.Points,
		pointImages: repos.PointImages,
		deleter:     NewDeleter(repos, store, deleteConcurrency),
	}
}

// CreateRoute persists a complete aggregate owned by actor. Either every row
// is written or none is.
func (s *RouteService) CreateRoute(ctx context.Context, actor Actor, doc CreateRouteDoc) (*models.Route, error) {
	const op = "route.create"

	if !actor.IsAdmin() {
		return nil, NewForbidden(op, "only admins may create routes")
	}
	if err := validateDoc(op, doc); err != nil {
		return nil, err
	}
	for i, p := range doc.Points {
		if p.ID != nil {
			return nil, NewValidation(op, "points[%d].id must be empty on create", i)
		}
		if len(p.Images) == 0 {
			return nil, NewValidation(op, "points[%d].images must not be empty", i)
		}
	}
	if err := checkFileNames(op, doc.Images, doc.Points); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(dbctx.Context{Ctx: ctx}, actor.UserID)
	if err != nil {
		return nil, wrapDB(op, err)
	}
	if owner == nil {
		return nil, NewNotFound(op, "user %d not found", actor.UserID)
	}

	var routeID uint
	err = inSession(ctx, s.tx, s.deleter.sweeper, func(sess *Session) error {
		route := &models.Route{Name: doc.Name, Description: doc.Description, OwnerID: owner.ID}
		if err := s.routes.Create(sess.DB, route); err != nil {
			return err
		}
		routeID = route.ID

		if err := s.createRouteImages(sess, route.ID, doc.Images); err != nil {
			return err
		}

		points := make([]models.RoutePoint, 0, len(doc.Points))
		for i, pd := range doc.Points {
			point, err := s.createPoint(sess, route.ID, i, pd)
			if err != nil {
				return err
			}
			points = append(points, *point)
		}

		if err := s.tags.CreateMany(sess.DB, route.ID, doc.Tags); err != nil {
			return err
		}
		return s.refreshGeometry(sess, route.ID, points)
	})
	if err != nil {
		return nil, wrapDB(op, err)
	}

	logrus.WithFields(logrus.Fields{
		"route_id": routeID,
		"owner_id": owner.ID,
		"points":   len(doc.Points),
		"images":   len(doc.Images),
	}).Info("Route created")
	return s.describe(ctx, op, routeID)
}

// EditRoute converges the route towards doc. Fields left nil in doc are not
// touched.
func (s *RouteService) EditRoute(ctx context.Context, actor Actor, routeID uint, doc EditRouteDoc) (*models.Route, error) {
	const op = "route.edit"
	dbc := dbctx.Context{Ctx: ctx}

	if err := validateDoc(op, doc); err != nil {
		return nil, err
	}
	route, err := s.routes.GetByID(dbc, routeID)
	if err != nil {
		return nil, wrapDB(op, err)
	}
	if route == nil {
		return nil, NewNotFound(op, "route %d not found", routeID)
	}
	if err := authorizeRouteChange(dbc, s.routes, op, actor, routeID); err != nil {
		return nil, err
	}

	var images []ImageDoc
	if doc.Images != nil {
		images = *doc.Images
	}
	var points []PointDoc
	if doc.Points != nil {
		points = *doc.Points
		if err := s.checkPointRefs(dbc, op, routeID, points); err != nil {
			return nil, err
		}
	}
	if err := checkFileNames(op, images, newPoints(points)); err != nil {
		return nil, err
	}

	if doc.IsEmpty() {
		return s.describe(ctx, op, routeID)
	}

	err = inSession(ctx, s.tx, s.deleter.sweeper, func(sess *Session) error {
		if err := s.editDetails(sess, routeID, doc); err != nil {
			return err
		}
		if doc.Tags != nil {
			if err := s.reconcileTags(sess, routeID, *doc.Tags); err != nil {
				return err
			}
		}
		if doc.Images != nil {
			if err := s.reconcileImages(sess, op, routeID, images); err != nil {
				return err
			}
		}
		if doc.Points != nil {
			if err := s.reconcilePoints(sess, op, routeID, points); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapDB(op, err)
	}

	logrus.WithFields(logrus.Fields{
		"route_id": routeID,
		"user_id":  actor.UserID,
	}).Info("Route edited")
	return s.describe(ctx, op, routeID)
}

// DeleteRoute removes the aggregate and its objects.
func (s *RouteService) DeleteRoute(ctx context.Context, actor Actor, routeID uint) error {
	return s.deleter.DeleteRoute(ctx, actor, routeID)
}

// DescribeRoute returns the full aggregate with points in sequence order.
func (s *RouteService) DescribeRoute(ctx context.Context, routeID uint) (*models.Route, error) {
	return s.describe(ctx, "route.describe", routeID)
}

// ListRoutes lists routes of ownerID, or every route when ownerID is 0.
func (s *RouteService) ListRoutes(ctx context.Context, ownerID uint) ([]models.Route, error) {
	routes, err := s.routes.ListByOwner(dbctx.Context{Ctx: ctx}, ownerID)
	if err != nil {
		return nil, wrapDB("route.list", err)
	}
	return routes, nil
}

func (s *RouteService) describe(ctx context.Context, op string, routeID uint) (*models.Route, error) {
	route, err := s.routes.GetAggregate(dbctx.Context{Ctx: ctx}, routeID)
	if err != nil {
		return nil, wrapDB(op, err)
	}
	if route == nil {
		return nil, NewNotFound(op, "route %d not found", routeID)
	}
	return route, nil
}

// checkPointRefs fails fast on point ids that do not belong to the route.
func (s *RouteService) checkPointRefs(dbc dbctx.Context, op string, routeID uint, points []PointDoc) error {
	for i, pd := range points {
		if pd.ID == nil {
			if len(pd.Images) == 0 {
				return NewValidation(op, "points[%d].images must not be empty for a new point", i)
			}
			continue
		}
		existing, err := s.points.GetByID(dbc, *pd.ID)
		if err != nil {
			return wrapDB(op, err)
		}
		if existing == nil {
			return NewNotFound(op, "route point %d not found", *pd.ID)
		}
		if existing.RouteID != routeID {
			return NewValidation(op, "route point %d belongs to another route", *pd.ID)
		}
	}
	return nil
}

func (s *RouteService) editDetails(sess *Session, routeID uint, doc EditRouteDoc) error {
	updates := map[string]any{}
	if doc.Name != nil {
		updates["name"] = *doc.Name
	}
	if doc.Description != nil {
		updates["description"] = *doc.Description
	}
	return s.routes.UpdateDetails(sess.DB, routeID, updates)
}

// reconcileTags only inserts and deletes; a kept tag has nothing to update.
func (s *RouteService) reconcileTags(sess *Session, routeID uint, desired []string) error {
	rows, err := s.tags.ListByRoute(sess.DB, routeID)
	if err != nil {
		return err
	}
	current := make([]string, 0, len(rows))
	for _, row := range rows {
		current = append(current, row.Tag)
	}

	plan, err := diff.Values(current, desired)
	if err != nil {
		return err
	}
	if err := s.tags.DeleteByTags(sess.DB, routeID, plan.ToDelete); err != nil {
		return err
	}
	created := make([]string, 0, len(plan.ToCreate))
	for _, c := range plan.ToCreate {
		created = append(created, c.Item)
	}
	return s.tags.CreateMany(sess.DB, routeID, created)
}

// reconcileImages pairs images by URL. Removed images lose their row now and
// their object after commit; new images only get a row. A kept URL must keep
// its file name.
func (s *RouteService) reconcileImages(sess *Session, op string, routeID uint, desired []ImageDoc) error {
	current, err := s.images.ListByRoute(sess.DB, routeID)
	if err != nil {
		return err
	}
	plan, err := diff.Compute(current, desired,
		func(img models.RouteImage) string { return img.ImageURL },
		func(doc ImageDoc) (string, bool) { return doc.ImageURL, true },
	)
	if err != nil {
		return err
	}
	for _, u := range plan.ToUpdate {
		if u.Current.FilePath != u.Desired.FileName {
			return NewValidation(op, "images[%d]: %s is stored as %q, not %q",
				u.Index, u.Desired.ImageURL, u.Current.FilePath, u.Desired.FileName)
		}
	}

	for _, img := range plan.ToDelete {
		if err := s.deleter.deleteRouteImage(sess, img); err != nil {
			return err
		}
	}
	created := make([]ImageDoc, 0, len(plan.ToCreate))
	for _, c := range plan.ToCreate {
		created = append(created, c.Item)
	}
	return s.createRouteImages(sess, routeID, created)
}

// createRouteImages inserts the rows and marks their objects as bound, so a
// deletion queued earlier in the session for the same key is not issued.
func (s *RouteService) createRouteImages(sess *Session, routeID uint, docs []ImageDoc) error {
	if err := s.images.CreateMany(sess.DB, routeImageRows(routeID, docs)); err != nil {
		return err
	}
	for _, img := range docs {
		sess.MarkBound(storage.CollectionRoutes, img.FileName)
	}
	return nil
}

// reconcilePoints pairs points by id and rewrites every sequence to the
// point's index in desired, so sequences end up exactly 0..n-1.
func (s *RouteService) reconcilePoints(sess *Session, op string, routeID uint, desired []PointDoc) error {
	current, err := s.points.ListByRoute(sess.DB, routeID)
	if err != nil {
		return err
	}
	plan, err := diff.Compute(current, desired,
		func(p models.RoutePoint) uint { return p.ID },
		func(doc PointDoc) (uint, bool) {
			if doc.ID == nil {
				return 0, false
			}
			return *doc.ID, true
		},
	)
	if err != nil {
		return err
	}

	for _, p := range plan.ToDelete {
		if err := s.deleter.deletePoint(sess, p.ID); err != nil {
			return err
		}
	}
	for _, u := range plan.ToUpdate {
		point := u.Current
		applyPointDoc(&point, u.Desired, u.Index)
		if err := s.points.Update(sess.DB, &point); err != nil {
			return err
		}
	}
	for _, c := range plan.ToCreate {
		if c.Item.ID != nil {
			// Removed from the route since the request was checked.
			return NewNotFound(op, "route point %d not found", *c.Item.ID)
		}
		if _, err := s.createPoint(sess, routeID, c.Index, c.Item); err != nil {
			return err
		}
	}
	return s.refreshGeometry(sess, routeID, nil)
}

func (s *RouteService) createPoint(sess *Session, routeID uint, sequence int, doc PointDoc) (*models.RoutePoint, error) {
	point := &models.RoutePoint{RouteID: routeID}
	applyPointDoc(point, doc, sequence)
	if err := s.points.Create(sess.DB, point); err != nil {
		return nil, err
	}
	rows := make([]models.RoutePointImage, 0, len(doc.Images))
	for _, img := range doc.Images {
		rows = append(rows, models.RoutePointImage{RoutePointID: point.ID, FilePath: img.FileName, ImageURL: img.ImageURL})
	}
	if err := s.pointImages.CreateMany(sess.DB, rows); err != nil {
		return nil, err
	}
	for _, img := range doc.Images {
		sess.MarkBound(storage.CollectionPoints, img.FileName)
	}
	return point, nil
}

// refreshGeometry rebuilds the route line from points, or from the stored
// points when points is nil.
func (s *RouteService) refreshGeometry(sess *Session, routeID uint, points []models.RoutePoint) error {
	if points == nil {
		var err error
		if points, err = s.points.ListByRoute(sess.DB, routeID); err != nil {
			return err
		}
	}
	geometry, km, err := routeGeometry(points)
	if err != nil {
		return err
	}
	return s.routes.UpdateGeometry(sess.DB, routeID, geometry, km)
}

func applyPointDoc(point *models.RoutePoint, doc PointDoc, sequence int) {
	point.Name = doc.Name
	point.Description = doc.Description
	point.Type = doc.Type
	point.Latitude = doc.Latitude
	point.Longitude = doc.Longitude
	point.Sequence = sequence
}

func routeImageRows(routeID uint, docs []ImageDoc) []models.RouteImage {
	rows := make([]models.RouteImage, 0, len(docs))
	for _, img := range docs {
		rows = append(rows, models.RouteImage{RouteID: routeID, FilePath: img.FileName, ImageURL: img.ImageURL})
	}
	return rows
}

// newPoints keeps the points that will be inserted along with their images.
func newPoints(points []PointDoc) []PointDoc {
	var out []PointDoc
	for _, p := range points {
		if p.ID == nil {
			out = append(out, p)
		}
	}
	return out
}

// checkFileNames rejects a document that binds one object key twice, before
// anything is written.
func checkFileNames(op string, routeImages []ImageDoc, points []PointDoc) error {
	if name, dup := duplicateFileName(routeImages); dup {
		return NewConflict(op, "file name %q is used by more than one route image", name)
	}
	lists := make([][]ImageDoc, 0, len(points))
	for _, p := range points {
		lists = append(lists, p.Images)
	}
	if name, dup := duplicateFileName(lists...); dup {
		return NewConflict(op, "file name %q is used by more than one point image", name)
	}
	return nil
}
