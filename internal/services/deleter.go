package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/models"
	"onway_routes/internal/repository"
	"onway_routes/internal/storage"
)

// Deleter tears down routes, points and images. Rows go inside the
// session's transaction; their objects are queued on the session and removed
// after commit.
type Deleter struct {
	tx          repository.TxRunner
	routes      repository.RouteRepo
	tags        repository.RouteTagRepo
	images      repository.RouteImageRepo
	points      repository.RoutePointRepo
	pointImages repository.RoutePointImageRepo
	sweeper     blobSweeper
}

func NewDeleter(repos repository.Repos, store storage.Gateway, deleteConcurrency int) *Deleter {
	return &Deleter{
		tx:          repos.Tx,
		routes:      repos.Routes,
		tags:        repos.Tags,
		images:      repos.Images,
		points:      repos.Points,
		pointImages: repos.PointImages,
		sweeper:     blobSweeper{store: store, concurrency: deleteConcurrency},
	}
}

// DeleteRoute removes the whole aggregate. Object store failures after commit
// are logged and never returned.
func (d *Deleter) DeleteRoute(ctx context.Context, actor Actor, routeID uint) error {
	const op = "route.delete"
	dbc := dbctx.Context{Ctx: ctx}

	route, err := d.routes.GetByID(dbc, routeID)
	if err != nil {
		return wrapDB(op, err)
	}
	if route == nil {
		return NewNotFound(op, "route %d not found", routeID)
	}
	if err := authorizeRouteChange(dbc, d.routes, op, actor, routeID); err != nil {
		return err
	}

	err = inSession(ctx, d.tx, d.sweeper, func(s *Session) error {
		pointIDs, imageIDs, err := d.routes.ChildIDs(s.DB, routeID)
		if err != nil {
			return err
		}
		for _, id := range pointIDs {
			if err := d.deletePoint(s, id); err != nil {
				return err
			}
		}
		for _, id := range imageIDs {
			if err := d.deleteRouteImageByID(s, id); err != nil {
				return err
			}
		}
		if err := d.tags.DeleteByRoute(s.DB, routeID); err != nil {
			return err
		}
		n, err := d.routes.Delete(s.DB, routeID)
		if err != nil {
			return err
		}
		if n == 0 {
			return NewNotFound(op, "route %d not found", routeID)
		}
		return nil
	})
	if err != nil {
		return wrapDB(op, err)
	}

	logrus.WithFields(logrus.Fields{
		"route_id": routeID,
		"user_id":  actor.UserID,
	}).Info("Route deleted")
	return nil
}

// deletePoint removes the point's images, then the point.
func (d *Deleter) deletePoint(s *Session, pointID uint) error {
	images, err := d.pointImages.ListByPoint(s.DB, pointID)
	if err != nil {
		return err
	}
	for _, img := range images {
		n, err := d.pointImages.DeleteByID(s.DB, img.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			s.QueueBlobDelete(storage.CollectionPoints, img.FilePath)
		}
	}
	_, err = d.points.DeleteByID(s.DB, pointID)
	return err
}

func (d *Deleter) deleteRouteImageByID(s *Session, imageID uint) error {
	img, err := d.images.GetByID(s.DB, imageID)
	if err != nil || img == nil {
		return err
	}
	return d.deleteRouteImage(s, *img)
}

func (d *Deleter) deleteRouteImage(s *Session, img models.RouteImage) error {
	n, err := d.images.DeleteByID(s.DB, img.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.QueueBlobDelete(storage.CollectionRoutes, img.FilePath)
	}
	return nil
}
