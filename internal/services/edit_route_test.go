package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onway_routes/internal/models"
	"onway_routes/internal/repository/repotest"
	"onway_routes/internal/storage"
)

func (f *fixture) seedRoute(t *testing.T) *models.Route {
	t.Helper()
	route, err := f.svc.CreateRoute(context.Background(), f.admin, CreateRouteDoc{
		Name:   "Trilha do Ouro",
		Tags:   []string{"nature", "hiking"},
		Images: []ImageDoc{f.upload(storage.CollectionRoutes, 1)},
		Points: []PointDoc{
			f.point("Point A", -22.90, -44.60, 101),
			f.point("Point B", -22.95, -44.65, 102),
		},
	})
	require.NoError(t, err)
	return route
}

// desiredFrom mirrors a persisted aggregate back as a full edit document.
func desiredFrom(route *models.Route) EditRouteDoc {
	tags := make([]string, 0, len(route.Tags))
	for _, tag := range route.Tags {
		tags = append(tags, tag.Tag)
	}
	images := make([]ImageDoc, 0, len(route.Images))
	for _, img := range route.Images {
		images = append(images, ImageDoc{FileName: img.FilePath, ImageURL: img.ImageURL})
	}
	points := make([]PointDoc, 0, len(route.Points))
	for _, p := range route.Points {
		points = append(points, PointDoc{
			ID:          ptr(p.ID),
			Name:        p.Name,
			Description: p.Description,
			Type:        p.Type,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
		})
	}
	return EditRouteDoc{
		Name:        ptr(route.Name),
		Description: ptr(route.Description),
		Tags:        &tags,
		Images:      &images,
		Points:      &points,
	}
}

func TestEditRouteReplacesAndReordersPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	route := f.seedRoute(t)
	a, b := route.Points[0], route.Points[1]

	c := f.point("Point C", -23.00, -44.70, 103)
	edited, err := f.svc.EditRoute(ctx, f.admin, route.ID, EditRouteDoc{
		Points: &[]PointDoc{
			{ID: ptr(b.ID), Name: b.Name, Type: b.Type, Latitude: b.Latitude, Longitude: b.Longitude},
			c,
		},
	})
	require.NoError(t, err)

	require.Len(t, edited.Points, 2)
	assert.Equal(t, b.ID, edited.Points[0].ID)
	assert.Equal(t, 0, edited.Points[0].Sequence)
	assert.Equal(t, "Point C", edited.Points[1].Name)
	assert.Equal(t, 1, edited.Points[1].Sequence)
	require.Len(t, edited.Points[1].Images, 1)

	var left int64
	require.NoError(t, f.db.Model(&models.RoutePoint{}).Where("id = ?", a.ID).Count(&left).Error)
	assert.Zero(t, left)
	assert.Equal(t, int64(2), f.count(t, &models.RoutePointImage{}))
	assert.False(t, f.store.Has(storage.CollectionPoints, a.Images[0].FilePath))
	assert.True(t, f.store.Has(storage.CollectionPoints, b.Images[0].FilePath))

	// Images of surviving points are kept as they are.
	assert.Equal(t, b.Images[0].ID, edited.Points[0].Images[0].ID)
}

func TestEditRouteTagsRemovedOnly(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	var nature models.RouteTag
	for _, tag := range route.Tags {
		if tag.Tag == "nature" {
			nature = tag
		}
	}

	edited, err := f.svc.EditRoute(context.Background(), f.admin, route.ID, EditRouteDoc{
		Tags: &[]string{"nature"},
	})
	require.NoError(t, err)

	require.Len(t, edited.Tags, 1)
	assert.Equal(t, nature.ID, edited.Tags[0].ID)
	assert.Equal(t, int64(1), f.count(t, &models.RouteTag{}))
}

func TestEditRouteSameDocumentTwiceChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	route := f.seedRoute(t)
	doc := desiredFrom(route)

	first, err := f.svc.EditRoute(ctx, f.admin, route.ID, doc)
	require.NoError(t, err)
	second, err := f.svc.EditRoute(ctx, f.admin, route.ID, doc)
	require.NoError(t, err)

	for _, got := range []*models.Route{first, second} {
		require.Len(t, got.Points, len(route.Points))
		for i := range route.Points {
			assert.Equal(t, route.Points[i].ID, got.Points[i].ID)
			assert.Equal(t, i, got.Points[i].Sequence)
		}
		require.Len(t, got.Images, 1)
		assert.Equal(t, route.Images[0].ID, got.Images[0].ID)
		require.Len(t, got.Tags, 2)
		assert.Equal(t, route.Tags[0].ID, got.Tags[0].ID)
	}
	assert.Empty(t, f.store.DeleteAttempts())
}

func TestEditRouteImagesDeletesObjectAfterCommit(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	old := route.Images[0]
	fresh := f.upload(storage.CollectionRoutes, 2)

	edited, err := f.svc.EditRoute(context.Background(), f.admin, route.ID, EditRouteDoc{
		Name:   ptr("Trilha do Ouro II"),
		Images: &[]ImageDoc{fresh},
	})
	require.NoError(t, err)

	assert.Equal(t, "Trilha do Ouro II", edited.Name)
	require.Len(t, edited.Images, 1)
	assert.Equal(t, fresh.ImageURL, edited.Images[0].ImageURL)
	assert.False(t, f.store.Has(storage.CollectionRoutes, old.FilePath))
	assert.Equal(t, []string{storage.ObjectKey(storage.CollectionRoutes, old.FilePath)}, f.store.DeleteAttempts())
}

func TestEditRouteRollbackKeepsObjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	route := f.seedRoute(t)
	other, err := f.svc.CreateRoute(ctx, f.admin, CreateRouteDoc{
		Name:   "Other route",
		Tags:   []string{"x"},
		Images: []ImageDoc{f.upload(storage.CollectionRoutes, 50)},
		Points: []PointDoc{f.point("Other stop", 0, 0, 51)},
	})
	require.NoError(t, err)

	_, err = f.svc.EditRoute(ctx, f.admin, route.ID, EditRouteDoc{
		Images: &[]ImageDoc{{FileName: other.Images[0].FilePath, ImageURL: "https://cdn.test/routes/stolen.png"}},
	})
	require.Error(t, err)
	assert.Equal(t, CodeConflict, CodeOf(err))

	after, err := f.svc.DescribeRoute(ctx, route.ID)
	require.NoError(t, err)
	require.Len(t, after.Images, 1)
	assert.Equal(t, route.Images[0].ID, after.Images[0].ID)
	assert.True(t, f.store.Has(storage.CollectionRoutes, route.Images[0].FilePath))
	assert.Empty(t, f.store.DeleteAttempts())
}

func TestEditRouteDuplicateImageURLIsValidationError(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	a := f.upload(storage.CollectionRoutes, 7)
	b := f.upload(storage.CollectionRoutes, 8)
	b.ImageURL = a.ImageURL

	_, err := f.svc.EditRoute(context.Background(), f.admin, route.ID, EditRouteDoc{
		Images: &[]ImageDoc{a, b},
	})
	assert.True(t, IsCode(err, CodeValidation), "got %v", err)
	assert.Equal(t, int64(1), f.count(t, &models.RouteImage{}))
}

func TestEditRoutePointReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	route := f.seedRoute(t)
	other, err := f.svc.CreateRoute(ctx, f.admin, CreateRouteDoc{
		Name:   "Other route",
		Tags:   []string{"x"},
		Images: []ImageDoc{f.upload(storage.CollectionRoutes, 60)},
		Points: []PointDoc{f.point("Foreign", 0, 0, 61)},
	})
	require.NoError(t, err)

	foreign := other.Points[0]
	_, err = f.svc.EditRoute(ctx, f.admin, route.ID, EditRouteDoc{
		Points: &[]PointDoc{{ID: ptr(foreign.ID), Name: "Foreign", Type: foreign.Type}},
	})
	assert.True(t, IsCode(err, CodeValidation), "got %v", err)

	_, err = f.svc.EditRoute(ctx, f.admin, route.ID, EditRouteDoc{
		Points: &[]PointDoc{{ID: ptr(uint(9999)), Name: "Missing", Type: models.PointTypeHotel}},
	})
	assert.True(t, IsCode(err, CodeNotFound), "got %v", err)

	_, err = f.svc.EditRoute(ctx, f.admin, route.ID, EditRouteDoc{
		Points: &[]PointDoc{{Name: "No images", Type: models.PointTypeHotel}},
	})
	assert.True(t, IsCode(err, CodeValidation), "got %v", err)

	after, err := f.svc.DescribeRoute(ctx, route.ID)
	require.NoError(t, err)
	assert.Len(t, after.Points, 2)
}

func TestEditRouteMissingRoute(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.EditRoute(context.Background(), f.admin, 42, EditRouteDoc{Name: ptr("Whatever")})
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestEditRouteAuthorization(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	stranger := repotest.SeedUser(t, f.db, models.RoleUser)

	_, err := f.svc.EditRoute(context.Background(), Actor{UserID: stranger.ID, Role: stranger.Role}, route.ID, EditRouteDoc{
		Name: ptr("Hijacked"),
	})
	assert.True(t, IsCode(err, CodeForbidden))

	// The owner keeps access even without the admin role.
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", f.admin.UserID).Update("role", models.RoleUser).Error)
	_, err = f.svc.EditRoute(context.Background(), Actor{UserID: f.admin.UserID, Role: models.RoleUser}, route.ID, EditRouteDoc{
		Name: ptr("Renamed by owner"),
	})
	assert.NoError(t, err)
}

func TestEditRouteClearingPointsDropsGeometry(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	require.NotEmpty(t, route.Geometry)

	edited, err := f.svc.EditRoute(context.Background(), f.admin, route.ID, EditRouteDoc{Points: &[]PointDoc{}})
	require.NoError(t, err)

	assert.Empty(t, edited.Points)
	assert.Empty(t, edited.Geometry)
	assert.Zero(t, edited.DistanceKm)
	assert.Zero(t, f.count(t, &models.RoutePointImage{}))
	assert.Len(t, f.store.DeleteAttempts(), 2)
}

func TestEditRouteRebindingRouteImageKeepsObject(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	old := route.Images[0]

	edited, err := f.svc.EditRoute(context.Background(), f.admin, route.ID, EditRouteDoc{
		Images: &[]ImageDoc{{FileName: old.FilePath, ImageURL: "https://cdn2.test/routes/" + old.FilePath}},
	})
	require.NoError(t, err)

	require.Len(t, edited.Images, 1)
	assert.Equal(t, old.FilePath, edited.Images[0].FilePath)
	assert.NotEqual(t, old.ImageURL, edited.Images[0].ImageURL)
	assert.True(t, f.store.Has(storage.CollectionRoutes, old.FilePath))
	assert.Empty(t, f.store.DeleteAttempts())
}

func TestEditRouteRebindingDeletedPointImageKeepsObject(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	a, b := route.Points[0], route.Points[1]
	reused := a.Images[0].FilePath

	edited, err := f.svc.EditRoute(context.Background(), f.admin, route.ID, EditRouteDoc{
		Points: &[]PointDoc{
			{ID: ptr(b.ID), Name: b.Name, Type: b.Type, Latitude: b.Latitude, Longitude: b.Longitude},
			{
				Name:      "Point C",
				Type:      models.PointTypePark,
				Latitude:  -23.00,
				Longitude: -44.70,
				Images:    []ImageDoc{{FileName: reused, ImageURL: "https://cdn2.test/points/" + reused}},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, edited.Points, 2)
	require.Len(t, edited.Points[1].Images, 1)
	assert.Equal(t, reused, edited.Points[1].Images[0].FilePath)
	assert.True(t, f.store.Has(storage.CollectionPoints, reused))
	assert.Empty(t, f.store.DeleteAttempts())
}

func TestEditRouteKeptImageURLCannotChangeFileName(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	old := route.Images[0]
	renamed := f.upload(storage.CollectionRoutes, 9)

	_, err := f.svc.EditRoute(context.Background(), f.admin, route.ID, EditRouteDoc{
		Images: &[]ImageDoc{{FileName: renamed.FileName, ImageURL: old.ImageURL}},
	})
	assert.True(t, IsCode(err, CodeValidation), "got %v", err)

	after, err := f.svc.DescribeRoute(context.Background(), route.ID)
	require.NoError(t, err)
	require.Len(t, after.Images, 1)
	assert.Equal(t, old.FilePath, after.Images[0].FilePath)
	assert.Empty(t, f.store.DeleteAttempts())
}
