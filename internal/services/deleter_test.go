package services

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onway_routes/internal/models"
	"onway_routes/internal/repository/repotest"
	"onway_routes/internal/storage"
)

func TestDeleteRouteRemovesAggregateAndObjects(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	keep, err := f.svc.CreateRoute(context.Background(), f.admin, CreateRouteDoc{
		Name:   "Untouched",
		Tags:   []string{"x"},
		Images: []ImageDoc{f.upload(storage.CollectionRoutes, 80)},
		Points: []PointDoc{f.point("Stays", 0, 0, 81)},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRoute(context.Background(), f.admin, route.ID))

	assert.Equal(t, int64(1), f.count(t, &models.Route{}))
	assert.Equal(t, int64(1), f.count(t, &models.RouteTag{}))
	assert.Equal(t, int64(1), f.count(t, &models.RouteImage{}))
	assert.Equal(t, int64(1), f.count(t, &models.RoutePoint{}))
	assert.Equal(t, int64(1), f.count(t, &models.RoutePointImage{}))

	assert.ElementsMatch(t, []string{
		storage.ObjectKey(storage.CollectionRoutes, route.Images[0].FilePath),
		storage.ObjectKey(storage.CollectionPoints, route.Points[0].Images[0].FilePath),
		storage.ObjectKey(storage.CollectionPoints, route.Points[1].Images[0].FilePath),
	}, f.store.DeleteAttempts())
	assert.True(t, f.store.Has(storage.CollectionRoutes, keep.Images[0].FilePath))
	assert.True(t, f.store.Has(storage.CollectionPoints, keep.Points[0].Images[0].FilePath))
}

func TestDeleteRouteSwallowsObjectStoreFailures(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	failing := route.Points[0].Images[0].FilePath
	f.store.FailDeleteOf(storage.CollectionPoints, failing)

	hook := logtest.NewGlobal()
	defer hook.Reset()

	require.NoError(t, f.svc.DeleteRoute(context.Background(), f.admin, route.ID))

	assert.Zero(t, f.count(t, &models.Route{}))
	assert.Zero(t, f.count(t, &models.RouteImage{}))
	assert.Zero(t, f.count(t, &models.RoutePoint{}))
	assert.Zero(t, f.count(t, &models.RoutePointImage{}))

	// The failed object is orphaned; the others are gone.
	assert.True(t, f.store.Has(storage.CollectionPoints, failing))
	assert.False(t, f.store.Has(storage.CollectionPoints, route.Points[1].Images[0].FilePath))
	assert.False(t, f.store.Has(storage.CollectionRoutes, route.Images[0].FilePath))

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["key"] == storage.ObjectKey(storage.CollectionPoints, failing) {
			warned = true
		}
	}
	assert.True(t, warned, "expected a warning for the orphaned object")
}

func TestDeleteRouteToleratesMissingObjects(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	require.NoError(t, f.store.Delete(context.Background(), storage.CollectionRoutes, route.Images[0].FilePath))

	require.NoError(t, f.svc.DeleteRoute(context.Background(), f.admin, route.ID))
	assert.Zero(t, f.count(t, &models.Route{}))
	assert.Zero(t, f.store.Len())
}

func TestDeleteRouteNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.svc.DeleteRoute(context.Background(), f.admin, 77)
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestDeleteRouteForbiddenForStranger(t *testing.T) {
	f := newFixture(t)
	route := f.seedRoute(t)
	stranger := repotest.SeedUser(t, f.db, models.RoleUser)

	err := f.svc.DeleteRoute(context.Background(), Actor{UserID: stranger.ID, Role: stranger.Role}, route.ID)
	assert.True(t, IsCode(err, CodeForbidden))
	assert.Equal(t, int64(1), f.count(t, &models.Route{}))
	assert.Empty(t, f.store.DeleteAttempts())
}
