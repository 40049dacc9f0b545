package services

import (
	"fmt"
	"testing"

	"gorm.io/gorm"

	"onway_routes/internal/models"
	"onway_routes/internal/repository"
	"onway_routes/internal/repository/repotest"
	"onway_routes/internal/storage"
	"onway_routes/internal/storage/storagetest"
)

type fixture struct {
	db    *gorm.DB
	store *storagetest.Memory
	svc   *RouteService
	admin Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.DB(t)
	store := storagetest.NewMemory()
	admin := repotest.SeedUser(t, db, models.RoleAdmin)
	return &fixture{
		db:    db,
		store: store,
		svc:   NewRouteService(repository.New(db), store, 4),
		admin: Actor{UserID: admin.ID, Role: admin.Role},
	}
}

// upload stores the object the way a client would before submitting a document.
func (f *fixture) upload(collection storage.Collection, n int) ImageDoc {
	name := fileName(n)
	f.store.Put(collection, name)
	return ImageDoc{FileName: name, ImageURL: fmt.Sprintf("https://cdn.test/%s/%s", collection, name)}
}

func (f *fixture) point(name string, lat, lng float64, imageNo int) PointDoc {
	return PointDoc{
		Name:      name,
		Type:      models.PointTypeNature,
		Latitude:  lat,
		Longitude: lng,
		Images:    []ImageDoc{f.upload(storage.CollectionPoints, imageNo)},
	}
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	return repotest.Count(t, f.db, model)
}

func fileName(n int) string {
	return fmt.Sprintf("%08d-0000-4000-8000-000000000000.png", n)
}

func ptr[T any](v T) *T { return &v }

func sequences(points []models.RoutePoint) []int {
	out := make([]int, 0, len(points))
	for _, p := range points {
		out = append(out, p.Sequence)
	}
	return out
}
