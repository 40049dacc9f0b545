// Package repository is the data-access layer of the route aggregate. Every
// method takes a dbctx.Context so it can run inside the caller's transaction.
package repository

import "gorm.io/gorm"

// Repos bundles every repository over one database handle.
type Repos struct {
	Tx          TxRunner
	Users       UserRepo
	Routes      RouteRepo
	Tags        RouteTagRepo
	Images      RouteImageRepo
	Points      RoutePointRepo
	PointImages RoutePointImageRepo
	Keys        KeyBindingLookup
}

func New(db *gorm.DB) Repos {
	return Repos{
		Tx:          NewTxRunner(db),
		Users:       NewUserRepo(db),
		Routes:      NewRouteRepo(db),
		Tags:        NewRouteTagRepo(db),
		Images:      NewRouteImageRepo(db),
		Points:      NewRoutePointRepo(db),
		PointImages: NewRoutePointImageRepo(db),
		Keys:        NewKeyBindingLookup(db),
	}
}
