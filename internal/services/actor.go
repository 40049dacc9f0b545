package services

import (
	"onway_routes/internal/dbctx"
	"onway_routes/internal/models"
	"onway_routes/internal/repository"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// authorizeRouteChange lets admins and the route's owner through.
func authorizeRouteChange(dbc dbctx.Context, owners repository.RouteOwnershipCheck, op string, actor Actor, routeID uint) error {
	if actor.IsAdmin() {
		return nil
	}
	ok, err := owners.IsOwnedBy(dbc, routeID, actor.UserID)
	if err != nil {
		return wrapDB(op, err)
	}
	if !ok {
		return NewForbidden(op, "only the owner or an admin may change route %d", routeID)
	}
	return nil
}
