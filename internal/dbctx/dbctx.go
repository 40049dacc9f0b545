package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repositories run on Tx when it is set, so every call made with the same
// Context participates in the caller's transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Conn returns the handle a repository should query with: the transaction
// when present, otherwise fallback, bound to the request context.
func (c Context) Conn(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return db.WithContext(ctx)
}
