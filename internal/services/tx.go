package services

import (
	"gorm.io/gorm"

	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
)

// inTx runs fn on the caller's transaction, opening one only when the caller
// has none. Multi-write operations go through here so they stay atomic.
func inTx(db *gorm.DB, dbc dbctx.Context, fn func(dbc dbctx.Context) error) error {
	if dbc.Tx != nil || db == nil {
		return fn(dbc)
	}
	ctx := dbc.Context()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
