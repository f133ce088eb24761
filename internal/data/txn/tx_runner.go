// Package txn owns the request-scoped transaction boundary and the mapping of
// store failures onto the errs taxonomy.
package txn

import (
	"context"

	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// TxRunner runs fn inside a single transaction. fn returning an error, a panic
// or a cancelled ctx rolls everything back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errs.New(errs.CodeInternal, "txn.begin", "transaction runner has nil db", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return MapError("txn.begin", err)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
			return err
		}
		// a request abandoned mid-flight must not commit
		if err := ctx.Err(); err != nil {
			return MapError("txn.commit", err)
		}
		return nil
	})
}
