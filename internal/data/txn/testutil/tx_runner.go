package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/cmi5-backend/internal/data/txn"
	"github.com/yungbote/cmi5-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// InjectedTxRunner is a TxRunner for tests. With DB set it opens a real
// transaction; the Fail* fields inject failures at each stage.
type InjectedTxRunner struct {
	mu sync.Mutex

	DB *gorm.DB

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ txn.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failBeforeBody := r.FailBeforeBody
	failCommit := r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if failBeforeBody != nil {
		r.rollback()
		return failBeforeBody
	}
	if fn == nil {
		r.commit()
		return nil
	}

	if r.DB == nil {
		if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
			r.rollback()
			return err
		}
		if failCommit != nil {
			r.rollback()
			return failCommit
		}
		r.commit()
		return nil
	}

	tx := r.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
		tx.Rollback()
		r.rollback()
		return err
	}
	if failCommit != nil {
		tx.Rollback()
		r.rollback()
		return failCommit
	}
	if err := tx.Commit().Error; err != nil {
		r.rollback()
		return err
	}
	r.commit()
	return nil
}

func (r *InjectedTxRunner) commit() {
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
}

func (r *InjectedTxRunner) rollback() {
	r.mu.Lock()
	r.RollbackCalls++
	r.mu.Unlock()
}
