package store

import (
	"context"

	"gorm.io/gorm"
)

// txKey is an unexported key type so only this package can place a Tx into
// a context.Context, mirroring the way the teacher threads a single clock
// pointer through its table/manager/node chain rather than re-deriving it
// per call.
type txKey struct{}

// Tx is an opaque, cheaply cloneable handle to one in-flight database
// transaction. It is threaded through context.Context so that nested
// service calls enlist in the same transaction rather than opening their
// own.
type Tx struct {
	db *gorm.DB
}

// WithTx returns a new context carrying tx.
func WithTx(ctx context.Context, tx *Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext retrieves the Tx placed by WithTx, or nil if none.
func TxFromContext(ctx context.Context) *Tx {
	tx, _ := ctx.Value(txKey{}).(*Tx)
	return tx
}

// DB returns the *gorm.DB bound to this transaction.
func (t *Tx) DB() *gorm.DB { return t.db }

// RollbackPolicy lets tests force a rollback even when the wrapped function
// returns no error, while production always commits on success and rolls
// back on error.
type RollbackPolicy func(err error) bool

// CommitOnSuccess is the production policy: commit iff fn returned nil.
func CommitOnSuccess(err error) bool { return err == nil }

// AlwaysRollback is the test policy: never commit, regardless of outcome.
func AlwaysRollback(error) bool { return false }

// Database wraps the root *gorm.DB and opens guarded transactions.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// WithinTransaction runs fn inside a single database transaction, enlisting
// any nested store calls that read the Tx back out of ctx. The transaction
// commits or rolls back according to policy.
func (d *Database) WithinTransaction(ctx context.Context, policy RollbackPolicy, fn func(ctx context.Context) error) error {
	if existing := TxFromContext(ctx); existing != nil {
		return fn(ctx) // already inside a transaction; enlist, don't nest
	}

	gdb := d.db.WithContext(ctx)
	sqlTx := gdb.Begin()
	if sqlTx.Error != nil {
		return sqlTx.Error
	}

	tx := &Tx{db: sqlTx}
	err := fn(WithTx(ctx, tx))

	if policy(err) {
		if cerr := sqlTx.Commit().Error; cerr != nil {
			return cerr
		}
		return err
	}
	sqlTx.Rollback()
	return err
}
