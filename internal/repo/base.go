package repo

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Base carries the connection shared by repositories and the store. A Base
// bound to a transaction behaves exactly like one bound to the pool.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx rebinds the base to tx; a nil tx keeps the current connection.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// Now reports the clock used for created/updated timestamps.
func (b Base) Now() time.Time {
	return b.db.NowFunc()
}

// Dialect is the gorm dialector name, "postgres" or "sqlite".
func (b Base) Dialect() string {
	return b.db.Dialector.Name()
}

// Transaction runs fn inside a transaction. Postgres honours the isolation
// and read-only options; SQLite ignores them.
func (b Base) Transaction(ctx context.Context, fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	if b.Dialect() != "postgres" {
		opts = nil
	}
	return b.DB(ctx).Transaction(fn, opts...)
}
