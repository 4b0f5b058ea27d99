package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by the catalog and order repositories. It holds either
// the pooled connection or, inside order placement, the open transaction.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB scopes the handle to ctx so request cancellation reaches Postgres.
// A nil ctx yields the bare handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx != nil {
		return b.db.WithContext(ctx)
	}
	return b.db
}

// WithTx returns a copy bound to tx; a nil tx leaves b unchanged.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx != nil {
		b.db = tx
	}
	return b
}

// Active hides delisted products and cancelled workshops.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
