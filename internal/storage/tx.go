// Package storage implements the service gateways on top of gorm.
package storage

import (
	"context"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/services"
	"gorm.io/gorm"
)

type txKey struct{}

// Transactor carries the open transaction in the context so every store
// called inside WithinTx shares it.
type Transactor struct {
	db *gorm.DB
}

var _ services.Transactor = (*Transactor)(nil)

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction from ctx, or db.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
