package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/receptar/receptar/internal/ports/outbound"
)

type txKey struct{}

// TxManager runs functions inside a GORM transaction. The transaction
// handle travels in the context so repository calls made inside the
// function join it transparently.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) outbound.TxManager {
	return &TxManager{db: db}
}

// WithinTx executes fn inside a single transaction; any error rolls the
// whole unit back.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls reuse the surrounding transaction.
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom returns the transaction bound to ctx, or the base handle.
func dbFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}
