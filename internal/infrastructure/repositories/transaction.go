package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/you/accountsvc/domain"
)

type txKey struct{}

// TransactionHandlerImpl implements domain.TransactionHandler using GORM
type TransactionHandlerImpl struct {
	db *gorm.DB
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(db *gorm.DB) domain.TransactionHandler {
	return &TransactionHandlerImpl{db: db}
}

// Execute begins a transaction, runs fn and commits when fn returns nil.
// Any error or panic from fn rolls back every write made through the
// context passed to fn. Nested calls join the outer transaction.
func (h *TransactionHandlerImpl) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or db when there is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
