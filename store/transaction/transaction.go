package transaction

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type transactionStore struct {
	db *db.DB
}

// New new transaction store, rows are written by the ledger
func New(db *db.DB) core.TransactionStore {
	return &transactionStore{
		db: db,
	}
}

func (s *transactionStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	var transaction core.Transaction
	err := s.db.View().Where("trace_id = ?", traceID).First(&transaction).Error
	if err != nil && !store.IsErrNotFound(err) {
		return nil, err
	}

	return &transaction, nil
}

func (s *transactionStore) List(ctx context.Context, query core.TransactionQuery) ([]*core.Transaction, error) {
	limit := query.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	tx := s.db.View()
	if query.UserID != "" {
		tx = tx.Where("user_id = ?", query.UserID)
	}

	if query.Action != "" {
		action, ok := core.ParseActionType(query.Action)
		if !ok {
			return []*core.Transaction{}, nil
		}

		tx = tx.Where("action = ?", action)
	}

	var transactions []*core.Transaction
	if err := tx.Order("id DESC").Offset(query.Offset).Limit(limit).Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}
