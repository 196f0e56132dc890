package service

import (
	"context"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/db"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/db/sqlc"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/store"
)

// StoreProvider is the set of stores a ledger transition touches.
type StoreProvider interface {
	Relationships() store.RelationshipStore
	Suggestions() store.SuggestionStore
}

// TxRunner runs fn with stores bound to a single transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type pgTxRunner struct {
	db *db.DB
}

func NewTxRunner(db *db.DB) TxRunner {
	return &pgTxRunner{db: db}
}

func (r *pgTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	sc := logger.StartSpan(ctx, "db.tx")
	defer sc.End()

	err := r.db.WithTx(sc.Context(), func(q *sqlc.Queries) error {
		return fn(store.NewStores(q))
	})
	sc.RecordError(err)
	return err
}
