package repository

import (
	"context"
	"database/sql"

	"github.com/suretydesk/suretydesk/internal/db"
)

// SQLiteStore is the default Store. Transactions go through the UnitOfWork
// so tests can inject failures mid-transaction.
type SQLiteStore struct {
	db  *sql.DB
	uow db.UnitOfWork
}

func NewSQLiteStore(database *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: database, uow: db.NewSQLiteUnitOfWork(database)}
}

// NewSQLiteStoreWithUoW uses uow for WithinTx.
func NewSQLiteStoreWithUoW(database *sql.DB, uow db.UnitOfWork) *SQLiteStore {
	return &SQLiteStore{db: database, uow: uow}
}

func (s *SQLiteStore) Projects() ProjectRepo { return NewSQLiteProjectRepo(s.db) }

func (s *SQLiteStore) Logs() OperationLogRepo { return NewSQLiteOperationLogRepo(s.db) }

func (s *SQLiteStore) WithinTx(ctx context.Context, fn func(ctx context.Context, projects ProjectRepo, logs OperationLogRepo) error) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, NewSQLiteProjectRepo(tx), NewSQLiteOperationLogRepo(tx))
	})
}
