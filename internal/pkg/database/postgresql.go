package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the shared pgx pool behind the postgres repositories.
type DB struct {
	*pgxpool.Pool
}

// NewPostgreSQLDB opens the pool and fails fast when the server is unreachable.
func NewPostgreSQLDB(dsn string) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)

	if err != nil {
		return nil, err
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

// Querier is satisfied by both the pool and a pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Transactor runs fn as one all-or-nothing unit. Repositories called with the ctx
// handed to fn take part in the same transaction. A non-nil error or a panic from fn
// rolls back. Calling WithinTx with a ctx that already carries a transaction joins it
// instead of opening a second one. Row locks taken inside fn (LockByID) are held
// until fn returns.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
