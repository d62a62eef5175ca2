package store

import (
	"context"
	"database/sql"
)

// Narrow seams over sqlx so stores accept either *sqlx.DB or *sqlx.Tx.
// Mutating engine calls always pass the enclosing transaction.

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}

// Tx is the surface a store needs from an open transaction.
type Tx interface {
	Execer
	Getter
	Selecter
}
