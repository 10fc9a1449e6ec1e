package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgExecutor is the subset of *pgxpool.Pool the store needs.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists tokens in the session_tokens table.
type PostgresStore struct {
	db pgExecutor
}

// NewPostgresStore returns a Postgres-backed store.
func NewPostgresStore(db pgExecutor) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Load(ctx context.Context, key string) (string, error) {
	const query = `
        SELECT token FROM session_tokens WHERE session_key=$1`

	var token string
	if err := p.db.QueryRow(ctx, query, key).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

func (p *PostgresStore) Save(ctx context.Context, key, token string) error {
	const query = `
        INSERT INTO session_tokens (session_key, token)
        VALUES ($1, $2)
        ON CONFLICT (session_key) DO UPDATE SET token=EXCLUDED.token, updated_at=NOW()`

	_, err := p.db.Exec(ctx, query, key, token)
	return err
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	const query = `
        DELETE FROM session_tokens WHERE session_key=$1`

	_, err := p.db.Exec(ctx, query, key)
	return err
}
