package state

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"furnish-storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by the storefront_state table.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	const q = `
SELECT value
FROM storefront_state
WHERE session_id = $1 AND key = $2
LIMIT 1
`
	var value []byte
	if err := r.pool.QueryRow(ctx, q, sessionID, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *postgresRepo) Set(ctx context.Context, sessionID, key string, value []byte) error {
	const q = `
INSERT INTO storefront_state (session_id, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (session_id, key)
DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, sessionID, key, value)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, sessionID, key string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM storefront_state WHERE session_id = $1 AND key = $2`, sessionID, key)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
