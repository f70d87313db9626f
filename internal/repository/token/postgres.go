package token

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

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Save(ctx context.Context, t Tokens) error {
	const q = `
INSERT INTO storefront_tokens (session_id, access_token, refresh_token, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (session_id)
DO UPDATE SET access_token = EXCLUDED.access_token, refresh_token = EXCLUDED.refresh_token, updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, t.SessionID, t.AccessToken, t.RefreshToken)
	return err
}

func (r *postgresRepo) Get(ctx context.Context, sessionID string) (*Tokens, error) {
	const q = `
SELECT session_id, access_token, refresh_token, updated_at
FROM storefront_tokens
WHERE session_id = $1
LIMIT 1
`
	var out Tokens
	if err := r.pool.QueryRow(ctx, q, sessionID).Scan(
		&out.SessionID,
		&out.AccessToken,
		&out.RefreshToken,
		&out.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, sessionID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM storefront_tokens WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
