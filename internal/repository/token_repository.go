package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kavehram/rms-auth/internal/model"
)

// TokenRepo persists issued token pairs in the 'auth_tokens' table. The
// access token value is the primary key; every lookup is a keyed read.
// Revocation flips the status flag, rows stay behind as history.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Insert stores a freshly issued pair as active.
func (r *TokenRepo) Insert(ctx context.Context, userID uint64, accessToken, refreshToken string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO auth_tokens (user_id, access_token, refresh_token, status) VALUES (?,?,?,1)",
		userID, accessToken, refreshToken)
	return err
}

// GetActiveByAccess returns the active record matching an access token.
func (r *TokenRepo) GetActiveByAccess(ctx context.Context, accessToken string) (model.TokenRecord, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT user_id, access_token, refresh_token, status, created_date FROM auth_tokens WHERE access_token=? AND status=1 LIMIT 1",
		accessToken))
}

// GetActiveByRefresh returns the active record matching a refresh token. A
// revoked or unknown refresh token reads as not found.
func (r *TokenRepo) GetActiveByRefresh(ctx context.Context, refreshToken string) (model.TokenRecord, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT user_id, access_token, refresh_token, status, created_date FROM auth_tokens WHERE refresh_token=? AND status=1 LIMIT 1",
		refreshToken))
}

// ReplaceAccess swaps the access token value on the active row holding the
// given refresh token. The row keeps its refresh token and stays active.
func (r *TokenRepo) ReplaceAccess(ctx context.Context, refreshToken, newAccessToken string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE auth_tokens SET access_token=? WHERE refresh_token=? AND status=1",
		newAccessToken, refreshToken)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// RevokeByAccess marks the record for an access token inactive. Revoking a
// token that is unknown or already revoked is a no-op.
func (r *TokenRepo) RevokeByAccess(ctx context.Context, accessToken string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE auth_tokens SET status=0 WHERE access_token=? AND status=1",
		accessToken)
	return err
}

// DeleteAllForUser removes every registry row of a user. Called only from
// user deletion, where history goes with the account.
func (r *TokenRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM auth_tokens WHERE user_id=?", userID)
	return err
}

func (r *TokenRepo) scanOne(row *sql.Row) (model.TokenRecord, error) {
	var t model.TokenRecord
	err := row.Scan(&t.UserID, &t.AccessToken, &t.RefreshToken, &t.Status, &t.CreatedDate)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TokenRecord{}, ErrNotFound
	}
	return t, err
}
