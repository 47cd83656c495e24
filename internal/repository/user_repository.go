package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"priceping/internal/model"
)

// UserRepository reads user records. It stands in for the external
// identity provider: only contact addresses and API tokens are ever read,
// nothing is written.
type UserRepository struct {
	DB Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{DB: db}
}

// GetEmail resolves a user's contact address. An unknown user yields an
// empty address, not an error: alerting treats it as "nothing to send to".
func (r *UserRepository) GetEmail(ctx context.Context, userID string) (string, error) {
	var email string
	err := r.DB.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return email, err
}

// GetByToken resolves an API token to its user, or nil when the token is
// unknown.
func (r *UserRepository) GetByToken(ctx context.Context, token string) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRow(ctx,
		`SELECT id, email, api_token FROM users WHERE api_token = $1`, token).
		Scan(&u.ID, &u.Email, &u.APIToken)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
