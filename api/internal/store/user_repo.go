package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type UserRepo struct{ DB DBTX }

func NewUserRepo(db DBTX) *UserRepo { return &UserRepo{DB: db} }

// FindByPhone resolves a phone number to the backend user id.
// Returns ErrNotFound when no user carries the number; any other error is a
// transport problem the caller classifies with IsTimeout.
func (r *UserRepo) FindByPhone(ctx context.Context, phone string) (string, error) {
	const q = `select user_id::text from users where user_phone = $1`
	var id string
	if err := r.DB.QueryRow(ctx, q, phone).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("find user by phone: %w", err)
	}
	return id, nil
}
