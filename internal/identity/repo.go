// Package identity maps phone numbers to user records. Users are created on
// first login and immutable afterwards.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPhoneTaken is returned when registration races another registration for
// the same phone number.
var ErrPhoneTaken = errors.New("phone number already registered")

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct{ DB *pgxpool.Pool }

const uniqueViolation = "23505"

// LoginOrRegister returns the existing user for the phone number, or creates
// one. The returned bool is true when a new user was registered.
func (r *Repo) LoginOrRegister(ctx context.Context, name, phone string) (*User, bool, error) {
	u := &User{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, phone, created_at FROM users WHERE phone = $1`, phone,
	).Scan(&u.ID, &u.Name, &u.Phone, &u.CreatedAt)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	err = r.DB.QueryRow(ctx, `
		INSERT INTO users (name, phone) VALUES ($1, $2)
		RETURNING id, name, phone, created_at`, name, phone,
	).Scan(&u.ID, &u.Name, &u.Phone, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, false, ErrPhoneTaken
		}
		return nil, false, fmt.Errorf("register user: %w", err)
	}
	return u, true, nil
}

func (r *Repo) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func (r *Repo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
