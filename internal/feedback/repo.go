package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnknownUser is returned when feedback references a user that does not
// exist.
var ErrUnknownUser = errors.New("unknown user")

type Feedback struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct{ DB *pgxpool.Pool }

const fkViolation = "23503"

func (r *Repo) Submit(ctx context.Context, userID int64, rating int, comment string) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO feedback (user_id, rating, comment)
		VALUES ($1, $2, $3)
		RETURNING id`, userID, rating, comment,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return 0, ErrUnknownUser
		}
		return 0, fmt.Errorf("insert feedback: %w", err)
	}
	return id, nil
}

// List returns all feedback with user names joined, newest first.
func (r *Repo) List(ctx context.Context) ([]Feedback, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT f.id, f.user_id, u.name, f.rating, f.comment, f.created_at
		FROM feedback f
		JOIN users u ON u.id = f.user_id
		ORDER BY f.created_at DESC, f.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.UserName, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
