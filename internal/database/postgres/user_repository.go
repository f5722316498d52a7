package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shortlyhq/shortly/internal/entity"
)

type userRecord struct {
	ID        int64     `db:"id"`
	AuthID    string    `db:"auth_id"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *userRecord) ToUser() *entity.User {
	return &entity.User{
		ID:        r.ID,
		AuthID:    r.AuthID,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Upsert resolves the user for the given provider subject, creating the
// record on first sight. The unique-constraint upsert keeps concurrent
// first requests from the same subject from inserting duplicates. The
// conflict arm touches nothing; it only exists so RETURNING yields the
// existing row instead of nothing.
func (r *UserRepository) Upsert(ctx context.Context, authID, email string) (*entity.User, error) {
	const op = "database.postgres.UserRepository.Upsert"

	rec := new(userRecord)
	query := `INSERT INTO users(auth_id, email)
		VALUES ($1, $2)
		ON CONFLICT (auth_id) DO UPDATE SET auth_id = EXCLUDED.auth_id
		RETURNING *`

	if err := r.db.GetContext(ctx, rec, query, authID, email); err != nil {
		return nil, fmt.Errorf("%s: failed to upsert user record: %w", op, err)
	}

	return rec.ToUser(), nil
}
