package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shortlyhq/shortly/internal/entity"
	"github.com/shortlyhq/shortly/internal/service"
)

type linkRecord struct {
	ID                  int64          `db:"id"`
	ShortID             string         `db:"short_id"`
	OriginalURL         string         `db:"original_url"`
	Clicks              int64          `db:"clicks"`
	IsPasswordProtected bool           `db:"is_password_protected"`
	PasswordHash        sql.NullString `db:"password_hash"`
	OwnerID             sql.NullInt64  `db:"owner_id"`
	CreatedAt           time.Time      `db:"created_at"`
	ExpiresAt           time.Time      `db:"expires_at"`
}

func (r *linkRecord) ToLink() *entity.Link {
	link := &entity.Link{
		ID:                  r.ID,
		ShortID:             r.ShortID,
		OriginalURL:         r.OriginalURL,
		Clicks:              r.Clicks,
		IsPasswordProtected: r.IsPasswordProtected,
		PasswordHash:        r.PasswordHash.String,
		CreatedAt:           r.CreatedAt,
		ExpiresAt:           r.ExpiresAt,
	}

	if r.OwnerID.Valid {
		ownerID := r.OwnerID.Int64
		link.OwnerID = &ownerID
	}

	return link
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

// Create inserts a new link. Short id uniqueness is enforced by the
// database, so concurrent inserts of the same id surface as
// entity.ErrShortIDExists instead of racing a prior existence check.
func (r *LinkRepository) Create(ctx context.Context, params service.CreateLinkParams) (*entity.Link, error) {
	const op = "database.postgres.LinkRepository.Create"

	rec := new(linkRecord)
	query := `INSERT INTO links(short_id, original_url, is_password_protected, password_hash, owner_id, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *`

	passwordHash := sql.NullString{String: params.PasswordHash, Valid: params.PasswordHash != ""}
	ownerID := sql.NullInt64{}
	if params.OwnerID != nil {
		ownerID = sql.NullInt64{Int64: *params.OwnerID, Valid: true}
	}

	err := r.db.GetContext(ctx, rec, query,
		params.ShortID, params.OriginalURL, params.PasswordHash != "", passwordHash, ownerID, params.ExpiresAt)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortIDExists)
		}

		return nil, fmt.Errorf("%s: failed to create link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

func (r *LinkRepository) GetByShortID(ctx context.Context, shortID string) (*entity.Link, error) {
	const op = "database.postgres.LinkRepository.GetByShortID"

	rec := new(linkRecord)
	query := `SELECT * FROM links
		WHERE short_id = $1`

	err := r.db.GetContext(ctx, rec, query, shortID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get link record: %w", op, err)
	}

	return rec.ToLink(), nil
}

// IncrementClicks bumps the click counter by exactly one as a single
// atomic UPDATE and returns the updated link.
func (r *LinkRepository) IncrementClicks(ctx context.Context, shortID string) (*entity.Link, error) {
	const op = "database.postgres.LinkRepository.IncrementClicks"

	rec := new(linkRecord)
	query := `UPDATE links
		SET clicks = clicks + 1
		WHERE short_id = $1
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, shortID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to increment clicks: %w", op, err)
	}

	return rec.ToLink(), nil
}

// ListByOwner returns the owner's links ordered newest first.
func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID int64) ([]entity.Link, error) {
	const op = "database.postgres.LinkRepository.ListByOwner"

	var recs []linkRecord
	query := `SELECT * FROM links
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &recs, query, ownerID); err != nil {
		return nil, fmt.Errorf("%s: failed to list link records: %w", op, err)
	}

	links := make([]entity.Link, 0, len(recs))
	for _, rec := range recs {
		links = append(links, *rec.ToLink())
	}

	return links, nil
}

func (r *LinkRepository) Delete(ctx context.Context, shortID string) error {
	const op = "database.postgres.LinkRepository.Delete"

	query := `DELETE FROM links
		WHERE short_id = $1`

	res, err := r.db.ExecContext(ctx, query, shortID)
	if err != nil {
		return fmt.Errorf("%s: failed to delete link record: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	return nil
}
