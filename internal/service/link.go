package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shortlyhq/shortly/internal/entity"
	"golang.org/x/crypto/bcrypt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrMaxRetriesExceeded is returned when the maximum number of retries for generating a short id is exceeded.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating short id")

const defaultExpiryDays = 30

// CreateLinkParams carries the full set of fields a new link is stored with.
type CreateLinkParams struct {
	ShortID      string
	OriginalURL  string
	PasswordHash string
	OwnerID      *int64
	ExpiresAt    time.Time
}

// LinkRepository defines the interface for working with links at the business logic layer.
type LinkRepository interface {
	// Create inserts a new link. It must report entity.ErrShortIDExists
	// via a single atomic insert when the short id is already taken.
	Create(ctx context.Context, params CreateLinkParams) (*entity.Link, error)

	// GetByShortID retrieves a link by its short id without changing it.
	GetByShortID(ctx context.Context, shortID string) (*entity.Link, error)

	// IncrementClicks atomically bumps the click counter by one and
	// returns the updated link.
	IncrementClicks(ctx context.Context, shortID string) (*entity.Link, error)

	// ListByOwner returns the owner's links ordered newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]entity.Link, error)

	// Delete removes a link by its short id.
	Delete(ctx context.Context, shortID string) error
}

// ShortenInput carries the parameters of a shorten request.
type ShortenInput struct {
	OwnerID       *int64
	OriginalURL   string
	CustomShortID string
	ExpiresInDays int
	Password      string
}

// LinkService provides the link management operations: creation with
// collision-checked short id assignment, lookup, owner listing, deletion
// and the redirect-resolution procedure.
type LinkService struct {
	repo          LinkRepository
	shortIDLength int
}

// NewLinkService creates a new LinkService with the provided repository and
// generated short id length.
func NewLinkService(repo LinkRepository, shortIDLength int) *LinkService {
	return &LinkService{
		repo:          repo,
		shortIDLength: shortIDLength,
	}
}

// Shorten creates a link for the given original URL. A custom short id is
// used as-is and conflicts surface immediately; otherwise a random short id
// is generated and regenerated on collision up to a bounded number of
// attempts. A supplied password is stored as a bcrypt hash, never verbatim.
func (s *LinkService) Shorten(ctx context.Context, input ShortenInput) (*entity.Link, error) {
	const op = "service.LinkService.Shorten"
	const maxRetries = 5

	if input.OriginalURL == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrOriginalURLRequired)
	}

	var passwordHash string
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
		}
		passwordHash = string(hash)
	}

	expiresInDays := input.ExpiresInDays
	if expiresInDays <= 0 {
		expiresInDays = defaultExpiryDays
	}

	params := CreateLinkParams{
		OriginalURL:  input.OriginalURL,
		PasswordHash: passwordHash,
		OwnerID:      input.OwnerID,
		ExpiresAt:    time.Now().Add(time.Duration(expiresInDays) * 24 * time.Hour),
	}

	if input.CustomShortID != "" {
		params.ShortID = input.CustomShortID

		link, err := s.repo.Create(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return link, nil
	}

	for i := 0; i < maxRetries; i++ {
		shortID, err := gonanoid.New(s.shortIDLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short id: %w", op, err)
		}
		params.ShortID = shortID

		link, err := s.repo.Create(ctx, params)
		if err != nil {
			if errors.Is(err, entity.ErrShortIDExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return link, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// Resolve translates a short id plus an optional password into the link,
// incrementing the click counter by exactly one on success. The checks run
// in order: existence, expiry, password gate. The counter is untouched when
// any check fails.
func (s *LinkService) Resolve(ctx context.Context, shortID, password string) (*entity.Link, error) {
	const op = "service.LinkService.Resolve"

	link, err := s.repo.GetByShortID(ctx, shortID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short id: %w", op, err)
	}

	if link.Expired(time.Now()) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkExpired)
	}

	if link.IsPasswordProtected {
		if password == "" {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrPasswordRequired)
		}
		if bcrypt.CompareHashAndPassword([]byte(link.PasswordHash), []byte(password)) != nil {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidPassword)
		}
	}

	link, err = s.repo.IncrementClicks(ctx, shortID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to increment clicks: %w", op, err)
	}

	return link, nil
}

// Info retrieves the link's metadata without mutating it.
func (s *LinkService) Info(ctx context.Context, shortID string) (*entity.Link, error) {
	const op = "service.LinkService.Info"

	link, err := s.repo.GetByShortID(ctx, shortID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link info: %w", op, err)
	}

	return link, nil
}

// ListByOwner returns the user's links ordered newest first.
func (s *LinkService) ListByOwner(ctx context.Context, ownerID int64) ([]entity.Link, error) {
	const op = "service.LinkService.ListByOwner"

	links, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list links: %w", op, err)
	}

	return links, nil
}

// Delete removes the link if it belongs to the given owner.
func (s *LinkService) Delete(ctx context.Context, ownerID int64, shortID string) error {
	const op = "service.LinkService.Delete"

	link, err := s.repo.GetByShortID(ctx, shortID)
	if err != nil {
		return fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	if !link.OwnedBy(ownerID) {
		return fmt.Errorf("%s: %w", op, entity.ErrNotLinkOwner)
	}

	if err := s.repo.Delete(ctx, shortID); err != nil {
		return fmt.Errorf("%s: failed to delete link: %w", op, err)
	}

	return nil
}
