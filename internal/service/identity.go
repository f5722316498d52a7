package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shortlyhq/shortly/internal/auth"
	"github.com/shortlyhq/shortly/internal/entity"
)

// TokenVerifier validates a bearer token with the external identity
// provider and returns the identity it carries.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// UserRepository defines the interface for resolving local user records.
type UserRepository interface {
	// Upsert atomically creates the user on first sight or returns the
	// existing record for the given provider subject.
	Upsert(ctx context.Context, authID, email string) (*entity.User, error)
}

// IdentityService resolves inbound bearer credentials to local user
// records, creating them lazily on first sight.
type IdentityService struct {
	verifier TokenVerifier
	userRepo UserRepository
}

// NewIdentityService creates a new IdentityService with the provided token
// verifier and user repository.
func NewIdentityService(verifier TokenVerifier, userRepo UserRepository) *IdentityService {
	return &IdentityService{
		verifier: verifier,
		userRepo: userRepo,
	}
}

// Authenticate extracts the bearer token from an Authorization header
// value, verifies it and resolves the local user. A missing or rejected
// credential yields entity.ErrUnauthenticated.
func (s *IdentityService) Authenticate(ctx context.Context, authorization string) (*entity.User, error) {
	const op = "service.IdentityService.Authenticate"
	const bearerPrefix = "Bearer "

	if !strings.HasPrefix(authorization, bearerPrefix) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrUnauthenticated)
	}

	token := strings.TrimSpace(strings.TrimPrefix(authorization, bearerPrefix))
	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrUnauthenticated)
	}

	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, entity.ErrUnauthenticated, err)
	}

	user, err := s.userRepo.Upsert(ctx, identity.Subject, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve local user: %w", op, err)
	}

	return user, nil
}
