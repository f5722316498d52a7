package entity

import "errors"

var (
	// ErrOriginalURLRequired is returned when a shorten request carries no original URL.
	ErrOriginalURLRequired = errors.New("original url is required")
	// ErrShortIDExists is returned when attempting to create a link with a short id that is already taken.
	ErrShortIDExists = errors.New("short id already in use")
	// ErrLinkNotFound is returned when a link with the specified short id cannot be found.
	ErrLinkNotFound = errors.New("link not found")
	// ErrLinkExpired is returned when resolving a link past its expiration date.
	ErrLinkExpired = errors.New("link has expired")
	// ErrPasswordRequired is returned when resolving a protected link without a password.
	ErrPasswordRequired = errors.New("password required")
	// ErrInvalidPassword is returned when the supplied password does not match the stored hash.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrNotLinkOwner is returned when a user attempts to delete a link they don't own.
	ErrNotLinkOwner = errors.New("not the link owner")
	// ErrUnauthenticated is returned when the bearer credential is missing or rejected.
	ErrUnauthenticated = errors.New("unauthenticated")
)
