// Package entity defines the domain types and errors used in the application.
// It includes the Link struct, which represents a shortened URL together with
// its expiry, protection and ownership metadata, and the User struct for the
// local identity record behind dashboard ownership.
package entity

import "time"

// Link represents a shortened URL.
type Link struct {
	ID                  int64      // ID is the unique identifier of the link in the database.
	ShortID             string     // ShortID is the unique URL-safe token the link is reached by.
	OriginalURL         string     // OriginalURL is the full URL that the short id resolves to.
	Clicks              int64      // Clicks is the number of successful resolutions of the link.
	IsPasswordProtected bool       // IsPasswordProtected reports whether resolution requires a password.
	PasswordHash        string     // PasswordHash is the bcrypt hash of the password; empty when unprotected.
	OwnerID             *int64     // OwnerID is the owning user's id; nil for anonymously created links.
	CreatedAt           time.Time  // CreatedAt is the timestamp when the link was created.
	ExpiresAt           time.Time  // ExpiresAt is the timestamp past which the link no longer resolves.
}

// Expired reports whether the link is past its expiration at the given time.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt.Before(now)
}

// OwnedBy reports whether the link belongs to the user with the given id.
func (l *Link) OwnedBy(userID int64) bool {
	return l.OwnerID != nil && *l.OwnerID == userID
}
