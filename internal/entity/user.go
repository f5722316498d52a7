package entity

import "time"

// User represents a local identity record resolved from the external
// identity provider. It is created lazily on the first authenticated
// request from a previously unseen subject and never mutated afterwards.
type User struct {
	ID        int64     // ID is the unique identifier of the user in the database.
	AuthID    string    // AuthID is the subject claim assigned by the identity provider.
	Email     string    // Email is the address reported by the identity provider.
	CreatedAt time.Time // CreatedAt is the timestamp when the user was first seen.
}
