/*
Package randx provides identifier generation and identity validation helpers.

Message and channel ids are standard UUIDs. Identity strings arrive from
clients and are validated here before they reach the core.
*/
package randx

import (
	"github.com/google/uuid"
)

// MaxIdentityLength bounds the accepted length of a client-supplied identity.
const MaxIdentityLength = 64

// ID generates a new UUID string, used for message and channel ids.
func ID() string {
	return uuid.NewString()
}

// ValidIdentity reports whether id is acceptable as a user identity: non-empty,
// bounded in length, and limited to URL-safe characters.
func ValidIdentity(id string) bool {
	if id == "" || len(id) > MaxIdentityLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r == '-' || r == '_' || r == '.' || r == '@':
		default:
			return false
		}
	}
	return true
}
