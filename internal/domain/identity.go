package domain

// Identity is the verified result of resolving a session token. It lives for
// a single request and is never persisted.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}
