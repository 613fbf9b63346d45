package domain

// Identity is the caller attested by a verified ID token. It lives in the
// request context only and is never persisted.
type Identity struct {
	Subject  string
	Username string
	Email    string
}
