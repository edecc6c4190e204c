// Package service holds the ports the storefront core calls out through:
// password hashing, client tokens, QR rendering and state-change events.
package service

// PasswordHasher turns account passwords into stored hashes. Accounts never
// keep the plaintext once registration completes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Check reports whether password produces hash. A malformed hash is a mismatch.
	Check(password, hash string) bool
}
