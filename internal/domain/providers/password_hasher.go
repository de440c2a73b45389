package providers

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Compare reports whether password matches hash
	Compare(hash, password string) bool
}
