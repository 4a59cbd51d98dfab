package security

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted bcrypt digest at the given cost. Cost is
// clamped by bcrypt itself; callers pass the configured work factor.
func HashPassword(password string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches the encoded digest.
// A malformed digest verifies as false rather than surfacing an error;
// callers treat any non-match identically.
func VerifyPassword(encoded, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}
