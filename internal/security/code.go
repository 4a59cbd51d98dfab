package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math/big"
	"strconv"
)

// NewVerificationCode returns a cryptographically random numeric code of the
// given digit count, zero-padded. Codes are delivered out-of-band and only
// their hash is persisted.
func NewVerificationCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	code := n.String()
	for len(code) < digits {
		code = "0" + code
	}
	return code, nil
}

// HashCode produces the storable digest of a verification code.
func HashCode(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// CodeMatches compares a supplied code against a stored digest in constant
// time.
func CodeMatches(raw, storedHash string) bool {
	supplied := HashCode(raw)
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(storedHash)) == 1
}

// ValidCodeFormat reports whether raw looks like a numeric code of the given
// length; malformed input never reaches the digest comparison.
func ValidCodeFormat(raw string, digits int) bool {
	if len(raw) != digits {
		return false
	}
	_, err := strconv.Atoi(raw)
	return err == nil
}
