package service

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed at 12 rounds: tens of milliseconds per hash on
// commodity hardware. Changing it only affects newly stored hashes.
const bcryptCost = 12

// HashPassword produces a salted bcrypt digest. Two calls with the same
// plaintext yield different digests because bcrypt embeds a fresh salt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether digest was produced from plain. A malformed,
// empty, or foreign-format digest yields false, never an error; the
// comparison itself is constant-time inside bcrypt.
func CheckPassword(plain, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
