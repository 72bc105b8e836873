package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes plaintext using bcrypt. The work factor makes
// brute-forcing stolen hashes deliberately expensive.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares plaintext to a stored hash. Returns false on
// any mismatch.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
