package utils // package utils provides helpers for hashing and token issuance

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash using the given cost. bcrypt
// salts internally, so hashing the same input twice yields
// different strings; the contract is verify-compatibility, not
// determinism.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash and a plain password in
// constant time. A malformed hash never panics or errors out of
// this function; it simply reports false.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
