package auth

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the fixed work factor for password digests.
const BcryptCost = 12

// HashPassword produces a salted one-way digest of the plaintext. Each call
// salts independently, so hashing the same password twice yields different
// digests.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
// A malformed digest fails closed: the function returns false rather than
// surfacing an error into the caller's success path.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
