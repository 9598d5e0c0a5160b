package auth

import "golang.org/x/crypto/bcrypt"

// HashSecret bcrypt-hashes a password or transaction PIN.
func HashSecret(s string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	return string(b), err
}

// VerifySecret compares a plaintext secret against its stored hash.
func VerifySecret(plain, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
