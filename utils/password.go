package utils

import "golang.org/x/crypto/bcrypt"

// Account passwords are only ever stored as bcrypt hashes; the plaintext
// never reaches the database or the logs.

// HashPassword hashes a plaintext password for storage on the user record.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash. An empty
// stored hash never matches, so accounts without a usable credential cannot
// log in.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
