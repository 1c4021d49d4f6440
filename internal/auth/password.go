package auth

import (
	"fmt"

	zxcvbn "github.com/ccojocar/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

// minPasswordScore is the zxcvbn score a staff password must reach.
const minPasswordScore = 3

// HashPassword bcrypt-hashes a password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckPasswordStrength returns an error when a proposed staff password is
// too guessable. Usernames feed the dictionary so "adminadmin" for user
// "admin" does not pass.
func CheckPasswordStrength(password string, userInputs ...string) error {
	result := zxcvbn.PasswordStrength(password, userInputs)
	if result.Score < minPasswordScore {
		return fmt.Errorf("password too weak (score %d of %d required)", result.Score, minPasswordScore)
	}
	return nil
}
