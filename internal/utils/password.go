package utils // package utils provides helper functions for hashing and random tokens

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of plain using the given cost.  The
// cost factor is fixed by configuration rather than chosen per call so every
// stored hash carries the same work factor.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", errors.New("password is empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
