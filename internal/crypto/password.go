package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost matches the work factor existing account rows were hashed with.
const PasswordCost = 10

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password too long")

func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword returns false with a nil error on a plain mismatch. Malformed
// hashes are reported as errors. Passwords over MaxPasswordBytes never match.
func CheckPassword(hash, password string) (bool, error) {
	if len(password) > MaxPasswordBytes {
		EqualizeTiming(password[:MaxPasswordBytes])
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("luct-dummy-password"), PasswordCost)

// EqualizeTiming burns one bcrypt comparison so unknown usernames cost as
// much as a wrong password.
func EqualizeTiming(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
