package hash

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooLong is returned for passwords bcrypt would silently truncate.
var ErrTooLong = errors.New("password longer than 72 bytes")

const maxPasswordBytes = 72

func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

// Burn runs one comparison against a fixed hash. Login calls it for unknown
// emails so both failure paths cost the same bcrypt round.
func Burn(password string) {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("furniture-shop-dummy"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummy, []byte(password))
}
