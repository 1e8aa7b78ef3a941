package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
)

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrNotFound           = errors.New("not found")           // 404
	ErrConflict           = errors.New("conflict")            // 400, duplicate email
	ErrInvalidCredentials = errors.New("invalid credentials") // 400
	ErrUnauthorized       = errors.New("unauthorized")        // 401
)

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", what, raw, ErrValidation)
	}
	return id, nil
}

func checkQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be greater than zero: %w", ErrValidation)
	}
	if quantity > models.MaxQuantity {
		return fmt.Errorf("quantity must be at most %d: %w", models.MaxQuantity, ErrValidation)
	}
	return nil
}

// notFound maps the storage not-found error onto the service one and leaves
// every other error untouched.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}
