package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
)

type CardStore interface {
	repo.Cards
	repo.Users
}

type CardService struct {
	Repo CardStore
}

// Store saves the gateway token of a user. A user has at most one token, a
// new one replaces the old.
func (s *CardService) Store(ctx context.Context, userID, cardToken string) (*models.PaymentToken, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	cardToken = strings.TrimSpace(cardToken)
	if cardToken == "" {
		return nil, fmt.Errorf("card token required: %w", ErrValidation)
	}

	if _, err := s.Repo.GetUserByID(ctx, uid); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("user %s does not exist: %w", uid, ErrValidation)
		}
		return nil, err
	}

	token := &models.PaymentToken{UserID: uid, CardToken: cardToken}
	if err := s.Repo.SaveCard(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *CardService) Get(ctx context.Context, userID string) (*models.PaymentToken, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	token, err := s.Repo.GetCardByUser(ctx, uid)
	if err != nil {
		return nil, notFound(err, "no credit card information for user %s", uid)
	}
	return token, nil
}
