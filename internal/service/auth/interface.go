package auth

import (
	"context"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/google/uuid"
)

type UserRepo interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type TokenProvider interface {
	Validate(ctx context.Context, token string) (*models.CustomClaims, error)
}
