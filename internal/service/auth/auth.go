package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/pkg/logger"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
)

type AuthService struct {
	userRepo     UserRepo
	tokenService TokenProvider
	log          logger.Logger
}

func NewAuthService(userRepo UserRepo, tokenService TokenProvider, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		log:          log,
	}
}

// Authenticate validates an access token and loads its user.
// A token for a deleted user is rejected as unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "authenticate")

	claims, err := s.tokenService.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	ctx = wrap.WithUserID(ctx, claims.UserID.String())

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, wrap.Error(ctx, fmt.Errorf("token owner not found: %w", types.ErrUnauthorized))
		}
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load user: %w", err))
	}
	if user == nil {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	return user, nil
}
