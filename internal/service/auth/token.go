package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService validates access tokens issued by the external auth service.
// Issue exists for local development tooling.
type TokenService struct {
	AccessTTL time.Duration
	secret    string
}

func NewTokenService(secret string, accessTTL time.Duration) *TokenService {
	return &TokenService{
		AccessTTL: accessTTL,
		secret:    secret,
	}
}

func (s *TokenService) getSecret() string {
	return s.secret
}

// Issue signs an access token for user.
func (s *TokenService) Issue(ctx context.Context, user *models.User) (string, time.Time, error) {
	ctx = wrap.WithAction(ctx, "issue_access_token")
	if user == nil {
		return "", time.Time{}, wrap.Error(ctx, errors.New("user is nil"))
	}

	issuedAt := time.Now().UTC()
	token, err := s.signClaims(NewAccessClaim(user, issuedAt, s.AccessTTL, uuid.New()))
	if err != nil {
		return "", time.Time{}, wrap.Error(ctx, fmt.Errorf("failed to sign token: %w", err))
	}

	return token, issuedAt.Add(s.AccessTTL), nil
}

// Validate validates the given JWT token string, returning the custom claims if valid.
func (s *TokenService) Validate(ctx context.Context, token string) (*models.CustomClaims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	parsedToken, err := jwt.ParseWithClaims(token, jwt.MapClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return []byte(s.getSecret()), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, ErrExpToken)
		}
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}
	if !parsedToken.Valid {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	mc, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	typ, _ := mc["typ"].(string)
	if !models.IsValidTokenType(typ) {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	userIDStr, _ := mc["user_id"].(string)
	if userIDStr == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid or missing 'user_id' in token claims: %w", ErrInvalidToken))
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid 'user_id' in token claims: %w", ErrInvalidToken))
	}

	tokenIDStr, _ := mc["jti"].(string)
	tokenID, err := uuid.Parse(tokenIDStr)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid or missing 'jti' in token claims: %w", ErrInvalidToken))
	}

	username, _ := mc["username"].(string)

	expFloat, ok := mc["exp"].(float64)
	if !ok {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid or missing 'exp' in token claims: %w", ErrInvalidToken))
	}

	expTime := time.Unix(int64(expFloat), 0)
	if time.Now().UTC().After(expTime) {
		return nil, wrap.Error(ctx, ErrExpToken)
	}

	claims := &models.CustomClaims{
		UserID:    userID,
		TokenID:   tokenID,
		TokenType: typ,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expTime),
		},
	}

	return claims, nil
}

func (s *TokenService) signClaims(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.getSecret()))
}

func NewAccessClaim(user *models.User, issuedAt time.Time, accessTTL time.Duration, tokenID uuid.UUID) jwt.Claims {
	return jwt.MapClaims{
		"typ":      models.AccessToken,
		"jti":      tokenID.String(),
		"user_id":  user.ID.String(),
		"username": user.Username,
		"iat":      issuedAt.Unix(),
		"exp":      issuedAt.Add(accessTTL).Unix(),
	}
}
