package auth

import (
	"fmt"

	"github.com/Temutjin2k/pivot-location/internal/domain/types"
)

var (
	ErrInvalidToken = fmt.Errorf("invalid token: %w", types.ErrUnauthorized)
	ErrExpToken     = fmt.Errorf("expired token: %w", types.ErrUnauthorized)
)
