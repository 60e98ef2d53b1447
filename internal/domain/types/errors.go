package types

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrAddressNotFound    = errors.New("address not found")
	ErrGeocodeUnavailable = errors.New("geocoding service unavailable")
	ErrStoreFailure       = errors.New("location store failure")

	ErrUserNotFound = errors.New("user not found")
	ErrUnauthorized = errors.New("unauthorized")
)
