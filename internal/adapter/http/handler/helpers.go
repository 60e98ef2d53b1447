package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	t "github.com/Temutjin2k/pivot-location/internal/domain/types"
)

const maxBodyBytes = 1 << 20

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}

	for key, values := range headers {
		w.Header()[key] = values
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(append(js, '\n'))

	return err
}

// readJSON decodes a single JSON value of at most maxBodyBytes into dst.
// Unknown fields are ignored.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		return describeDecodeError(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func describeDecodeError(err error) error {
	var (
		syntaxErr    *json.SyntaxError
		typeErr      *json.UnmarshalTypeError
		maxBytesErr  *http.MaxBytesError
		unmarshalErr *json.InvalidUnmarshalError
	)

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Errorf("body contains incorrect JSON type for field %q", typeErr.Field)
	case errors.As(err, &typeErr):
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", typeErr.Offset)
	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")
	case errors.As(err, &maxBytesErr):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesErr.Limit)
	case errors.As(err, &unmarshalErr):
		// programming error, not a client one
		panic(err)
	default:
		return err
	}
}

// errorMapping is matched top to bottom; the first hit wins.
var errorMappings = []struct {
	target  error
	code    int
	message string
}{
	{t.ErrInvalidRequest, http.StatusBadRequest, "Invalid request"},
	{t.ErrUnauthorized, http.StatusUnauthorized, "Authorization required"},
	{t.ErrAddressNotFound, http.StatusNotFound, "Address not found"},
	{t.ErrGeocodeUnavailable, http.StatusInternalServerError, "Location verification failed: geocoding service unavailable"},
	// store failures may wrap ErrUserNotFound and must stay 500
	{t.ErrStoreFailure, http.StatusInternalServerError, "Location store unavailable"},
	{t.ErrUserNotFound, http.StatusNotFound, "User not found"},
}

func describe(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.code, m.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// GetCode returns the HTTP status for err.
func GetCode(err error) int {
	code, _ := describe(err)
	return code
}
