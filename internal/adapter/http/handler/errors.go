package handler

import (
	"net/http"
	"strings"

	"github.com/Temutjin2k/pivot-location/pkg/validator"
)

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// errorResponse sends {"status":"error","message":...}.
func errorResponse(w http.ResponseWriter, status int, message string) {
	if err := writeJSON(w, status, errorBody{Status: "error", Message: message}, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serviceErrorResponse maps err to its status and client message.
func serviceErrorResponse(w http.ResponseWriter, err error) {
	code, msg := describe(err)
	errorResponse(w, code, msg)
}

// failedValidationResponse returns 400 with every failed field in the message.
func failedValidationResponse(w http.ResponseWriter, v *validator.Validator) {
	parts := make([]string, 0, len(v.Errors))
	for _, field := range v.Fields() {
		parts = append(parts, field+" "+v.Errors[field])
	}
	badRequestResponse(w, "Invalid request: "+strings.Join(parts, "; "))
}

func badRequestResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusBadRequest, message)
}

func unauthorizedResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusUnauthorized, "Authorization required")
}
