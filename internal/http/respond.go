package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/adarsh062/VibeCart/internal/service"
	validatorv10 "github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeAndValidate binds the JSON body into out and runs validation,
// writing the 400 itself so handlers can just return on error.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, out interface{}, v *validatorv10.Validate) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}

	if err := v.Struct(out); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: validationErrorsToMap(err),
		})
		return false
	}

	return true
}

func validationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}

// handleDomainError maps typed service outcomes to user-visible responses.
// The gateway performs no business logic; this translation is all it owns.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "Item not found")
	case errors.Is(err, service.ErrPartialCheckout):
		respondError(w, http.StatusInternalServerError, "partial_checkout_failure",
			"checkout failed while clearing the cart; the cart may be partially cleared")
	case errors.Is(err, service.ErrStorageUnavailable):
		respondError(w, http.StatusInternalServerError, "storage_unavailable", "cart store unavailable")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
