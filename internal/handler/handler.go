package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mini-mercado/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already on the wire; an encode failure here
	// cannot be reported to the client.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code and detail message.
func writeError(w http.ResponseWriter, status int, detail string, logger zerolog.Logger) {
	logger.Error().Str("detail", detail).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

// writeDomainError maps a service error to its status code and body.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status := http.StatusInternalServerError

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case model.ErrCodeProductNotFound:
			status = http.StatusNotFound
		case model.ErrCodeDuplicateEmail:
			status = http.StatusBadRequest
		case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorised:
			status = http.StatusUnauthorized
		case model.ErrCodeValidation:
			status = http.StatusUnprocessableEntity
		case model.ErrCodeStoreUnavailable:
			status = http.StatusServiceUnavailable
		}

		logger.Debug().
			Str("code", domainErr.Code).
			Int("status", status).
			Msg("domain error")

		writeJSON(w, status, model.ErrorResponse{Detail: domainErr.Message, Code: domainErr.Code})
		return
	}

	logger.Error().Err(err).Msg("unexpected handler error")
	writeJSON(w, status, model.ErrorResponse{
		Detail: "internal server error",
		Code:   model.ErrCodeInternalError,
	})
}
