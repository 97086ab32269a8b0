package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"notemind-backend/internal/models"
	"notemind-backend/internal/registry"
	"notemind-backend/internal/repository"
	"notemind-backend/internal/services"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// handleServiceError maps the error taxonomy onto HTTP statuses:
// 404 missing, 403 not yours, 410 expired share, 400 bad input or
// unusable documents, 500 for provider failures and everything else.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", e.Fields, r))
	case *services.PreconditionFailedError:
		writeJSON(w, http.StatusBadRequest, errorResp("PRECONDITION_FAILED", e.Message, r))
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", e.Message, r))
	case *services.ForbiddenError:
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", e.Message, r))
	case *services.GoneError:
		writeJSON(w, http.StatusGone, errorResp("GONE", e.Message, r))
	case *services.ServiceUnavailableError:
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_UNAVAILABLE", e.Message, r))
	default:
		switch {
		case errors.Is(err, registry.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found or expired", r))
		case errors.Is(err, registry.ErrForbidden):
			writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		case repository.IsNotFound(err):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Not found", r))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Something went wrong", r))
		}
	}
}
