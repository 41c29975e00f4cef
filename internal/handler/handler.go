package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"batik-store/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	reqID := middleware.GetReqID(r.Context())
	logger.Error().
		Str("error", message).
		Str("code", code).
		Int("status", status).
		Str("request_id", reqID).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message, CorrelationID: reqID})
}

// writeServiceError maps a service error onto an HTTP response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var (
		verr *model.ValidationError
		perr *model.PersistenceError
		derr *model.DomainError
	)

	switch {
	case errors.As(err, &verr):
		reqID := middleware.GetReqID(r.Context())
		logger.Warn().Err(err).Str("request_id", reqID).Msg("request validation failed")
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:         model.ErrCodeValidationFailed,
			Message:       "One or more fields are invalid",
			Fields:        verr.Fields,
			CorrelationID: reqID,
		})
	case errors.Is(err, model.ErrEmptyCart):
		writeError(w, r, http.StatusUnprocessableEntity, model.ErrCodeEmptyCart, model.ErrEmptyCart.Message, logger)
	case errors.As(err, &perr):
		logger.Error().Err(perr.Err).Str("op", perr.Op).Msg("persistence failure")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodePersistenceFailed,
			"The order could not be saved, please try again", logger)
	case errors.Is(err, model.ErrInvalidStatusTransition):
		writeError(w, r, http.StatusConflict, model.ErrCodeInvalidStatusTransition, model.ErrInvalidStatusTransition.Message, logger)
	case model.IsNotFound(err) && errors.As(err, &derr):
		writeError(w, r, http.StatusNotFound, derr.Code, derr.Message, logger)
	case errors.As(err, &derr):
		writeError(w, r, http.StatusBadRequest, derr.Code, derr.Message, logger)
	default:
		logger.Error().Err(err).Msg("unexpected service error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "Internal server error", logger)
	}
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, logger zerolog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "Invalid request body", logger)
		return false
	}
	return true
}

// int64Param parses a positive integer path parameter.
func int64Param(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

// pageParams reads limit and offset, writing a 400 on malformed values.
func pageParams(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (int, int, bool) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidationFailed, "invalid limit parameter", logger)
		return 0, 0, false
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidationFailed, "invalid offset parameter", logger)
		return 0, 0, false
	}
	return limit, offset, true
}
