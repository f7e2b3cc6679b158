package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"haul-quote-service/internal/api/dto"
	"haul-quote-service/internal/domain"
	"io"
	"log"
	"net/http"
	"time"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

// writeData wraps payload in the standard success envelope.
func writeData(w http.ResponseWriter, r *http.Request, status int, data any, start time.Time) {
	writeJSON(w, r, status, dto.Envelope{
		Success:          true,
		Data:             data,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind, msg string, start time.Time) {
	writeJSON(w, r, status, dto.Envelope{
		Success:          false,
		Error:            &dto.ErrorBody{Kind: kind, Message: msg},
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}

// writeDomainError maps the error taxonomy onto HTTP statuses and kinds.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	status, kind := classifyError(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		msg = "internal server error"
	}

	writeError(w, r, status, kind, msg, start)
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return http.StatusBadRequest, "invalid_coordinate"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrRouteUnreachable):
		return http.StatusUnprocessableEntity, "route_unreachable"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, "timeout"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decodeStrict decodes exactly one JSON object, rejecting unknown fields and
// trailing content.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}

	return nil
}
