package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/evote/internal/api"
	"github.com/and161185/evote/internal/errs"
)

const maxBody = 1 << 20

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrVotingNotConfigured):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden), errors.Is(err, errs.ErrPendingApproval),
		errors.Is(err, errs.ErrVotingClosed):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrInvalidCandidate):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyVoted), errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// message is the client-facing detail. Internal failures are not described.
func message(code int, err error) string {
	switch {
	case code >= http.StatusInternalServerError:
		return "internal error"
	case errors.Is(err, errs.ErrUnauthorized):
		return "invalid or missing credentials"
	case errors.Is(err, errs.ErrPendingApproval):
		return "Your account is pending approval"
	case errors.Is(err, errs.ErrForbidden):
		return "access denied"
	case errors.Is(err, errs.ErrVotingNotConfigured):
		return "Voting timings have not been set by the admin yet."
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, code int, v any, log *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encode response", zap.Error(err))
	}
}

func (s *Server) ok(w http.ResponseWriter, code int, v any) {
	writeJSON(w, code, v, s.log)
}

// fail writes the error body; 5xx causes are logged, never returned.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, code, api.Error{Error: http.StatusText(code), Message: message(code, err)}, s.log)
}

// decode reads a JSON body into v.
func decode(r *http.Request, w http.ResponseWriter, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body", errs.ErrValidation)
	}
	return nil
}
