package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/transferledger/internal/adapter/http/dto"
	"github.com/iho/transferledger/internal/domain"
)

// Error codes for failures detected before the ledger is called.
const (
	codeInvalidRequest = "invalid_request"
	codeInternal       = "internal"
)

// retryAfterSeconds is sent with 503 responses.
const retryAfterSeconds = "1"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// writeBadRequest reports malformed input.
func writeBadRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
}

// writeDomainError maps ledger errors to HTTP responses. Internal failures
// are logged and answered with an opaque message.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := mapErrorKind(kind)

	switch kind {
	case domain.KindInternal:
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, status, codeInternal, "internal server error")
		return
	case domain.KindUnavailable:
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeError(w, status, kind.String(), domain.ErrTemporarilyUnavailable.Msg)
		return
	}

	writeError(w, status, kind.String(), err.Error())
}

// mapErrorKind maps error kinds to HTTP status codes.
func mapErrorKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindAccountNotFound, domain.KindTransferNotFound:
		return http.StatusNotFound
	case domain.KindInvalidAmount, domain.KindSelfTransfer, domain.KindInsufficientFunds:
		return http.StatusBadRequest
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func accountIDParam(r *http.Request) (domain.AccountID, error) {
	return domain.ParseAccountID(chi.URLParam(r, "id"))
}

func transferIDParam(r *http.Request) (domain.TransferID, error) {
	return domain.ParseTransferID(chi.URLParam(r, "id"))
}
