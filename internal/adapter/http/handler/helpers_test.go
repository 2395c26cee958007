package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/transferledger/internal/adapter/http/dto"
	"github.com/iho/transferledger/internal/domain"
)

func TestMapErrorKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.AccountNotFound(1), http.StatusNotFound},
		{"transfer not found", domain.TransferNotFound(1), http.StatusNotFound},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"self transfer", domain.ErrSelfTransfer, http.StatusBadRequest},
		{"insufficient funds", domain.InsufficientFunds(1), http.StatusBadRequest},
		{"unavailable", domain.Unavailable(errors.New("deadlock")), http.StatusServiceUnavailable},
		{"wrapped domain error", fmt.Errorf("op: %w", domain.ErrInsufficientFunds), http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapErrorKind(domain.KindOf(tt.err)); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var got map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestWriteDomainError(t *testing.T) {
	t.Run("unavailable sets Retry-After", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil)

		writeDomainError(rr, req, domain.Unavailable(errors.New("lock timeout")))

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rr.Code)
		}
		if rr.Header().Get("Retry-After") == "" {
			t.Fatal("expected Retry-After header")
		}
		resp := decodeError(t, rr)
		if resp.Error != "unavailable" {
			t.Fatalf("expected unavailable code, got %q", resp.Error)
		}
	})

	t.Run("internal errors are opaque", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)

		writeDomainError(rr, req, errors.New("pq: password authentication failed"))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
		resp := decodeError(t, rr)
		if resp.Message != "internal server error" {
			t.Fatalf("expected opaque message, got %q", resp.Message)
		}
	})

	t.Run("business errors carry their message", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil)

		writeDomainError(rr, req, domain.InsufficientFunds(3))

		resp := decodeError(t, rr)
		if resp.Error != "insufficient_funds" {
			t.Fatalf("expected insufficient_funds code, got %q", resp.Error)
		}
		if resp.Message != "not enough money on account id=3 to transfer" {
			t.Fatalf("unexpected message %q", resp.Message)
		}
	})
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}
