package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ragevaluator/account-service/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"email taken", domain.ErrEmailTaken, http.StatusBadRequest},
		{"invalid registration", domain.ErrInvalidRegistration, http.StatusBadRequest},
		{"otp mismatch", domain.ErrOTPMismatch, http.StatusBadRequest},
		{"otp not found", domain.ErrOTPNotFound, http.StatusNotFound},
		{"otp expired", domain.ErrOTPExpired, http.StatusNotFound},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized},
		{"missing subject", domain.ErrMissingSubject, http.StatusUnauthorized},
		{"invalid reset token", domain.ErrInvalidResetToken, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := NewHTTPErrorHandler(zerolog.Nop())
			handler(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json body: %v", err)
			}
			if resp.Error == "" {
				t.Fatalf("empty error message")
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/auth/delete-account", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	wrapped := errors.Join(errors.New("delete user"), domain.ErrUserNotFound)
	NewHTTPErrorHandler(zerolog.Nop())(wrapped, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrapped ErrUserNotFound, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorHidesDetail(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("mongo: topology closed"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if resp.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", resp.Error)
	}
}
