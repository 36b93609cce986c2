package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/devconnect/internal/apperror"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", apperror.NotFound("there is no profile for this user"), http.StatusBadRequest, "there is no profile for this user"},
		{"duplicate", apperror.Duplicate(), http.StatusBadRequest, "account already exists"},
		{"bad credentials", apperror.InvalidCredentials(), http.StatusBadRequest, "invalid credentials"},
		{"unauthorized", apperror.Unauthorized("token is not valid"), http.StatusUnauthorized, "token is not valid"},
		{"unexpected", errors.New("driver: bad connection"), http.StatusInternalServerError, "server error"},
		{"internal wrap", apperror.Internal("sqlite: querying profiles", errors.New("database is locked")), http.StatusInternalServerError, "server error"},
		// Services wrap app errors with context; the mapping must unwrap.
		{"wrapped", fmt.Errorf("service/profile: %w", apperror.NotFound("there is no profile for this user")), http.StatusBadRequest, "there is no profile for this user"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, discardLogger(), tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body struct {
				Errors []apperror.FieldError `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tc.wantMsg, body.Errors[0].Msg)
		})
	}
}

func TestWriteError_FieldListSurvives(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, discardLogger(), apperror.Invalid(
		apperror.FieldError{Msg: "name is required", Param: "name"},
		apperror.FieldError{Msg: "a valid email is required", Param: "email"},
	))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []apperror.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "name", body.Errors[0].Param)
	assert.Equal(t, "email", body.Errors[1].Param)
}

func TestWriteError_InternalDetailNeverLeaks(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, discardLogger(), errors.New("dsn=user:hunter2@tcp(10.0.0.1)/db"))

	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.Contains(t, rec.Body.String(), "server error")
}
