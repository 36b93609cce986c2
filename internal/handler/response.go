// Package handler holds the HTTP layer: request decoding, response
// encoding, and the translation from apperror kinds to status codes.
// Handlers stay thin — every decision that matters lives in the services.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/devconnect/internal/apperror"
)

// errorBody is the wire shape every failure uses:
//
//	{"errors":[{"msg":"...","param":"..."}]}
//
// param is present only for field-level validation messages.
type errorBody struct {
	Errors []apperror.FieldError `json:"errors"`
}

type msgBody struct {
	Msg string `json:"msg"`
}

// writeJSON encodes v with the given status. Encoding failures at this
// point can only be logged — the status line is already on the wire.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response", slog.String("error", err.Error()))
	}
}

// writeError maps a service error onto the wire.
//
// The taxonomy collapses to three statuses: validation, duplicate,
// bad credentials, and missing records are all 400 (missing records
// included — clients of the original API treat a missing profile as a
// client error); a rejected token is 401; everything else is a 500 with a
// generic body, with the real error going to the log and never the client.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusBadRequest
		if errors.Is(err, apperror.ErrUnauthorized) {
			status = http.StatusUnauthorized
		}

		fields := appErr.Fields
		if len(fields) == 0 {
			fields = []apperror.FieldError{{Msg: appErr.Message}}
		}
		writeJSON(w, logger, status, errorBody{Errors: fields})
		return
	}

	logger.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, logger, http.StatusInternalServerError, errorBody{
		Errors: []apperror.FieldError{{Msg: "server error"}},
	})
}

// decode reads a JSON request body into dst. A body that doesn't parse is
// a validation failure, not a server error.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("", "invalid request body")
	}
	return nil
}
