package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound_MatchesSentinel(t *testing.T) {
	err := NotFound("there is no profile for this user")

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFound() should match ErrNotFound via errors.Is")
	}
	if err.Error() != "there is no profile for this user" {
		t.Errorf("Error() = %q, want the message verbatim", err.Error())
	}
}

func TestValidationFailed_CarriesField(t *testing.T) {
	err := ValidationFailed("email", "a valid email is required")

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() should match ErrValidation")
	}
	if len(err.Fields) != 1 || err.Fields[0].Param != "email" {
		t.Errorf("Fields = %+v, want one entry for param email", err.Fields)
	}
}

func TestInvalid_CollectsAllFields(t *testing.T) {
	err := Invalid(
		FieldError{Msg: "name is required", Param: "name"},
		FieldError{Msg: "a valid email is required", Param: "email"},
	)

	if len(err.Fields) != 2 {
		t.Fatalf("Fields = %d entries, want 2", len(err.Fields))
	}
	// The top-level message mirrors the first field so logs stay readable.
	if err.Message != "name is required" {
		t.Errorf("Message = %q, want first field message", err.Message)
	}
}

func TestInvalid_NoFields(t *testing.T) {
	err := Invalid()
	if err.Message == "" {
		t.Error("Invalid() with no fields should still have a message")
	}
}

func TestDuplicate_FixedMessage(t *testing.T) {
	err := Duplicate()
	if err.Message != "account already exists" {
		t.Errorf("Duplicate() message = %q", err.Message)
	}
	if !errors.Is(err, ErrDuplicate) {
		t.Error("Duplicate() should match ErrDuplicate")
	}
}

func TestInvalidCredentials_EnumerationSafe(t *testing.T) {
	// Unknown email and wrong password must be indistinguishable.
	a := InvalidCredentials()
	b := InvalidCredentials()
	if a.Message != b.Message {
		t.Error("InvalidCredentials() messages must be identical")
	}
}

func TestInternal_NotClientVisible(t *testing.T) {
	cause := errors.New("disk is on fire")
	err := Internal("sqlite: writing row", cause)

	if !errors.Is(err, cause) {
		t.Error("Internal() should keep the cause reachable for logs")
	}
	// No AppError in the chain: the handler maps it to a generic 500.
	var appErr *AppError
	if errors.As(err, &appErr) {
		t.Error("Internal() must not carry a client-visible error kind")
	}
}

func TestInternal_PreservesWrappedKind(t *testing.T) {
	// An AppError inside an Internal wrap keeps its kind — a NotFound from
	// the store still maps to 400 after the service adds context.
	err := Internal("service/profile: saving experience",
		NotFound("there is no profile for this user"))

	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is should see through Internal to ErrNotFound")
	}
}

func TestUnwrap_ThroughWrapping(t *testing.T) {
	// Services wrap AppErrors with fmt.Errorf("%w"); errors.Is and errors.As
	// must still see through the chain.
	inner := Unauthorized("token is not valid")
	wrapped := fmt.Errorf("checking session: %w", inner)

	if !errors.Is(wrapped, ErrUnauthorized) {
		t.Error("errors.Is should unwrap to ErrUnauthorized")
	}

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should extract *AppError")
	}
	if appErr.Message != "token is not valid" {
		t.Errorf("Message = %q", appErr.Message)
	}
}
