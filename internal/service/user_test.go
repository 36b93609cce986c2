package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.Users and
// repository.Accounts. A hand-written fake keeps the tests readable — what
// it does is exactly what you see.
type fakeUserRepo struct {
	users  map[string]*model.User // keyed by internal ID
	nextID int

	createErr error // non-nil simulates a store failure
	deleteErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Duplicate()
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (f *fakeUserRepo) DeleteAccount(_ context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.users, userID)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestUserService(t *testing.T, repo *fakeUserRepo) (*UserService, *auth.TokenService) {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	// bcrypt minimum cost keeps the suite fast
	passwords := auth.NewPasswordServiceWithCost(4)

	return NewUserService(repo, repo, tokens, passwords, testLogger()), tokens
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_ReturnsValidToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newTestUserService(t, repo)

	token, err := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if token == "" {
		t.Fatal("Register() returned empty token")
	}

	userID, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if _, err := svc.CurrentUser(context.Background(), userID); err != nil {
		t.Errorf("token subject should resolve to the new user: %v", err)
	}
}

func TestRegister_StoresHashNotPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)

	if _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	stored, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if stored.PasswordHash == "secret1" || stored.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}
	if !strings.HasPrefix(stored.PasswordHash, "$2") {
		t.Errorf("stored hash doesn't look like bcrypt: %q", stored.PasswordHash)
	}
	if stored.Avatar == "" {
		t.Error("Register() should derive an avatar from the email")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)

	if _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	firstHash := repo.users["user-1"].PasswordHash

	_, err := svc.Register(context.Background(), "B", "a@x.com", "other-password")
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("second Register() error = %v, want ErrDuplicate", err)
	}

	// The existing account is untouched.
	if repo.users["user-1"].PasswordHash != firstHash {
		t.Error("duplicate registration must not modify the existing account")
	}
}

func TestRegister_Validation(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)

	cases := []struct {
		name, userName, email, password string
		wantParam                       string
	}{
		{"empty name", "", "a@x.com", "secret1", "name"},
		{"bad email", "A", "not-an-email", "secret1", "email"},
		{"display-name email", "A", "Alice <a@x.com>", "secret1", "email"},
		{"short password", "A", "a@x.com", "12345", "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.userName, tc.email, tc.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Register() error = %v, want ErrValidation", err)
			}

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatal("expected *AppError")
			}
			found := false
			for _, f := range appErr.Fields {
				if f.Param == tc.wantParam {
					found = true
				}
			}
			if !found {
				t.Errorf("Fields = %+v, want an entry for %q", appErr.Fields, tc.wantParam)
			}
			// Validation must fail before any store access.
			if len(repo.users) != 0 {
				t.Error("validation failure must not write to the store")
			}
		})
	}
}

func TestRegister_CollectsAllFieldErrors(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)

	_, err := svc.Register(context.Background(), "", "bad", "123")

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Register() error = %v, want *AppError", err)
	}
	if len(appErr.Fields) != 3 {
		t.Errorf("Fields = %+v, want all three failures reported at once", appErr.Fields)
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newTestUserService(t, repo)

	if _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := tokens.Validate(token); err != nil {
		t.Errorf("Login() token does not validate: %v", err)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)

	if _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, errWrongPass := svc.Login(context.Background(), "a@x.com", "wrong")
	_, errNoAccount := svc.Login(context.Background(), "ghost@x.com", "whatever")

	if !errors.Is(errWrongPass, apperror.ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v", errWrongPass)
	}
	if !errors.Is(errNoAccount, apperror.ErrInvalidCredentials) {
		t.Fatalf("unknown email error = %v", errNoAccount)
	}
	// Identical messages: responses must not reveal which emails exist.
	if errWrongPass.Error() != errNoAccount.Error() {
		t.Error("login failures must be indistinguishable")
	}
}

func TestLogin_Validation(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)

	if _, err := svc.Login(context.Background(), "not-an-email", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Login() error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// CURRENT USER / DELETE TESTS
// =========================================================================

func TestCurrentUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newTestUserService(t, repo)

	token, _ := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	userID, _ := tokens.Validate(token)

	user, err := svc.CurrentUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.Email != "a@x.com" || user.Name != "A" {
		t.Errorf("CurrentUser() = %+v", user)
	}
}

func TestCurrentUser_Unknown(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestUserService(t, repo)

	// A token subject that doesn't resolve is a credential problem: the
	// route only ever answers 401 or 500, never a lookup-shaped 400.
	if _, err := svc.CurrentUser(context.Background(), "ghost"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("CurrentUser() error = %v, want ErrUnauthorized", err)
	}
}

func TestCurrentUser_DeletedAccountIsUnauthorized(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newTestUserService(t, repo)

	token, _ := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	userID, _ := tokens.Validate(token)

	if err := svc.DeleteAccount(context.Background(), userID); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}

	// The token still verifies; the missing subject makes it unauthorized.
	_, err := svc.CurrentUser(context.Background(), userID)
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("CurrentUser() error = %v, want ErrUnauthorized", err)
	}
	if err.Error() != "token is not valid" {
		t.Errorf("message = %q, want the standard rejection message", err.Error())
	}
}

func TestDeleteAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc, tokens := newTestUserService(t, repo)

	token, _ := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	userID, _ := tokens.Validate(token)

	if err := svc.DeleteAccount(context.Background(), userID); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}
	if _, err := svc.CurrentUser(context.Background(), userID); err == nil {
		t.Error("user should be gone after DeleteAccount")
	}
}

func TestDeleteAccount_StoreFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.deleteErr = errors.New("disk is on fire")
	svc, _ := newTestUserService(t, repo)

	if err := svc.DeleteAccount(context.Background(), "user-1"); err == nil {
		t.Fatal("DeleteAccount() should propagate store errors")
	}
}
