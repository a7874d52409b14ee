package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/georgemunganga/kidswear-store/internal/modules/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct{ u *user.User }

func (f *fakeUsers) CreateUser(context.Context, *user.User) error { return nil }

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	if f.u != nil && f.u.Email == email {
		return f.u, nil
	}
	return nil, user.ErrNotFound
}

func (f *fakeUsers) GetUserByID(context.Context, string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func newUser(t *testing.T, role user.Role) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return &user.User{ID: uuid.New(), Email: "asha@example.com", PasswordHash: string(hash), Role: role}
}

func TestLogin(t *testing.T) {
	u := newUser(t, user.RoleCustomer)
	svc := NewService(&fakeUsers{u: u}, "test-secret")

	token, err := svc.Login(context.Background(), "asha@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := ParseToken([]byte("test-secret"), token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != u.ID.String() || claims.Role != "customer" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := svc.Login(context.Background(), "asha@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestParseTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	u := newUser(t, user.RoleCustomer)
	token, _ := IssueToken([]byte("a"), u, time.Now().Add(time.Hour))
	if _, err := ParseToken([]byte("b"), token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
	expired, _ := IssueToken([]byte("a"), u, time.Now().Add(-time.Hour))
	if _, err := ParseToken([]byte("a"), expired); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestMiddleware(t *testing.T) {
	admin := newUser(t, user.RoleAdmin)
	customer := newUser(t, user.RoleCustomer)
	adminToken, _ := IssueToken([]byte("s"), admin, time.Now().Add(time.Hour))
	customerToken, _ := IssueToken([]byte("s"), customer, time.Now().Add(time.Hour))

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := SessionFromContext(r.Context())
		if s.Token == "" {
			t.Error("token not forwarded on session")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name   string
		header string
		guard  func(http.Handler) http.Handler
		want   int
	}{
		{"anonymous on user route", "", RequireUser, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", RequireUser, http.StatusUnauthorized},
		{"customer on user route", "Bearer " + customerToken, RequireUser, http.StatusNoContent},
		{"customer on admin route", "Bearer " + customerToken, RequireAdmin, http.StatusForbidden},
		{"admin on admin route", "Bearer " + adminToken, RequireAdmin, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := Middleware("s")(tc.guard(ok))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("got %d want %d", rec.Code, tc.want)
			}
		})
	}
}
