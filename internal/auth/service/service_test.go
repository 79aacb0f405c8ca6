package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/golang-jwt/jwt/v5"

	"lawoffice_crm_backend/internal/auth/repository"
	"lawoffice_crm_backend/platform/apperr"
	"lawoffice_crm_backend/platform/events"
	"lawoffice_crm_backend/platform/logger"
)

type fakeUserStore struct {
	users map[string]repository.User
}

func (f fakeUserStore) GetByEmail(ctx context.Context, email string) (repository.User, error) {
	u, ok := f.users[email]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f fakeUserStore) GetByID(ctx context.Context, id int64) (repository.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

type jwtConfig struct{}

func (jwtConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (jwtConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func newTestService(t *testing.T, users map[string]repository.User) *Service {
	log := logger.New("development")
	return New(fakeUserStore{users: users}, jwtConfig{}, events.NewInMemoryBus(log), log)
}

func parseClaims(t *testing.T, tokenStr string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(tokenStr, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parsing token: %v", err)
	}
	return parsed.Claims.(jwt.MapClaims)
}

func TestLoginIssuesStaffToken(t *testing.T) {
	svc := newTestService(t, map[string]repository.User{
		"staff@example.com": {ID: 1, Email: "staff@example.com", Role: "staff", PasswordHash: mustHash(t, "secret123")},
	})

	tokenStr, err := svc.Login(context.Background(), "staff@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims := parseClaims(t, tokenStr)
	if claims["sub"] != "1" || claims["role"] != "staff" {
		t.Fatalf("claims: %+v", claims)
	}
	if _, present := claims["srcs"]; present {
		t.Fatalf("staff token must not carry a source allow-list")
	}
}

func TestLoginIssuesRestrictedToken(t *testing.T) {
	svc := newTestService(t, map[string]repository.User{
		"ext@example.com": {
			ID: 2, Email: "ext@example.com", Role: "external",
			PasswordHash: mustHash(t, "secret123"),
			Restricted:   true, AllowedSources: []int64{3, 7},
		},
	})

	tokenStr, err := svc.Login(context.Background(), "ext@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims := parseClaims(t, tokenStr)
	srcs, ok := claims["srcs"].([]interface{})
	if !ok || len(srcs) != 2 {
		t.Fatalf("srcs claim: %+v", claims["srcs"])
	}
}

func TestLoginRestrictedWithEmptyListKeepsClaim(t *testing.T) {
	svc := newTestService(t, map[string]repository.User{
		"ext@example.com": {
			ID: 3, Email: "ext@example.com", Role: "external",
			PasswordHash: mustHash(t, "secret123"),
			Restricted:   true,
		},
	})

	tokenStr, err := svc.Login(context.Background(), "ext@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// An empty allow-list stays in the token so downstream code fails
	// closed instead of treating the user as unrestricted.
	claims := parseClaims(t, tokenStr)
	srcs, present := claims["srcs"].([]interface{})
	if !present || len(srcs) != 0 {
		t.Fatalf("srcs claim: %+v", claims["srcs"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t, map[string]repository.User{
		"staff@example.com": {ID: 1, Email: "staff@example.com", Role: "staff", PasswordHash: mustHash(t, "secret123")},
	})

	if _, err := svc.Login(context.Background(), "staff@example.com", "wrong"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("bad password: got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "secret123"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("unknown user: got %v", err)
	}
}

func TestMe(t *testing.T) {
	svc := newTestService(t, map[string]repository.User{
		"staff@example.com": {ID: 1, Email: "staff@example.com", Role: "staff", PasswordHash: mustHash(t, "x")},
	})

	profile, err := svc.Me(context.Background(), 1)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if profile.Email != "staff@example.com" || profile.Restricted {
		t.Fatalf("profile: %+v", profile)
	}

	if _, err := svc.Me(context.Background(), 99); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing user: got %v", err)
	}
}
