package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"lawoffice_crm_backend/internal/auth/repository"
	"lawoffice_crm_backend/internal/auth/token"
	"lawoffice_crm_backend/internal/events"
	"lawoffice_crm_backend/platform/apperr"
	"lawoffice_crm_backend/platform/config"
	"lawoffice_crm_backend/platform/logger"
)

// UserStore is the persistence surface the service needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id int64) (repository.User, error)
}

// Profile is the authenticated user's own view of their account.
type Profile struct {
	ID             int64   `json:"id"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	AllowedSources []int64 `json:"allowedSources,omitempty"`
	Restricted     bool    `json:"restricted"`
}

type Service struct {
	store UserStore
	cfg   config.AuthServiceConfig
	bus   events.Bus
	log   *logger.Logger
}

func New(store UserStore, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, cfg: cfg, bus: bus, log: log}
}

// Login verifies credentials and issues an access token. The token carries
// the user's source allow-list so every later search is clamped without a
// database round trip.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", email, false, "unknown email")
			return "", apperr.Unauthorized("invalid credentials")
		}
		return "", apperr.Wrap(apperr.KindInternal, "loading user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return "", apperr.Unauthorized("invalid credentials")
	}

	accessToken, err := token.Sign(token.Claims{
		UserID:         user.ID,
		Role:           user.Role,
		AllowedSources: user.AllowedSources,
		Restricted:     user.Restricted,
	}, s.cfg.GetAccessTokenTTL(), s.cfg.GetJWTAccessSecret())
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "signing token", err)
	}

	s.log.AuthEvent("login", email, true, "")
	s.bus.Publish(ctx, events.UserLoggedIn{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Email:     user.Email,
	})
	return accessToken, nil
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context, userID int64) (Profile, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Profile{}, apperr.NotFound("user not found")
		}
		return Profile{}, apperr.Wrap(apperr.KindInternal, "loading user", err)
	}
	return Profile{
		ID:             user.ID,
		Email:          user.Email,
		Role:           user.Role,
		AllowedSources: user.AllowedSources,
		Restricted:     user.Restricted,
	}, nil
}
