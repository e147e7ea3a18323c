package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mileusna/useragent"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/catalogworks/catalog/internal/core/domain"
	"github.com/catalogworks/catalog/internal/core/ports"
)

// AuthService implements registration and login. The throttle is optional;
// when nil, failed attempts are unbounded.
type AuthService struct {
	repo     ports.AuthRepository
	throttle ports.LoginThrottle
	logger   zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, throttle ports.LoginThrottle, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, throttle: throttle, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, creds ports.Credentials) (*domain.User, error) {
	if creds.UserName == "" || creds.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyFailures(ctx, creds.UserName)
		if err != nil {
			s.logger.Warn().Err(err).Str("user", creds.UserName).Msg("throttle check failed, continuing")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUserName(ctx, creds.UserName)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, creds.UserName)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		s.recordFailure(ctx, creds.UserName)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, creds.UserName); err != nil {
			s.logger.Warn().Err(err).Str("user", creds.UserName).Msg("throttle reset failed")
		}
	}

	record := domain.LoginRecord{
		DateTime:  time.Now().UTC(),
		UserAgent: creds.UserAgent,
		Device:    deviceLabel(creds.UserAgent),
	}
	history := append([]domain.LoginRecord{record}, user.LoginHistory...)
	if len(history) > domain.LoginHistoryCap {
		history = history[:domain.LoginHistoryCap]
	}
	user.LoginHistory = history

	// History persistence is non-fatal; the session still carries it.
	if err := s.repo.UpdateLoginHistory(ctx, user.UserName, history); err != nil {
		s.logger.Warn().Err(err).Str("user", user.UserName).Msg("failed to persist login history")
	}

	s.logger.Info().Str("user", user.UserName).Str("device", record.Device).Msg("login succeeded")
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.UserName == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		UserName:     in.UserName,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", created.UserName).Msg("user registered")
	return created, nil
}

func (s *AuthService) recordFailure(ctx context.Context, userName string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, userName); err != nil {
		s.logger.Warn().Err(err).Str("user", userName).Msg("failed to record login failure")
	}
}

// deviceLabel renders the recorded User-Agent as a short human-readable
// description, e.g. "Chrome on Windows".
func deviceLabel(ua string) string {
	if ua == "" {
		return ""
	}
	parsed := useragent.Parse(ua)
	if parsed.Name == "" {
		return ""
	}
	if parsed.OS == "" {
		return parsed.Name
	}
	return fmt.Sprintf("%s on %s", parsed.Name, parsed.OS)
}
