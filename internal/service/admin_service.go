package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"undangan/rsvphub/internal/repository"
	"undangan/rsvphub/pkg/crypto"
	"undangan/rsvphub/pkg/jwt"
)

type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminService guards the report and edit routes behind the shared admin PIN.
type AdminService interface {
	Login(ctx context.Context, pin string) (*AdminSession, error)
	Logout(ctx context.Context, token string) error
	Authorize(ctx context.Context, token string) error
	CheckPIN(pin string) bool
}

type adminService struct {
	pinHash string
	jwt     *jwt.Manager
	state   repository.StateStore
	logger  *zap.Logger
}

// NewAdminService takes the bcrypt hash of the PIN, computed once at startup.
func NewAdminService(pinHash string, jwtMgr *jwt.Manager, state repository.StateStore, logger *zap.Logger) AdminService {
	return &adminService{pinHash: pinHash, jwt: jwtMgr, state: state, logger: logger}
}

func (s *adminService) CheckPIN(pin string) bool {
	return pin != "" && crypto.CheckPIN(pin, s.pinHash)
}

func (s *adminService) Login(_ context.Context, pin string) (*AdminSession, error) {
	if !s.CheckPIN(pin) {
		s.logger.Warn("admin login rejected")
		return nil, ErrInvalidPIN
	}
	token, claims, err := s.jwt.GenerateAdminToken()
	if err != nil {
		return nil, fmt.Errorf("sign admin session: %w", err)
	}
	return &AdminSession{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *adminService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return ErrSessionInvalid
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.state.Set(ctx, repository.RevokedSessionKey(claims.ID), []byte("1"), ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *adminService) Authorize(ctx context.Context, token string) error {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return ErrSessionInvalid
	}
	revoked, err := s.state.Exists(ctx, repository.RevokedSessionKey(claims.ID))
	if err != nil {
		return fmt.Errorf("check session revocation: %w", err)
	}
	if revoked {
		return ErrSessionInvalid
	}
	return nil
}
