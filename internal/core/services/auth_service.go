package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
	"github.com/dr9911/CBDC-sub000/internal/platform/config"
	"github.com/dr9911/CBDC-sub000/internal/utils"
)

// tokenService implements AuthSvcFacade for issuing JWT access tokens and
// opaque refresh tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.AuthSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given account.
func (s *tokenService) GenerateAccessToken(ctx context.Context, account *domain.Account) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(account.AccountID, string(account.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}

// GenerateRefreshToken creates a new opaque refresh token for the given account.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, account *domain.Account) (string, time.Time, error) {
	rawRefreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate secure random string for refresh token: %w", err)
	}

	expiryTime := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	return rawRefreshToken, expiryTime, nil
}
