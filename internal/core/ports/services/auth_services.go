package services

import (
	"context"
	"time"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
)

// AuthSvcFacade defines the interface for token management services.
type AuthSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the account. The token
	// carries the account role so middleware can enforce role gates without
	// a store round trip.
	GenerateAccessToken(ctx context.Context, account *domain.Account) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, account *domain.Account) (string, time.Time, error)
}
