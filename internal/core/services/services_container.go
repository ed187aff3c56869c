package services

import (
	"log/slog"

	portsrepo "github.com/dr9911/CBDC-sub000/internal/core/ports/repositories"
	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
	"github.com/dr9911/CBDC-sub000/internal/metrics"
	"github.com/dr9911/CBDC-sub000/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger, m *metrics.Metrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	otpSender := NewLogOTPSender(logger)

	// Notifier first since the minting workflow fans out through it
	notifier := NewNotificationService(repos.NotificationRepo, cfg.NotificationBuffer, logger, m)
	container.Notifier = notifier

	container.Ledger = NewLedgerService(repos.AccountRepo, repos.LedgerRepo)
	container.Transfer = NewTransferService(repos.AccountRepo, repos.LedgerRepo, repos.SupplyRepo, m)
	container.Supply = NewSupplyService(repos.SupplyRepo, repos.AccountRepo, repos.OTPStore, otpSender, cfg, m)
	container.Minting = NewMintingService(repos.MintRepo, repos.AccountRepo, repos.OTPStore, otpSender, notifier, cfg, m)
	container.Auth = NewTokenService(cfg)

	return container
}
