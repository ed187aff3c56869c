package services

import (
	"context"
	"log/slog"

	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
)

// logOTPSender writes passcodes to the application log instead of an SMS or
// email gateway. Stands in for a real delivery channel in development; the
// production deployment swaps in a gateway-backed OTPSender.
type logOTPSender struct {
	logger *slog.Logger
}

// NewLogOTPSender creates an OTPSender that logs codes at WARN so they stand
// out in development output.
func NewLogOTPSender(logger *slog.Logger) portssvc.OTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &logOTPSender{logger: logger}
}

func (s *logOTPSender) SendOTP(ctx context.Context, accountID string, code string) error {
	s.logger.Warn("OTP delivery (dev sender)",
		slog.String("account_id", accountID),
		slog.String("code", code),
	)
	return nil
}
