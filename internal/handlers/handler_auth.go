package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
	"github.com/dr9911/CBDC-sub000/internal/dto"
	"github.com/dr9911/CBDC-sub000/internal/middleware"
	"github.com/dr9911/CBDC-sub000/internal/platform/config"
)

// AuthHandler issues access tokens. There is no credential flow: external
// identity is out of scope, so token issuance is a development convenience
// and is only mounted outside production.
type AuthHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	authService   portssvc.AuthSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(ls portssvc.LedgerSvcFacade, as portssvc.AuthSvcFacade) *AuthHandler {
	return &AuthHandler{ledgerService: ls, authService: as}
}

// registerAuthRoutes sets up the demo token issuance route, rate limited by
// client IP.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	if cfg.IsProduction {
		return
	}

	h := NewAuthHandler(services.Ledger, services.Auth)

	// 5 token requests per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/token", middleware.RateLimit(ipLimiter), h.IssueToken)
	}
}

// IssueToken godoc
// @Summary Issue a demo access token
// @Description Issues a JWT for an existing account. Only available outside production.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "Account to issue a token for"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	account, err := h.ledgerService.GetAccount(c.Request.Context(), req.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}

	accessToken, accessExpiry, err := h.authService.GenerateAccessToken(c.Request.Context(), account)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	refreshToken, refreshExpiry, err := h.authService.GenerateRefreshToken(c.Request.Context(), account)
	if err != nil {
		logger.Error("Failed to generate refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("Issued demo token", slog.String("account_id", account.AccountID), slog.String("role", string(account.Role)))
	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiry,
	})
}
