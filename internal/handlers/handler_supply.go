package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
	"github.com/dr9911/CBDC-sub000/internal/dto"
	"github.com/dr9911/CBDC-sub000/internal/middleware"
)

// supplyHandler exposes the supply registry and the banknote flows.
type supplyHandler struct {
	supplyService portssvc.SupplySvcFacade
}

func newSupplyHandler(ss portssvc.SupplySvcFacade) *supplyHandler {
	return &supplyHandler{supplyService: ss}
}

// registerSupplyRoutes registers the supply registry routes. The registry
// itself is readable by any authenticated account; banknote conversions are
// central-bank only.
func registerSupplyRoutes(rg *gin.RouterGroup, supplyService portssvc.SupplySvcFacade) {
	h := newSupplyHandler(supplyService)

	rg.GET("/supply", h.getSupply)

	banknotes := rg.Group("/banknotes", middleware.RequireRole(string(domain.RoleCentralBank)))
	{
		banknotes.POST("/otp", h.requestBankNoteOTP)
		banknotes.POST("/issue", h.issueBankNotes)
		banknotes.POST("/redeem", h.redeemBankNotes)
	}
}

// getSupply godoc
// @Summary Get the supply registry
// @Description Returns total minted, distributed, outstanding banknotes and the available reserve
// @Tags supply
// @Produce  json
// @Success 200 {object} dto.SupplyResponse
// @Security BearerAuth
// @Router /supply [get]
func (h *supplyHandler) getSupply(c *gin.Context) {
	supply, err := h.supplyService.GetSupply(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSupplyResponse(supply))
}

// requestBankNoteOTP godoc
// @Summary Request a passcode for a banknote operation
// @Description Issues a one-time passcode authorizing a subsequent issue or redeem call
// @Tags supply
// @Produce  json
// @Success 202 "Accepted"
// @Failure 403 {object} ErrorResponse "Caller is not a central bank account"
// @Security BearerAuth
// @Router /banknotes/otp [post]
func (h *supplyHandler) requestBankNoteOTP(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.supplyService.RequestBankNoteOTP(c.Request.Context(), actorID); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Banknote passcode issued")
	c.Status(http.StatusAccepted)
}

// issueBankNotes godoc
// @Summary Convert reserve into physical banknotes
// @Tags supply
// @Accept  json
// @Produce  json
// @Param   conversion body dto.BankNoteRequest true "Amount and passcode"
// @Success 201 {object} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse "Wrong or expired passcode"
// @Failure 422 {object} ErrorResponse "Insufficient reserve"
// @Security BearerAuth
// @Router /banknotes/issue [post]
func (h *supplyHandler) issueBankNotes(c *gin.Context) {
	h.convertBankNotes(c, h.supplyService.IssueBankNotes)
}

// redeemBankNotes godoc
// @Summary Redeem physical banknotes back into reserve
// @Tags supply
// @Accept  json
// @Produce  json
// @Param   conversion body dto.BankNoteRequest true "Amount and passcode"
// @Success 201 {object} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse "Wrong or expired passcode"
// @Failure 422 {object} ErrorResponse "More than the outstanding banknote amount"
// @Security BearerAuth
// @Router /banknotes/redeem [post]
func (h *supplyHandler) redeemBankNotes(c *gin.Context) {
	h.convertBankNotes(c, h.supplyService.RedeemBankNotes)
}

type bankNoteOp func(ctx context.Context, actorID string, amount decimal.Decimal, otpCode string, note string) (*domain.Transaction, error)

func (h *supplyHandler) convertBankNotes(c *gin.Context, op bankNoteOp) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BankNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for banknote conversion", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := op(c.Request.Context(), actorID, req.Amount, req.OTPCode, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Banknote conversion recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}
