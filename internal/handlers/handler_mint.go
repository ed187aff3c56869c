package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dr9911/CBDC-sub000/internal/core/domain"
	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
	"github.com/dr9911/CBDC-sub000/internal/dto"
	"github.com/dr9911/CBDC-sub000/internal/middleware"
)

// mintHandler drives the mint request workflow over HTTP.
type mintHandler struct {
	mintingService portssvc.MintingSvcFacade
}

func newMintHandler(ms portssvc.MintingSvcFacade) *mintHandler {
	return &mintHandler{mintingService: ms}
}

// registerMintRoutes registers the minting workflow routes. The whole group
// is central-bank only; per-actor rules (requester-only OTP submission,
// no self-approval) are enforced by the service.
func registerMintRoutes(rg *gin.RouterGroup, mintingService portssvc.MintingSvcFacade) {
	h := newMintHandler(mintingService)

	mint := rg.Group("/mint-requests", middleware.RequireRole(string(domain.RoleCentralBank)))
	{
		mint.POST("", h.createMintRequest)
		mint.GET("", h.listMintRequests)
		mint.GET("/:requestID", h.getMintRequest)
		mint.POST("/:requestID/otp", h.submitOTP)
		mint.POST("/:requestID/otp/resend", h.resendOTP)
		mint.POST("/:requestID/approve", h.approveMint)
		mint.POST("/:requestID/reject", h.rejectMint)
		mint.POST("/:requestID/cancel", h.cancelMint)
	}
}

// createMintRequest godoc
// @Summary Open a mint request
// @Description Creates a supply increase request and sends a one-time passcode to the requester
// @Tags minting
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateMintRequest true "Mint request details"
// @Success 201 {object} dto.MintRequestResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Caller is not a central bank account"
// @Security BearerAuth
// @Router /mint-requests [post]
func (h *mintHandler) createMintRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createMintRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger.Info("Received mint request", slog.String("amount", req.Amount.String()))

	mintReq, err := h.mintingService.RequestMint(c.Request.Context(), requesterID, req.Amount, req.Purpose, req.DocumentDate)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Mint request created", slog.String("request_id", mintReq.RequestID), slog.String("status", string(mintReq.Status)))
	c.JSON(http.StatusCreated, dto.ToMintRequestResponse(mintReq))
}

// getMintRequest godoc
// @Summary Get a mint request by ID
// @Tags minting
// @Produce  json
// @Param   requestID path string true "Mint request ID"
// @Success 200 {object} dto.MintRequestResponse
// @Failure 404 {object} ErrorResponse "Mint request not found"
// @Security BearerAuth
// @Router /mint-requests/{requestID} [get]
func (h *mintHandler) getMintRequest(c *gin.Context) {
	requestID := c.Param("requestID")

	mintReq, err := h.mintingService.GetMintRequest(c.Request.Context(), requestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMintRequestResponse(mintReq))
}

// listMintRequests godoc
// @Summary List mint requests by status
// @Tags minting
// @Produce  json
// @Param   status query string true "Status filter" Enums(DRAFT, AWAITING_OTP, PENDING_APPROVAL, APPROVED, REJECTED)
// @Success 200 {array} dto.MintRequestResponse
// @Failure 400 {object} ErrorResponse "Missing or unknown status"
// @Security BearerAuth
// @Router /mint-requests [get]
func (h *mintHandler) listMintRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListMintRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for listMintRequests", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	reqs, err := h.mintingService.ListMintRequests(c.Request.Context(), domain.MintStatus(params.Status), 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMintRequestResponses(reqs))
}

// submitOTP godoc
// @Summary Submit the one-time passcode for a mint request
// @Description On success the request moves to PENDING_APPROVAL and other central bank accounts are notified
// @Tags minting
// @Accept  json
// @Produce  json
// @Param   requestID path string true "Mint request ID"
// @Param   otp body dto.SubmitOTPRequest true "Passcode"
// @Success 200 {object} dto.MintRequestResponse
// @Failure 403 {object} ErrorResponse "Wrong code, expired code, or caller is not the requester"
// @Failure 409 {object} ErrorResponse "Request is not awaiting a passcode"
// @Security BearerAuth
// @Router /mint-requests/{requestID}/otp [post]
func (h *mintHandler) submitOTP(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("requestID")

	var req dto.SubmitOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for submitOTP", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requesterID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	mintReq, err := h.mintingService.SubmitOTP(c.Request.Context(), requestID, requesterID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Mint request passcode accepted", slog.String("request_id", requestID))
	c.JSON(http.StatusOK, dto.ToMintRequestResponse(mintReq))
}

// resendOTP godoc
// @Summary Reissue the one-time passcode for a mint request
// @Tags minting
// @Produce  json
// @Param   requestID path string true "Mint request ID"
// @Success 200 {object} dto.MintRequestResponse
// @Failure 403 {object} ErrorResponse "Caller is not the requester"
// @Failure 409 {object} ErrorResponse "Request is past the passcode stage"
// @Security BearerAuth
// @Router /mint-requests/{requestID}/otp/resend [post]
func (h *mintHandler) resendOTP(c *gin.Context) {
	requestID := c.Param("requestID")

	requesterID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	mintReq, err := h.mintingService.SendMintOTP(c.Request.Context(), requestID, requesterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMintRequestResponse(mintReq))
}

// approveMint godoc
// @Summary Approve a pending mint request
// @Description Records one approval. Reaching the quorum mints the amount exactly once. Re-approval by the same approver is a no-op, not an error.
// @Tags minting
// @Produce  json
// @Param   requestID path string true "Mint request ID"
// @Success 200 {object} dto.MintRequestResponse
// @Failure 403 {object} ErrorResponse "Self-approval"
// @Failure 409 {object} ErrorResponse "Request is not pending approval"
// @Security BearerAuth
// @Router /mint-requests/{requestID}/approve [post]
func (h *mintHandler) approveMint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("requestID")

	approverID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	mintReq, err := h.mintingService.ApproveMint(c.Request.Context(), requestID, approverID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Mint approval recorded",
		slog.String("request_id", requestID),
		slog.String("status", string(mintReq.Status)),
		slog.Int("approvals", len(mintReq.Approvals)))
	c.JSON(http.StatusOK, dto.ToMintRequestResponse(mintReq))
}

// rejectMint godoc
// @Summary Reject a pending mint request
// @Description Terminates the request with no supply change. A reason is mandatory.
// @Tags minting
// @Accept  json
// @Produce  json
// @Param   requestID path string true "Mint request ID"
// @Param   rejection body dto.RejectMintRequest true "Rejection reason"
// @Success 200 {object} dto.MintRequestResponse
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Failure 409 {object} ErrorResponse "Request is not pending approval"
// @Security BearerAuth
// @Router /mint-requests/{requestID}/reject [post]
func (h *mintHandler) rejectMint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("requestID")

	var req dto.RejectMintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for rejectMint", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	approverID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	mintReq, err := h.mintingService.RejectMint(c.Request.Context(), requestID, approverID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Mint request rejected", slog.String("request_id", requestID))
	c.JSON(http.StatusOK, dto.ToMintRequestResponse(mintReq))
}

// cancelMint godoc
// @Summary Cancel a mint request
// @Description Requester-only. An AWAITING_OTP request falls back to DRAFT; cancelling a PENDING_APPROVAL request records a rejection attributed to the requester.
// @Tags minting
// @Accept  json
// @Produce  json
// @Param   requestID path string true "Mint request ID"
// @Param   cancellation body dto.RejectMintRequest false "Optional reason"
// @Success 200 {object} dto.MintRequestResponse
// @Failure 403 {object} ErrorResponse "Caller is not the requester"
// @Failure 409 {object} ErrorResponse "Request already resolved"
// @Security BearerAuth
// @Router /mint-requests/{requestID}/cancel [post]
func (h *mintHandler) cancelMint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("requestID")

	// Reason is optional on cancel, so an empty body is fine
	var req dto.RejectMintRequest
	_ = c.ShouldBindJSON(&req)

	requesterID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	mintReq, err := h.mintingService.CancelMint(c.Request.Context(), requestID, requesterID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Mint request cancelled", slog.String("request_id", requestID), slog.String("status", string(mintReq.Status)))
	c.JSON(http.StatusOK, dto.ToMintRequestResponse(mintReq))
}
