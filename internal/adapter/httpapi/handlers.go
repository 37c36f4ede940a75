package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/paydrop/paydrop-backend/internal/domain"
	"github.com/paydrop/paydrop-backend/internal/usecase/disburse"
	"github.com/paydrop/paydrop-backend/internal/usecase/gate"
	"github.com/paydrop/paydrop-backend/internal/usecase/sweep"
)

// Handler exposes the disbursement engine over HTTP
type Handler struct {
	Disburse *disburse.Service
	Sweep    *sweep.Service
	Gate     *gate.Gate
	Logger   *logrus.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(d *disburse.Service, s *sweep.Service, g *gate.Gate, logger *logrus.Logger) *Handler {
	return &Handler{
		Disburse: d,
		Sweep:    s,
		Gate:     g,
		Logger:   logger,
	}
}

type nativeTransferRequest struct {
	CallerID   string   `json:"caller_id" binding:"required"`
	Recipients []string `json:"recipients"`
	Amounts    []string `json:"amounts"`
	Value      string   `json:"value" binding:"required"`
}

type tokenTransferRequest struct {
	CallerID    string   `json:"caller_id" binding:"required"`
	TokenID     string   `json:"token_id" binding:"required"`
	Recipients  []string `json:"recipients"`
	Amounts     []string `json:"amounts"`
	TotalAmount string   `json:"total_amount" binding:"required"`
}

type combinedTransferRequest struct {
	CallerID      string   `json:"caller_id" binding:"required"`
	TokenID       string   `json:"token_id" binding:"required"`
	Recipients    []string `json:"recipients"`
	TokenAmounts  []string `json:"token_amounts"`
	TotalAmount   string   `json:"total_amount" binding:"required"`
	NativeAmounts []string `json:"native_amounts"`
	Value         string   `json:"value" binding:"required"`
}

type depositRequest struct {
	FromID string `json:"from_id" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

type adminRequest struct {
	CallerID string `json:"caller_id" binding:"required"`
}

type claimRequest struct {
	CallerID string `json:"caller_id" binding:"required"`
	Asset    string `json:"asset" binding:"required"`
}

// TransferNative handles POST /api/transfers/native
func (h *Handler) TransferNative(c *gin.Context) {
	var req nativeTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	caller, err := uuid.Parse(req.CallerID)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid caller_id: %w", err))
		return
	}
	recipients, err := parseAccounts(req.Recipients)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	amounts, err := parseAmounts(req.Amounts)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid value: %w", err))
		return
	}

	err = h.Disburse.DisburseNative(c.Request.Context(), disburse.NativeDisbursementInput{
		Caller:     caller,
		Recipients: recipients,
		Amounts:    amounts,
		Value:      value,
	})
	if err != nil {
		h.domainError(c, "native transfer failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed", "recipients": len(recipients)})
}

// TransferToken handles POST /api/transfers/token
func (h *Handler) TransferToken(c *gin.Context) {
	var req tokenTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	caller, err := uuid.Parse(req.CallerID)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid caller_id: %w", err))
		return
	}
	token, err := uuid.Parse(req.TokenID)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid token_id: %w", err))
		return
	}
	recipients, err := parseAccounts(req.Recipients)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	amounts, err := parseAmounts(req.Amounts)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid total_amount: %w", err))
		return
	}

	err = h.Disburse.DisburseToken(c.Request.Context(), disburse.TokenDisbursementInput{
		Caller:      caller,
		Token:       token,
		Recipients:  recipients,
		Amounts:     amounts,
		TotalAmount: totalAmount,
	})
	if err != nil {
		h.domainError(c, "token transfer failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed", "recipients": len(recipients)})
}

// TransferCombined handles POST /api/transfers/combined
func (h *Handler) TransferCombined(c *gin.Context) {
	var req combinedTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	caller, err := uuid.Parse(req.CallerID)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid caller_id: %w", err))
		return
	}
	token, err := uuid.Parse(req.TokenID)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid token_id: %w", err))
		return
	}
	recipients, err := parseAccounts(req.Recipients)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	tokenAmounts, err := parseAmounts(req.TokenAmounts)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	nativeAmounts, err := parseAmounts(req.NativeAmounts)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	totalAmount, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid total_amount: %w", err))
		return
	}
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid value: %w", err))
		return
	}

	err = h.Disburse.DisburseTokenNative(c.Request.Context(), disburse.CombinedDisbursementInput{
		Caller:        caller,
		Token:         token,
		Recipients:    recipients,
		TokenAmounts:  tokenAmounts,
		TotalAmount:   totalAmount,
		NativeAmounts: nativeAmounts,
		Value:         value,
	})
	if err != nil {
		h.domainError(c, "combined transfer failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed", "recipients": len(recipients)})
}

// Deposit handles POST /api/deposits
func (h *Handler) Deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	from, err := uuid.Parse(req.FromID)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid from_id: %w", err))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid amount: %w", err))
		return
	}

	if err := h.Disburse.Receive(c.Request.Context(), from, amount); err != nil {
		h.domainError(c, "deposit failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// Pause handles POST /api/admin/pause
func (h *Handler) Pause(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	caller, err := uuid.Parse(req.CallerID)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid caller_id: %w", err))
		return
	}

	if err := h.Gate.Pause(caller); err != nil {
		h.domainError(c, "pause failed", err)
		return
	}

	h.Logger.WithField("caller", caller).Info("Disbursements paused")
	c.JSON(http.StatusOK, gin.H{"status": "paused"})
}

// Resume handles POST /api/admin/resume
func (h *Handler) Resume(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	caller, err := uuid.Parse(req.CallerID)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid caller_id: %w", err))
		return
	}

	if err := h.Gate.Resume(caller); err != nil {
		h.domainError(c, "resume failed", err)
		return
	}

	h.Logger.WithField("caller", caller).Info("Disbursements resumed")
	c.JSON(http.StatusOK, gin.H{"status": "active"})
}

// Claim handles POST /api/admin/claim
func (h *Handler) Claim(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	caller, err := uuid.Parse(req.CallerID)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid caller_id: %w", err))
		return
	}
	asset, err := domain.ParseAsset(req.Asset)
	if err != nil {
		h.badRequest(c, fmt.Errorf("invalid asset: %w", err))
		return
	}

	if err := h.Sweep.Claim(c.Request.Context(), caller, asset); err != nil {
		h.domainError(c, "claim failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "claimed", "asset": asset.Key()})
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_REQUEST"})
}

func (h *Handler) domainError(c *gin.Context, msg string, err error) {
	status, code := statusForError(err)

	if status == http.StatusInternalServerError {
		h.Logger.WithError(err).Error(msg)
		// Internal details stay out of the response body.
		c.JSON(status, gin.H{"error": "internal error", "code": code})
		return
	}

	h.Logger.WithError(err).WithField("code", code).Warn(msg)
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func parseAccounts(raw []string) ([]uuid.UUID, error) {
	accounts := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid recipient at index %d: %w", i, err)
		}
		accounts[i] = id
	}
	return accounts, nil
}

func parseAmounts(raw []string) ([]decimal.Decimal, error) {
	amounts := make([]decimal.Decimal, len(raw))
	for i, s := range raw {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid amount at index %d: %w", i, err)
		}
		amounts[i] = d
	}
	return amounts, nil
}
