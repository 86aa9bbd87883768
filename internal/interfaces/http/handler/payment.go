package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/mizan/backend/internal/application/ledger"
	"github.com/mizan/backend/internal/domain/ledger"
	"github.com/mizan/backend/internal/domain/shared"
)

// PaymentHandler handles payment recording and allocation API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService    *ledgerapp.PaymentService
	allocationService *ledgerapp.AllocationService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *ledgerapp.PaymentService, allocationService *ledgerapp.AllocationService) *PaymentHandler {
	return &PaymentHandler{
		paymentService:    paymentService,
		allocationService: allocationService,
	}
}

// RecordPaymentRequest is the request body for paying one obligation
type RecordPaymentRequest struct {
	ObligationID string     `json:"obligation_id" binding:"required,uuid"`
	Amount       float64    `json:"amount" binding:"required,gt=0"`
	Method       string     `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CARD CHEQUE CREDIT"`
	PaidAt       *time.Time `json:"paid_at"`
	Reference    string     `json:"reference" binding:"max=200"`
}

// RecordPaymentResponse pairs the stored payment with the updated obligation
type RecordPaymentResponse struct {
	Payment    *ledger.Payment    `json:"payment"`
	Obligation *ledger.Obligation `json:"obligation"`
}

// AllocatePaymentRequest is the request body for spreading one lump payment
// across a counterparty's open obligations
type AllocatePaymentRequest struct {
	CounterpartyID string     `json:"counterparty_id" binding:"required,uuid"`
	Kind           string     `json:"kind" binding:"required,oneof=INVOICE PURCHASE_ORDER"`
	Amount         float64    `json:"amount" binding:"required,gt=0"`
	Method         string     `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CARD CHEQUE CREDIT"`
	PaidAt         *time.Time `json:"paid_at"`
	Reference      string     `json:"reference" binding:"max=200"`
}

// PaymentListRequest is the query string of the payment list endpoint
type PaymentListRequest struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	ObligationID   string `form:"obligation_id" binding:"omitempty,uuid"`
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
	Method         string `form:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER CARD CHEQUE CREDIT"`
}

// Record handles POST /ledger/payments
func (h *PaymentHandler) Record(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	obligationID, err := uuid.Parse(req.ObligationID)
	if err != nil {
		h.BadRequest(c, "Invalid obligation ID format")
		return
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment, obligation, err := h.paymentService.RecordPayment(c.Request.Context(), ledgerapp.RecordPaymentRequest{
		ObligationID: obligationID,
		Amount:       moneyFrom(req.Amount),
		Method:       ledger.PaymentMethod(req.Method),
		PaidAt:       paidAt,
		Reference:    req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, RecordPaymentResponse{Payment: payment, Obligation: obligation})
}

// Allocate handles POST /ledger/payments/allocate
func (h *PaymentHandler) Allocate(c *gin.Context) {
	var req AllocatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	counterpartyID, err := uuid.Parse(req.CounterpartyID)
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	appReq := ledgerapp.AllocatePaymentRequest{
		CounterpartyID: counterpartyID,
		Kind:           ledger.ObligationKind(req.Kind),
		Amount:         moneyFrom(req.Amount),
		Method:         ledger.PaymentMethod(req.Method),
		Reference:      req.Reference,
	}
	if req.PaidAt != nil {
		appReq.PaidAt = *req.PaidAt
	}

	result, err := h.allocationService.AllocatePayment(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List handles GET /ledger/payments
func (h *PaymentHandler) List(c *gin.Context) {
	var req PaymentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	filter := ledger.PaymentFilter{
		Filter: shared.Filter{Page: req.Page, PageSize: req.PageSize},
	}
	if req.ObligationID != "" {
		id, err := uuid.Parse(req.ObligationID)
		if err != nil {
			h.BadRequest(c, "Invalid obligation ID format")
			return
		}
		filter.ObligationID = &id
	}
	if req.CounterpartyID != "" {
		id, err := uuid.Parse(req.CounterpartyID)
		if err != nil {
			h.BadRequest(c, "Invalid counterparty ID format")
			return
		}
		filter.CounterpartyID = &id
	}
	if req.Method != "" {
		method := ledger.PaymentMethod(req.Method)
		filter.Method = &method
	}

	page, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByObligation handles GET /ledger/obligations/:id/payments
func (h *PaymentHandler) ListByObligation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid obligation ID format")
		return
	}

	payments, err := h.paymentService.ListByObligation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Reconcile handles POST /ledger/obligations/:id/reconcile
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid obligation ID format")
		return
	}

	o, err := h.paymentService.Reconcile(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}
