package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ledgerapp "github.com/mizan/backend/internal/application/ledger"
	"github.com/mizan/backend/internal/domain/ledger"
	"github.com/mizan/backend/internal/domain/shared"
)

// ObligationHandler handles invoice and purchase order API endpoints
type ObligationHandler struct {
	BaseHandler
	obligationService *ledgerapp.ObligationService
}

// NewObligationHandler creates a new ObligationHandler
func NewObligationHandler(obligationService *ledgerapp.ObligationService) *ObligationHandler {
	return &ObligationHandler{obligationService: obligationService}
}

// LineRequest is one line item in a create or update request
type LineRequest struct {
	Description   string   `json:"description" binding:"max=500"`
	Quantity      int      `json:"quantity" binding:"min=0"`
	UnitPrice     float64  `json:"unit_price" binding:"min=0"`
	DiscountMode  string   `json:"discount_mode" binding:"omitempty,oneof=PERCENTAGE FIXED"`
	DiscountValue *float64 `json:"discount_value" binding:"omitempty,min=0"`
}

// DiscountRequest is an obligation- or document-level discount setting
type DiscountRequest struct {
	Mode  string  `json:"mode" binding:"required,oneof=PERCENTAGE FIXED"`
	Value float64 `json:"value" binding:"min=0"`
}

// CreateObligationRequest is the request body for creating an obligation
type CreateObligationRequest struct {
	Kind            string           `json:"kind" binding:"required,oneof=INVOICE PURCHASE_ORDER"`
	CounterpartyID  string           `json:"counterparty_id" binding:"required,uuid"`
	Lines           []LineRequest    `json:"lines" binding:"omitempty,dive"`
	PlanAmount      *float64         `json:"plan_amount" binding:"omitempty,min=0"`
	TaxEnabled      bool             `json:"tax_enabled"`
	TaxRate         *float64         `json:"tax_rate" binding:"omitempty,min=0,max=1"`
	DiscountEntry   string           `json:"discount_entry" binding:"omitempty,oneof=INDIVIDUAL GLOBAL"`
	GlobalDiscount  *DiscountRequest `json:"global_discount"`
	InvoiceDiscount *DiscountRequest `json:"invoice_discount"`
	DueDate         *time.Time       `json:"due_date"`
	Remark          string           `json:"remark" binding:"max=1000"`
}

// UpdateObligationRequest is the request body for editing an obligation.
// Absent fields are left unchanged.
type UpdateObligationRequest struct {
	Lines                []LineRequest    `json:"lines" binding:"omitempty,dive"`
	PlanAmount           *float64         `json:"plan_amount" binding:"omitempty,min=0"`
	TaxEnabled           *bool            `json:"tax_enabled"`
	TaxRate              *float64         `json:"tax_rate" binding:"omitempty,min=0,max=1"`
	DiscountEntry        *string          `json:"discount_entry" binding:"omitempty,oneof=INDIVIDUAL GLOBAL"`
	GlobalDiscount       *DiscountRequest `json:"global_discount"`
	InvoiceDiscount      *DiscountRequest `json:"invoice_discount"`
	ClearInvoiceDiscount bool             `json:"clear_invoice_discount"`
	DueDate              *time.Time       `json:"due_date"`
	Remark               *string          `json:"remark" binding:"omitempty,max=1000"`
}

// ObligationListRequest is the query string of the obligation list endpoint
type ObligationListRequest struct {
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Kind           string `form:"kind" binding:"omitempty,oneof=INVOICE PURCHASE_ORDER"`
	Status         string `form:"status" binding:"omitempty,oneof=PENDING PARTIAL PAID OVERDUE"`
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
}

// Create handles POST /ledger/obligations
func (h *ObligationHandler) Create(c *gin.Context) {
	var req CreateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	counterpartyID, err := uuid.Parse(req.CounterpartyID)
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	appReq := ledgerapp.CreateObligationRequest{
		Kind:            ledger.ObligationKind(req.Kind),
		CounterpartyID:  counterpartyID,
		Lines:           toLineInputs(req.Lines),
		TaxEnabled:      req.TaxEnabled,
		DiscountEntry:   ledger.DiscountEntryMode(req.DiscountEntry),
		GlobalDiscount:  toDiscountSetting(req.GlobalDiscount),
		InvoiceDiscount: toDiscountSetting(req.InvoiceDiscount),
		DueDate:         req.DueDate,
		Remark:          req.Remark,
	}
	if req.PlanAmount != nil {
		appReq.PlanAmount = moneyPtrFrom(*req.PlanAmount)
	}
	if req.TaxRate != nil {
		appReq.TaxRate = moneyPtrFrom(*req.TaxRate)
	}

	o, err := h.obligationService.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, o)
}

// Get handles GET /ledger/obligations/:id
func (h *ObligationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid obligation ID format")
		return
	}

	o, err := h.obligationService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// List handles GET /ledger/obligations
func (h *ObligationHandler) List(c *gin.Context) {
	var req ObligationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	filter := ledger.ObligationFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		},
	}
	if req.Kind != "" {
		kind := ledger.ObligationKind(req.Kind)
		filter.Kind = &kind
	}
	if req.Status != "" {
		status := ledger.ObligationStatus(req.Status)
		filter.Status = &status
	}
	if req.CounterpartyID != "" {
		id, err := uuid.Parse(req.CounterpartyID)
		if err != nil {
			h.BadRequest(c, "Invalid counterparty ID format")
			return
		}
		filter.CounterpartyID = &id
	}

	page, err := h.obligationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListOverdue handles GET /ledger/obligations/overdue
func (h *ObligationHandler) ListOverdue(c *gin.Context) {
	kind := ledger.ObligationKind(c.Query("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "Query parameter kind must be INVOICE or PURCHASE_ORDER")
		return
	}

	overdue, err := h.obligationService.ListOverdue(c.Request.Context(), kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overdue)
}

// Outstanding handles GET /ledger/counterparties/:id/outstanding
func (h *ObligationHandler) Outstanding(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	sum, err := h.obligationService.OutstandingBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"counterparty_id": id,
		"outstanding":     sum,
	})
}

// Update handles PUT /ledger/obligations/:id
func (h *ObligationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid obligation ID format")
		return
	}

	var req UpdateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	appReq := ledgerapp.UpdateObligationRequest{
		GlobalDiscount:       toDiscountSetting(req.GlobalDiscount),
		InvoiceDiscount:      toDiscountSetting(req.InvoiceDiscount),
		ClearInvoiceDiscount: req.ClearInvoiceDiscount,
		TaxEnabled:           req.TaxEnabled,
		DueDate:              req.DueDate,
		Remark:               req.Remark,
	}
	if req.Lines != nil {
		appReq.Lines = toLineInputs(req.Lines)
	}
	if req.PlanAmount != nil {
		appReq.PlanAmount = moneyPtrFrom(*req.PlanAmount)
	}
	if req.TaxRate != nil {
		appReq.TaxRate = moneyPtrFrom(*req.TaxRate)
	}
	if req.DiscountEntry != nil {
		mode := ledger.DiscountEntryMode(*req.DiscountEntry)
		appReq.DiscountEntry = &mode
	}

	o, err := h.obligationService.Update(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Delete handles DELETE /ledger/obligations/:id
func (h *ObligationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid obligation ID format")
		return
	}

	if err := h.obligationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func toLineInputs(lines []LineRequest) []ledgerapp.LineInput {
	inputs := make([]ledgerapp.LineInput, 0, len(lines))
	for _, l := range lines {
		in := ledgerapp.LineInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   moneyFrom(l.UnitPrice),
		}
		if l.DiscountMode != "" && l.DiscountValue != nil {
			in.DiscountMode = ledger.DiscountMode(l.DiscountMode)
			in.DiscountValue = moneyFrom(*l.DiscountValue)
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func toDiscountSetting(req *DiscountRequest) *ledger.DiscountSetting {
	if req == nil {
		return nil
	}
	return &ledger.DiscountSetting{
		Mode:  ledger.DiscountMode(req.Mode),
		Value: decimal.NewFromFloat(req.Value),
	}
}
