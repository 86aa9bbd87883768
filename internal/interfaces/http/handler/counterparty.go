package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/mizan/backend/internal/application/partner"
	"github.com/mizan/backend/internal/domain/partner"
	"github.com/mizan/backend/internal/domain/shared"
)

// CounterpartyHandler handles customer and supplier API endpoints
type CounterpartyHandler struct {
	BaseHandler
	counterpartyService *partnerapp.CounterpartyService
}

// NewCounterpartyHandler creates a new CounterpartyHandler
func NewCounterpartyHandler(counterpartyService *partnerapp.CounterpartyService) *CounterpartyHandler {
	return &CounterpartyHandler{counterpartyService: counterpartyService}
}

// CreateCounterpartyRequest is the request body for creating a counterparty
type CreateCounterpartyRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=CUSTOMER SUPPLIER"`
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Phone     string `json:"phone" binding:"max=50"`
	Email     string `json:"email" binding:"omitempty,email,max=200"`
	Address   string `json:"address" binding:"max=500"`
	TaxNumber string `json:"tax_number" binding:"max=50"`
	Notes     string `json:"notes" binding:"max=1000"`
}

// UpdateCounterpartyRequest is the request body for editing a counterparty.
// Absent fields are left unchanged.
type UpdateCounterpartyRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Email     *string `json:"email" binding:"omitempty,email,max=200"`
	Address   *string `json:"address" binding:"omitempty,max=500"`
	TaxNumber *string `json:"tax_number" binding:"omitempty,max=50"`
	Notes     *string `json:"notes" binding:"omitempty,max=1000"`
}

// ConsumeCreditRequest is the request body for spending pre-paid credit
type ConsumeCreditRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Reference string  `json:"reference" binding:"max=200"`
}

// CounterpartyListRequest is the query string of the counterparty list
// endpoint
type CounterpartyListRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	Search     string `form:"search"`
	Kind       string `form:"kind" binding:"omitempty,oneof=CUSTOMER SUPPLIER"`
	WithCredit bool   `form:"with_credit"`
}

// Create handles POST /partner/counterparties
func (h *CounterpartyHandler) Create(c *gin.Context) {
	var req CreateCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	counterparty, err := h.counterpartyService.Create(c.Request.Context(), partnerapp.CreateCounterpartyRequest{
		Kind:      partner.CounterpartyKind(req.Kind),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		TaxNumber: req.TaxNumber,
		Notes:     req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, counterparty)
}

// Get handles GET /partner/counterparties/:id
func (h *CounterpartyHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	counterparty, err := h.counterpartyService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counterparty)
}

// List handles GET /partner/counterparties
func (h *CounterpartyHandler) List(c *gin.Context) {
	var req CounterpartyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	filter := partner.CounterpartyFilter{
		Filter:     shared.Filter{Page: req.Page, PageSize: req.PageSize, Search: req.Search},
		WithCredit: req.WithCredit,
	}
	if req.Kind != "" {
		kind := partner.CounterpartyKind(req.Kind)
		filter.Kind = &kind
	}

	page, err := h.counterpartyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update handles PUT /partner/counterparties/:id
func (h *CounterpartyHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	var req UpdateCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	counterparty, err := h.counterpartyService.Update(c.Request.Context(), id, partnerapp.UpdateCounterpartyRequest{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		TaxNumber: req.TaxNumber,
		Notes:     req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counterparty)
}

// Delete handles DELETE /partner/counterparties/:id
func (h *CounterpartyHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	if err := h.counterpartyService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConsumeCredit handles POST /partner/counterparties/:id/credit/consume
func (h *CounterpartyHandler) ConsumeCredit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	var req ConsumeCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	counterparty, err := h.counterpartyService.ConsumeCredit(c.Request.Context(), id, moneyFrom(req.Amount), req.Reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counterparty)
}

// CreditHistory handles GET /partner/counterparties/:id/credit/history
func (h *CounterpartyHandler) CreditHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid counterparty ID format")
		return
	}

	history, err := h.counterpartyService.CreditHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}
