package donations

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/domain"
	"github.com/greencampus/greencampus/internal/app/middleware"
	"github.com/greencampus/greencampus/internal/observability/metrics"
)

type DonationRequest struct {
	ItemName    string `json:"item_name" binding:"required"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
	Location    string `json:"location" binding:"required"`
}

type DonationsHandler struct {
	*domain.BaseHandler
	service DonationsService
}

func NewDonationsHandler(service DonationsService, logger *zap.Logger) *DonationsHandler {
	return &DonationsHandler{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
	}
}

// List handles GET /api/donations with optional status/category filters.
func (h *DonationsHandler) List(c *gin.Context) {
	donations, err := h.service.List(c.Request.Context(), ListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}

// Create handles POST /api/donations.
func (h *DonationsHandler) Create(c *gin.Context) {
	var req DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_name and location are required"})
		return
	}

	donation, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), CreateDonationInput{
		ItemName:    req.ItemName,
		Category:    req.Category,
		Condition:   req.Condition,
		Quantity:    req.Quantity,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	metrics.Get().PostsCreatedTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("kind", "donation")))
	c.JSON(http.StatusCreated, donation)
}

// Delete handles DELETE /api/donations/:id.
func (h *DonationsHandler) Delete(c *gin.Context) {
	id, ok := h.IDParam(c, "id")
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(),
		middleware.GetUserID(c), middleware.GetUserRole(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Claim handles PATCH /api/donations/:id/claim.
func (h *DonationsHandler) Claim(c *gin.Context) {
	id, ok := h.IDParam(c, "id")
	if !ok {
		return
	}

	donation, err := h.service.Claim(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	metrics.Get().ClaimsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("kind", "donation")))
	c.JSON(http.StatusOK, donation)
}
