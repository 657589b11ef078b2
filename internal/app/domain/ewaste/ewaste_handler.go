package ewaste

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

type EwasteRequest struct {
	ItemType    string `json:"item_type" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	Condition   string `json:"condition"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description"`
}

type EwasteHandler struct {
	*domain.BaseHandler
	service EwasteService
}

func NewEwasteHandler(service EwasteService, logger *zap.Logger) *EwasteHandler {
	return &EwasteHandler{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
	}
}

// List handles GET /api/ewaste with optional status/item_type filters.
func (h *EwasteHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), ListFilter{
		Status:   c.Query("status"),
		ItemType: c.Query("item_type"),
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create handles POST /api/ewaste.
func (h *EwasteHandler) Create(c *gin.Context) {
	var req EwasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_type, quantity and location are required"})
		return
	}

	item, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), CreateEwasteInput{
		ItemType:    req.ItemType,
		Quantity:    req.Quantity,
		Condition:   req.Condition,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	m := metrics.Get()
	m.PostsCreatedTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("kind", "ewaste")))
	m.CO2SavedKilograms.Add(c.Request.Context(), item.CO2SavedKG)
	c.JSON(http.StatusCreated, item)
}

// Delete handles DELETE /api/ewaste/:id.
func (h *EwasteHandler) Delete(c *gin.Context) {
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

// Claim handles POST /api/ewaste/:id/claim.
func (h *EwasteHandler) Claim(c *gin.Context) {
	id, ok := h.IDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.Claim(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	metrics.Get().ClaimsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("kind", "ewaste")))
	c.JSON(http.StatusOK, item)
}
