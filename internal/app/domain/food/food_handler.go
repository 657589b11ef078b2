package food

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/domain"
	"github.com/greencampus/greencampus/internal/app/middleware"
	"github.com/greencampus/greencampus/internal/observability/metrics"
)

type FoodRequest struct {
	FoodType    string    `json:"food_type" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required"`
	MealsSaved  int       `json:"meals_saved"`
	Location    string    `json:"location" binding:"required"`
	Description string    `json:"description"`
	ExpiryTime  time.Time `json:"expiry_time" binding:"required"`
}

type FoodHandler struct {
	*domain.BaseHandler
	service FoodService
}

func NewFoodHandler(service FoodService, logger *zap.Logger) *FoodHandler {
	return &FoodHandler{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
	}
}

// List handles GET /api/food with optional status/food_type/location filters.
func (h *FoodHandler) List(c *gin.Context) {
	filter := ListFilter{
		Status:   c.Query("status"),
		FoodType: c.Query("food_type"),
		Location: c.Query("location"),
	}
	posts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Create handles POST /api/food.
func (h *FoodHandler) Create(c *gin.Context) {
	var req FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "food_type, quantity, location and expiry_time are required"})
		return
	}

	post, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), CreateFoodInput{
		FoodType:    req.FoodType,
		Quantity:    req.Quantity,
		MealsSaved:  req.MealsSaved,
		Location:    req.Location,
		Description: req.Description,
		ExpiryTime:  req.ExpiryTime,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}

	metrics.Get().PostsCreatedTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("kind", "food")))
	c.JSON(http.StatusCreated, post)
}

// Update handles PUT /api/food/:id.
func (h *FoodHandler) Update(c *gin.Context) {
	id, ok := h.IDParam(c, "id")
	if !ok {
		return
	}

	var req FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "food_type, quantity, location and expiry_time are required"})
		return
	}

	post, err := h.service.Update(c.Request.Context(),
		middleware.GetUserID(c), middleware.GetUserRole(c), id, CreateFoodInput{
			FoodType:    req.FoodType,
			Quantity:    req.Quantity,
			MealsSaved:  req.MealsSaved,
			Location:    req.Location,
			Description: req.Description,
			ExpiryTime:  req.ExpiryTime,
		})
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /api/food/:id.
func (h *FoodHandler) Delete(c *gin.Context) {
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

// Claim handles POST /api/food/:id/claim.
func (h *FoodHandler) Claim(c *gin.Context) {
	id, ok := h.IDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.service.Claim(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	metrics.Get().ClaimsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("kind", "food")))
	c.JSON(http.StatusOK, post)
}
