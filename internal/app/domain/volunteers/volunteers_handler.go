package volunteers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/domain"
	"github.com/greencampus/greencampus/internal/app/middleware"
	"github.com/greencampus/greencampus/internal/app/models"
	"github.com/greencampus/greencampus/internal/observability/metrics"
	"github.com/greencampus/greencampus/internal/pkg/utils"
)

type EventRequest struct {
	Title         string    `json:"title" binding:"required"`
	EventType     string    `json:"event_type"`
	Description   string    `json:"description"`
	Location      string    `json:"location" binding:"required"`
	EventDate     time.Time `json:"event_date" binding:"required"`
	DurationHours int       `json:"duration_hours" binding:"required"`
	MaxVolunteers int       `json:"max_volunteers"`
	PointsReward  int       `json:"points_reward"`
}

type VolunteersHandler struct {
	*domain.BaseHandler
	service VolunteersService
}

func NewVolunteersHandler(service VolunteersService, logger *zap.Logger) *VolunteersHandler {
	return &VolunteersHandler{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
	}
}

// List handles GET /api/volunteers with an optional status filter.
func (h *VolunteersHandler) List(c *gin.Context) {
	events, err := h.service.List(c.Request.Context(), ListFilter{Status: c.Query("status")})
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Create handles POST /api/volunteers.
func (h *VolunteersHandler) Create(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, location, event_date and duration_hours are required"})
		return
	}

	event, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), CreateEventInput{
		Title:         req.Title,
		EventType:     req.EventType,
		Description:   req.Description,
		Location:      req.Location,
		EventDate:     req.EventDate,
		DurationHours: req.DurationHours,
		MaxVolunteers: req.MaxVolunteers,
		PointsReward:  req.PointsReward,
	})
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Delete handles DELETE /api/volunteers/:id.
func (h *VolunteersHandler) Delete(c *gin.Context) {
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

// Register handles POST /api/volunteers/:id/register.
func (h *VolunteersHandler) Register(c *gin.Context) {
	id, ok := h.IDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.service.Register(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Complete handles POST /api/volunteers/:id/complete.
func (h *VolunteersHandler) Complete(c *gin.Context) {
	id, ok := h.IDParam(c, "id")
	if !ok {
		return
	}

	event, credited, err := h.service.Complete(c.Request.Context(),
		middleware.GetUserID(c), middleware.GetUserRole(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	metrics.Get().PointsAwardedTotal.Add(c.Request.Context(), credited*int64(event.PointsReward),
		metric.WithAttributes(attribute.String("event_id", event.ID)))
	c.JSON(http.StatusOK, gin.H{
		"event":               event,
		"volunteers_credited": credited,
	})
}

// Leaderboard handles GET /api/leaderboard?limit=n.
func (h *VolunteersHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.service.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	type entryResponse struct {
		models.LeaderboardEntry
		RoleLabel string `json:"role_label"`
	}
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{LeaderboardEntry: e, RoleLabel: utils.RoleLabel(e.Role)})
	}
	c.JSON(http.StatusOK, out)
}
