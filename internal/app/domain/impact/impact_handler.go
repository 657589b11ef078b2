package impact

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/domain"
)

type ImpactHandler struct {
	*domain.BaseHandler
	service ImpactService
}

func NewImpactHandler(service ImpactService, logger *zap.Logger) *ImpactHandler {
	return &ImpactHandler{
		BaseHandler: domain.NewBaseHandler(logger),
		service:     service,
	}
}

// Stats handles GET /api/impact.
func (h *ImpactHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GlobalStats handles GET /api/global-stats.
func (h *ImpactHandler) GlobalStats(c *gin.Context) {
	stats, err := h.service.GlobalStats(c.Request.Context())
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
