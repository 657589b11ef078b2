package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/domain/auth"
	"github.com/greencampus/greencampus/internal/app/domain/donations"
	"github.com/greencampus/greencampus/internal/app/domain/ewaste"
	"github.com/greencampus/greencampus/internal/app/domain/food"
	"github.com/greencampus/greencampus/internal/app/domain/impact"
	"github.com/greencampus/greencampus/internal/app/domain/volunteers"
	"github.com/greencampus/greencampus/internal/app/middleware"
	"github.com/greencampus/greencampus/internal/app/models"
	"github.com/greencampus/greencampus/internal/pkg/config"
	"github.com/greencampus/greencampus/internal/pkg/screening"
)

type AppHandlers struct {
	Auth       *auth.AuthHandler
	Food       *food.FoodHandler
	Ewaste     *ewaste.EwasteHandler
	Volunteers *volunteers.VolunteersHandler
	Donations  *donations.DonationsHandler
	Impact     *impact.ImpactHandler
}

// NewAppHandlers builds the repository/service/handler stack for every domain.
func NewAppHandlers(pgpool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) *AppHandlers {
	screener := screening.NewScreener(nil)

	authRepo := auth.NewPostgresAuthRepo(pgpool, logger)
	authService := auth.NewAuthService(authRepo, cfg, logger)

	foodRepo := food.NewPostgresFoodRepo(pgpool, logger)
	foodService := food.NewFoodService(foodRepo, screener, logger)

	ewasteRepo := ewaste.NewPostgresEwasteRepo(pgpool, logger)
	ewasteService := ewaste.NewEwasteService(ewasteRepo, screener, logger)

	volunteersRepo := volunteers.NewPostgresVolunteersRepo(pgpool, logger)
	volunteersService := volunteers.NewVolunteersService(volunteersRepo, screener, logger)

	donationsRepo := donations.NewPostgresDonationsRepo(pgpool, logger)
	donationsService := donations.NewDonationsService(donationsRepo, screener, logger)

	impactRepo := impact.NewPostgresImpactRepo(pgpool, logger)
	impactService := impact.NewImpactService(impactRepo, cfg.Impact.CacheTTL, logger)

	return &AppHandlers{
		Auth:       auth.NewAuthHandler(authService, logger),
		Food:       food.NewFoodHandler(foodService, logger),
		Ewaste:     ewaste.NewEwasteHandler(ewasteService, logger),
		Volunteers: volunteers.NewVolunteersHandler(volunteersService, logger),
		Donations:  donations.NewDonationsHandler(donationsService, logger),
		Impact:     impact.NewImpactHandler(impactService, logger),
	}
}

// Setup registers every API route. Listing endpoints are public; anything
// that writes goes through RequireAuth, with role gates layered on top.
func Setup(r *gin.Engine, pgpool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) {
	h := NewAppHandlers(pgpool, cfg, logger)

	api := r.Group("/api")

	// Public reads and auth entry points.
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/food", h.Food.List)
	api.GET("/ewaste", h.Ewaste.List)
	api.GET("/volunteers", h.Volunteers.List)
	api.GET("/donations", h.Donations.List)
	api.GET("/leaderboard", h.Volunteers.Leaderboard)
	api.GET("/impact", h.Impact.Stats)
	api.GET("/global-stats", h.Impact.GlobalStats)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(cfg.JWT.SecretKey))
	{
		authed.GET("/auth/me", h.Auth.Me)

		foodManage := authed.Group("/food", middleware.RequireRoles(models.RoleMessStaff))
		{
			foodManage.POST("", h.Food.Create)
			foodManage.PUT("/:id", h.Food.Update)
			foodManage.DELETE("/:id", h.Food.Delete)
		}
		authed.POST("/food/:id/claim", middleware.RequireRoles(models.RoleNGO), h.Food.Claim)

		ewastePost := authed.Group("/ewaste", middleware.RequireRoles(models.RoleStudent))
		{
			ewastePost.POST("", h.Ewaste.Create)
			ewastePost.DELETE("/:id", h.Ewaste.Delete)
		}
		// Any authenticated user may claim; the service rejects self-claims.
		authed.POST("/ewaste/:id/claim", h.Ewaste.Claim)

		eventManage := authed.Group("/volunteers", middleware.RequireRoles(models.RoleNGO))
		{
			eventManage.POST("", h.Volunteers.Create)
			eventManage.DELETE("/:id", h.Volunteers.Delete)
			eventManage.POST("/:id/complete", h.Volunteers.Complete)
		}
		authed.POST("/volunteers/:id/register", middleware.RequireRoles(models.RoleStudent), h.Volunteers.Register)

		authed.POST("/donations", h.Donations.Create)
		authed.PATCH("/donations/:id/claim", h.Donations.Claim)
		authed.DELETE("/donations/:id", h.Donations.Delete)
	}
}
