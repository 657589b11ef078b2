package impact

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greencampus/greencampus/internal/app/models"
)

var _ ImpactService = (*ImpactServiceImpl)(nil)

const impactCacheKey = "impact:stats"

type ImpactService interface {
	Stats(ctx context.Context) (*models.ImpactStats, error)
	GlobalStats(ctx context.Context) ([]models.GlobalStat, error)
}

type ImpactServiceImpl struct {
	logger *zap.Logger
	repo   ImpactRepo
	cache  *cache.Cache
	ttl    time.Duration
}

func NewImpactService(repo ImpactRepo, cacheTTL time.Duration, logger *zap.Logger) *ImpactServiceImpl {
	return &ImpactServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(cacheTTL, 2*cacheTTL),
		ttl:    cacheTTL,
	}
}

// Stats aggregates the campus-wide totals, fanning the queries out
// concurrently and caching the result for the configured TTL.
func (s *ImpactServiceImpl) Stats(ctx context.Context) (*models.ImpactStats, error) {
	if cached, found := s.cache.Get(impactCacheKey); found {
		if stats, ok := cached.(*models.ImpactStats); ok {
			return stats, nil
		}
	}

	var stats models.ImpactStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		meals, posts, err := s.repo.FoodTotals(gctx)
		if err != nil {
			return err
		}
		stats.TotalMealsSaved = meals
		stats.TotalFoodWasteKG = float64(meals) * models.KGFoodPerMeal
		stats.TotalFoodPosts = posts
		return nil
	})
	g.Go(func() error {
		items, co2, err := s.repo.EwasteTotals(gctx)
		if err != nil {
			return err
		}
		stats.TotalEwasteItems = items
		stats.TotalCO2SavedKG = co2
		return nil
	})
	g.Go(func() error {
		count, err := s.repo.DonationCount(gctx)
		if err != nil {
			return err
		}
		stats.TotalDonations = count
		return nil
	})
	g.Go(func() error {
		volunteers, points, err := s.repo.VolunteerTotals(gctx)
		if err != nil {
			return err
		}
		stats.TotalVolunteersActive = volunteers
		stats.TotalPointsAwarded = points
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Error aggregating impact stats", zap.Error(err))
		return nil, err
	}

	stats.UpdatedAt = time.Now().UTC()
	s.cache.Set(impactCacheKey, &stats, s.ttl)
	return &stats, nil
}

func (s *ImpactServiceImpl) GlobalStats(ctx context.Context) ([]models.GlobalStat, error) {
	return s.repo.GlobalStats(ctx)
}
