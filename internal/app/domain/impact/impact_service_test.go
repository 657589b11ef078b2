package impact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/models"
)

type MockImpactRepo struct {
	mock.Mock
}

func (m *MockImpactRepo) FoodTotals(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockImpactRepo) EwasteTotals(ctx context.Context) (int, float64, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Get(1).(float64), args.Error(2)
}

func (m *MockImpactRepo) DonationCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockImpactRepo) VolunteerTotals(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockImpactRepo) GlobalStats(ctx context.Context) ([]models.GlobalStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GlobalStat), args.Error(1)
}

func TestStatsAggregation(t *testing.T) {
	repo := new(MockImpactRepo)
	svc := NewImpactService(repo, time.Minute, zap.NewNop())

	repo.On("FoodTotals", mock.Anything).Return(120, 42, nil).Once()
	repo.On("EwasteTotals", mock.Anything).Return(17, 385.5, nil).Once()
	repo.On("DonationCount", mock.Anything).Return(9, nil).Once()
	repo.On("VolunteerTotals", mock.Anything).Return(31, 1550, nil).Once()

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, stats.TotalMealsSaved)
	assert.InDelta(t, 48.0, stats.TotalFoodWasteKG, 0.001)
	assert.Equal(t, 42, stats.TotalFoodPosts)
	assert.Equal(t, 17, stats.TotalEwasteItems)
	assert.InDelta(t, 385.5, stats.TotalCO2SavedKG, 0.001)
	assert.Equal(t, 9, stats.TotalDonations)
	assert.Equal(t, 31, stats.TotalVolunteersActive)
	assert.Equal(t, 1550, stats.TotalPointsAwarded)
	repo.AssertExpectations(t)
}

func TestStatsCached(t *testing.T) {
	repo := new(MockImpactRepo)
	svc := NewImpactService(repo, time.Minute, zap.NewNop())

	repo.On("FoodTotals", mock.Anything).Return(10, 1, nil).Once()
	repo.On("EwasteTotals", mock.Anything).Return(1, 12.5, nil).Once()
	repo.On("DonationCount", mock.Anything).Return(1, nil).Once()
	repo.On("VolunteerTotals", mock.Anything).Return(1, 50, nil).Once()

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)

	// Second call must be served from cache, not hit the repo again
	second, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}

func TestStatsErrorNotCached(t *testing.T) {
	repo := new(MockImpactRepo)
	svc := NewImpactService(repo, time.Minute, zap.NewNop())

	dbErr := errors.New("connection reset")
	repo.On("FoodTotals", mock.Anything).Return(0, 0, dbErr).Once()
	repo.On("EwasteTotals", mock.Anything).Return(0, 0.0, nil).Maybe()
	repo.On("DonationCount", mock.Anything).Return(0, nil).Maybe()
	repo.On("VolunteerTotals", mock.Anything).Return(0, 0, nil).Maybe()

	_, err := svc.Stats(context.Background())
	require.Error(t, err)

	// A failed aggregation must not poison the cache
	repo.On("FoodTotals", mock.Anything).Return(10, 1, nil).Once()
	repo.On("EwasteTotals", mock.Anything).Return(1, 12.5, nil).Once()
	repo.On("DonationCount", mock.Anything).Return(1, nil).Once()
	repo.On("VolunteerTotals", mock.Anything).Return(1, 50, nil).Once()

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFoodPosts)
}

func TestGlobalStatsPassthrough(t *testing.T) {
	repo := new(MockImpactRepo)
	svc := NewImpactService(repo, time.Minute, zap.NewNop())

	repo.On("GlobalStats", mock.Anything).Return([]models.GlobalStat{
		{DataType: "global_food_waste_tonnes", Value: 1.05e9, Unit: "tonnes/year", Source: "UNEP Food Waste Index 2024"},
	}, nil)

	stats, err := svc.GlobalStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "global_food_waste_tonnes", stats[0].DataType)
}
