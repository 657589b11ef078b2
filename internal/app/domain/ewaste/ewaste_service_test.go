package ewaste

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/models"
	"github.com/greencampus/greencampus/internal/pkg/screening"
)

type MockEwasteRepo struct {
	mock.Mock
}

func (m *MockEwasteRepo) List(ctx context.Context, filter ListFilter) ([]models.EwasteItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EwasteItem), args.Error(1)
}

func (m *MockEwasteRepo) GetByID(ctx context.Context, id string) (*models.EwasteItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EwasteItem), args.Error(1)
}

func (m *MockEwasteRepo) Create(ctx context.Context, item *models.EwasteItem) error {
	args := m.Called(ctx, item)
	item.ID = "item-1"
	item.Status = models.EwasteStatusAvailable
	return args.Error(0)
}

func (m *MockEwasteRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEwasteRepo) Claim(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func newTestService(repo EwasteRepo) *EwasteServiceImpl {
	return NewEwasteService(repo, screening.NewScreener(nil), zap.NewNop())
}

func TestCreateComputesCO2(t *testing.T) {
	repo := new(MockEwasteRepo)
	svc := newTestService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(item *models.EwasteItem) bool {
		// 2 laptops at 45kg each, regardless of anything the client sent
		return item.ItemType == models.EwasteTypeLaptop && item.CO2SavedKG == 90
	})).Return(nil)

	item, err := svc.Create(context.Background(), "student-1", CreateEwasteInput{
		ItemType: "Laptop",
		Quantity: 2,
		Location: "Hostel B",
	})
	require.NoError(t, err)
	assert.InDelta(t, 90.0, item.CO2SavedKG, 0.001)
	repo.AssertExpectations(t)
}

func TestCreateUnknownItemType(t *testing.T) {
	repo := new(MockEwasteRepo)
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), "student-1", CreateEwasteInput{
		ItemType: "refrigerator",
		Quantity: 1,
		Location: "Hostel B",
	})
	assert.ErrorIs(t, err, models.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClaimOwnItemForbidden(t *testing.T) {
	repo := new(MockEwasteRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "item-1").Return(&models.EwasteItem{
		ID:       "item-1",
		PostedBy: "student-1",
		Status:   models.EwasteStatusAvailable,
	}, nil)

	_, err := svc.Claim(context.Background(), "student-1", "item-1")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestDeleteRequiresPosterOrAdmin(t *testing.T) {
	repo := new(MockEwasteRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "item-1").Return(&models.EwasteItem{
		ID:       "item-1",
		PostedBy: "student-1",
	}, nil)

	err := svc.Delete(context.Background(), "student-2", models.RoleStudent, "item-1")
	assert.ErrorIs(t, err, models.ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
