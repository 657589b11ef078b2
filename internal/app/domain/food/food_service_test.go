package food

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/models"
	"github.com/greencampus/greencampus/internal/pkg/screening"
)

type MockFoodRepo struct {
	mock.Mock
}

func (m *MockFoodRepo) List(ctx context.Context, filter ListFilter) ([]models.FoodPost, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FoodPost), args.Error(1)
}

func (m *MockFoodRepo) GetByID(ctx context.Context, id string) (*models.FoodPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodPost), args.Error(1)
}

func (m *MockFoodRepo) Create(ctx context.Context, post *models.FoodPost) error {
	args := m.Called(ctx, post)
	post.ID = "post-1"
	post.Status = models.FoodStatusAvailable
	return args.Error(0)
}

func (m *MockFoodRepo) Update(ctx context.Context, post *models.FoodPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockFoodRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFoodRepo) Claim(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func newTestService(repo FoodRepo) *FoodServiceImpl {
	return NewFoodService(repo, screening.NewScreener(nil), zap.NewNop())
}

func validInput() CreateFoodInput {
	return CreateFoodInput{
		FoodType:   "Vegetable biryani",
		Quantity:   15,
		MealsSaved: 15,
		Location:   "North mess hall",
		ExpiryTime: time.Now().Add(4 * time.Hour),
	}
}

func TestCreateFoodPost(t *testing.T) {
	repo := new(MockFoodRepo)
	svc := newTestService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("GetByID", mock.Anything, "post-1").Return(&models.FoodPost{
		ID:       "post-1",
		FoodType: "Vegetable biryani",
		Status:   models.FoodStatusAvailable,
		PostedBy: "staff-1",
	}, nil)

	post, err := svc.Create(context.Background(), "staff-1", validInput())
	require.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
	assert.Equal(t, models.FoodStatusAvailable, post.Status)
	repo.AssertExpectations(t)
}

func TestCreateFoodPostValidation(t *testing.T) {
	repo := new(MockFoodRepo)
	svc := newTestService(repo)

	tests := []struct {
		name   string
		mutate func(*CreateFoodInput)
	}{
		{"missing food type", func(in *CreateFoodInput) { in.FoodType = "  " }},
		{"missing location", func(in *CreateFoodInput) { in.Location = "" }},
		{"non-positive quantity", func(in *CreateFoodInput) { in.Quantity = 0 }},
		{"negative meals saved", func(in *CreateFoodInput) { in.MealsSaved = -1 }},
		{"expiry in the past", func(in *CreateFoodInput) { in.ExpiryTime = time.Now().Add(-time.Hour) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), "staff-1", in)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateFoodPostFlaggedContent(t *testing.T) {
	repo := new(MockFoodRepo)
	svc := NewFoodService(repo, screening.NewScreener([]string{"crypto"}), zap.NewNop())

	in := validInput()
	in.Description = "pay me in CRYPTO for this"
	_, err := svc.Create(context.Background(), "staff-1", in)
	assert.ErrorIs(t, err, models.ErrFlaggedContent)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClaimOwnPostForbidden(t *testing.T) {
	repo := new(MockFoodRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "post-1").Return(&models.FoodPost{
		ID:         "post-1",
		PostedBy:   "staff-1",
		Status:     models.FoodStatusAvailable,
		ExpiryTime: time.Now().Add(time.Hour),
	}, nil)

	_, err := svc.Claim(context.Background(), "staff-1", "post-1")
	assert.ErrorIs(t, err, models.ErrForbidden)
	repo.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimExpiredPost(t *testing.T) {
	repo := new(MockFoodRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "post-1").Return(&models.FoodPost{
		ID:         "post-1",
		PostedBy:   "staff-1",
		Status:     models.FoodStatusAvailable,
		ExpiryTime: time.Now().Add(-time.Minute),
	}, nil)

	_, err := svc.Claim(context.Background(), "ngo-1", "post-1")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestClaimAlreadyClaimedPost(t *testing.T) {
	repo := new(MockFoodRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "post-1").Return(&models.FoodPost{
		ID:         "post-1",
		PostedBy:   "staff-1",
		Status:     models.FoodStatusClaimed,
		ExpiryTime: time.Now().Add(time.Hour),
	}, nil)
	repo.On("Claim", mock.Anything, "post-1", "ngo-1").Return(models.ErrAlreadyClaimed)

	_, err := svc.Claim(context.Background(), "ngo-1", "post-1")
	assert.ErrorIs(t, err, models.ErrAlreadyClaimed)
}

func TestUpdateRequiresPosterOrAdmin(t *testing.T) {
	repo := new(MockFoodRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "post-1").Return(&models.FoodPost{
		ID:       "post-1",
		PostedBy: "staff-1",
		Status:   models.FoodStatusAvailable,
	}, nil)

	_, err := svc.Update(context.Background(), "staff-2", models.RoleMessStaff, "post-1", validInput())
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateClaimedPostConflict(t *testing.T) {
	repo := new(MockFoodRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "post-1").Return(&models.FoodPost{
		ID:       "post-1",
		PostedBy: "staff-1",
		Status:   models.FoodStatusClaimed,
	}, nil)

	_, err := svc.Update(context.Background(), "staff-1", models.RoleMessStaff, "post-1", validInput())
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestDeleteByAdmin(t *testing.T) {
	repo := new(MockFoodRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "post-1").Return(&models.FoodPost{
		ID:       "post-1",
		PostedBy: "staff-1",
	}, nil)
	repo.On("Delete", mock.Anything, "post-1").Return(nil)

	err := svc.Delete(context.Background(), "admin-1", models.RoleAdmin, "post-1")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
