package food

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/middleware"
	"github.com/greencampus/greencampus/internal/app/models"
	"github.com/greencampus/greencampus/internal/observability/metrics"
)

type MockFoodService struct {
	mock.Mock
}

func (m *MockFoodService) List(ctx context.Context, filter ListFilter) ([]models.FoodPost, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FoodPost), args.Error(1)
}

func (m *MockFoodService) Get(ctx context.Context, id string) (*models.FoodPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodPost), args.Error(1)
}

func (m *MockFoodService) Create(ctx context.Context, userID string, input CreateFoodInput) (*models.FoodPost, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodPost), args.Error(1)
}

func (m *MockFoodService) Update(ctx context.Context, userID string, role models.Role, id string, input CreateFoodInput) (*models.FoodPost, error) {
	args := m.Called(ctx, userID, role, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodPost), args.Error(1)
}

func (m *MockFoodService) Delete(ctx context.Context, userID string, role models.Role, id string) error {
	return m.Called(ctx, userID, role, id).Error(0)
}

func (m *MockFoodService) Claim(ctx context.Context, userID, id string) (*models.FoodPost, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FoodPost), args.Error(1)
}

const postID = "9a2f4d6e-1b3c-4e5f-8a7b-2c1d0e9f8a7b"

func newTestRouter(svc FoodService, userID string, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	metrics.InitAppMetrics()

	h := NewFoodHandler(svc, zap.NewNop())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UserRoleKey, role)
	})
	r.GET("/api/food", h.List)
	r.POST("/api/food", h.Create)
	r.DELETE("/api/food/:id", h.Delete)
	r.POST("/api/food/:id/claim", h.Claim)
	return r
}

func TestListFoodEndpoint(t *testing.T) {
	svc := new(MockFoodService)
	svc.On("List", mock.Anything, ListFilter{Status: "available"}).Return([]models.FoodPost{
		{ID: "post-1", FoodType: "Dal rice", Status: models.FoodStatusAvailable},
	}, nil)

	r := newTestRouter(svc, "ngo-1", models.RoleNGO)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/food?status=available", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var posts []models.FoodPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "post-1", posts[0].ID)
}

func TestCreateFoodEndpoint(t *testing.T) {
	svc := new(MockFoodService)
	svc.On("Create", mock.Anything, "staff-1", mock.Anything).Return(&models.FoodPost{
		ID:       "post-1",
		FoodType: "Dal rice",
		Status:   models.FoodStatusAvailable,
	}, nil)

	r := newTestRouter(svc, "staff-1", models.RoleMessStaff)
	body, _ := json.Marshal(gin.H{
		"food_type":   "Dal rice",
		"quantity":    20,
		"meals_saved": 20,
		"location":    "South mess",
		"expiry_time": time.Now().Add(3 * time.Hour).Format(time.RFC3339),
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/food", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateFoodEndpointMissingFields(t *testing.T) {
	svc := new(MockFoodService)
	r := newTestRouter(svc, "staff-1", models.RoleMessStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/food", bytes.NewBufferString(`{"quantity": 5}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", fmt.Errorf("post gone: %w", models.ErrNotFound), http.StatusNotFound},
		{"already claimed", fmt.Errorf("post: %w", models.ErrAlreadyClaimed), http.StatusConflict},
		{"own post", fmt.Errorf("own post: %w", models.ErrForbidden), http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockFoodService)
			svc.On("Claim", mock.Anything, "ngo-1", postID).Return(nil, tc.err)

			r := newTestRouter(svc, "ngo-1", models.RoleNGO)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/food/"+postID+"/claim", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestDeleteEndpoint(t *testing.T) {
	svc := new(MockFoodService)
	svc.On("Delete", mock.Anything, "staff-1", models.RoleMessStaff, postID).Return(nil)

	r := newTestRouter(svc, "staff-1", models.RoleMessStaff)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/food/"+postID, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestClaimEndpointMalformedID(t *testing.T) {
	svc := new(MockFoodService)
	r := newTestRouter(svc, "ngo-1", models.RoleNGO)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/food/not-a-uuid/claim", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything)
}
