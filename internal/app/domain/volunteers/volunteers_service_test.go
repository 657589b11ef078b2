package volunteers

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

type MockVolunteersRepo struct {
	mock.Mock
}

func (m *MockVolunteersRepo) List(ctx context.Context, filter ListFilter) ([]models.VolunteerEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VolunteerEvent), args.Error(1)
}

func (m *MockVolunteersRepo) GetByID(ctx context.Context, id string) (*models.VolunteerEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VolunteerEvent), args.Error(1)
}

func (m *MockVolunteersRepo) Create(ctx context.Context, event *models.VolunteerEvent) error {
	args := m.Called(ctx, event)
	event.ID = "event-1"
	event.Status = models.EventStatusUpcoming
	return args.Error(0)
}

func (m *MockVolunteersRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVolunteersRepo) Register(ctx context.Context, eventID, userID string) error {
	return m.Called(ctx, eventID, userID).Error(0)
}

func (m *MockVolunteersRepo) Complete(ctx context.Context, eventID string, pointsReward int) (int64, error) {
	args := m.Called(ctx, eventID, pointsReward)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVolunteersRepo) Leaderboard(ctx context.Context, limit uint64) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func newTestService(repo VolunteersRepo) *VolunteersServiceImpl {
	return NewVolunteersService(repo, screening.NewScreener(nil), zap.NewNop())
}

func upcomingEvent(organizer string) *models.VolunteerEvent {
	return &models.VolunteerEvent{
		ID:           "event-1",
		Title:        "Campus lake cleanup",
		Status:       models.EventStatusUpcoming,
		CreatedBy:    organizer,
		PointsReward: 50,
		EventDate:    time.Now().Add(48 * time.Hour),
	}
}

func TestCreateEventValidation(t *testing.T) {
	repo := new(MockVolunteersRepo)
	svc := newTestService(repo)

	valid := CreateEventInput{
		Title:         "Campus lake cleanup",
		Location:      "Lake shore",
		EventDate:     time.Now().Add(48 * time.Hour),
		DurationHours: 3,
		MaxVolunteers: 30,
		PointsReward:  50,
	}

	tests := []struct {
		name   string
		mutate func(*CreateEventInput)
	}{
		{"missing title", func(in *CreateEventInput) { in.Title = "" }},
		{"missing location", func(in *CreateEventInput) { in.Location = "  " }},
		{"date in the past", func(in *CreateEventInput) { in.EventDate = time.Now().Add(-time.Hour) }},
		{"zero duration", func(in *CreateEventInput) { in.DurationHours = 0 }},
		{"negative capacity", func(in *CreateEventInput) { in.MaxVolunteers = -1 }},
		{"negative reward", func(in *CreateEventInput) { in.PointsReward = -10 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), "ngo-1", in)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterClosedEvent(t *testing.T) {
	repo := new(MockVolunteersRepo)
	svc := newTestService(repo)

	ev := upcomingEvent("ngo-1")
	ev.Status = models.EventStatusCompleted
	repo.On("GetByID", mock.Anything, "event-1").Return(ev, nil)

	_, err := svc.Register(context.Background(), "student-1", "event-1")
	assert.ErrorIs(t, err, models.ErrConflict)
	repo.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterFullEvent(t *testing.T) {
	repo := new(MockVolunteersRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "event-1").Return(upcomingEvent("ngo-1"), nil)
	repo.On("Register", mock.Anything, "event-1", "student-1").Return(models.ErrEventFull)

	_, err := svc.Register(context.Background(), "student-1", "event-1")
	assert.ErrorIs(t, err, models.ErrEventFull)
}

func TestRegisterTwiceConflict(t *testing.T) {
	repo := new(MockVolunteersRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "event-1").Return(upcomingEvent("ngo-1"), nil)
	repo.On("Register", mock.Anything, "event-1", "student-1").Return(models.ErrConflict)

	_, err := svc.Register(context.Background(), "student-1", "event-1")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestCompleteRequiresOrganizer(t *testing.T) {
	repo := new(MockVolunteersRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "event-1").Return(upcomingEvent("ngo-1"), nil)

	_, _, err := svc.Complete(context.Background(), "ngo-2", models.RoleNGO, "event-1")
	assert.ErrorIs(t, err, models.ErrForbidden)
	repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteCreditsVolunteers(t *testing.T) {
	repo := new(MockVolunteersRepo)
	svc := newTestService(repo)

	ev := upcomingEvent("ngo-1")
	completed := *ev
	completed.Status = models.EventStatusCompleted

	repo.On("GetByID", mock.Anything, "event-1").Return(ev, nil).Once()
	repo.On("Complete", mock.Anything, "event-1", 50).Return(int64(12), nil)
	repo.On("GetByID", mock.Anything, "event-1").Return(&completed, nil)

	updated, credited, err := svc.Complete(context.Background(), "ngo-1", models.RoleNGO, "event-1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), credited)
	assert.Equal(t, models.EventStatusCompleted, updated.Status)
	repo.AssertExpectations(t)
}

func TestCompleteByAdmin(t *testing.T) {
	repo := new(MockVolunteersRepo)
	svc := newTestService(repo)

	ev := upcomingEvent("ngo-1")
	repo.On("GetByID", mock.Anything, "event-1").Return(ev, nil)
	repo.On("Complete", mock.Anything, "event-1", 50).Return(int64(3), nil)

	_, credited, err := svc.Complete(context.Background(), "admin-1", models.RoleAdmin, "event-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), credited)
}

func TestLeaderboardLimitClamping(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		expected  uint64
	}{
		{"zero falls back to default", 0, 20},
		{"negative falls back to default", -5, 20},
		{"over cap falls back to default", 500, 20},
		{"in range passes through", 7, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockVolunteersRepo)
			svc := newTestService(repo)
			repo.On("Leaderboard", mock.Anything, tc.expected).Return([]models.LeaderboardEntry{}, nil)

			_, err := svc.Leaderboard(context.Background(), tc.requested)
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}
