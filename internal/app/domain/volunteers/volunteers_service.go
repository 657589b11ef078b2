package volunteers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/models"
	"github.com/greencampus/greencampus/internal/pkg/screening"
)

var _ VolunteersService = (*VolunteersServiceImpl)(nil)

const defaultLeaderboardLimit = 20

// CreateEventInput is the accepted shape for new volunteer events.
type CreateEventInput struct {
	Title         string
	EventType     string
	Description   string
	Location      string
	EventDate     time.Time
	DurationHours int
	MaxVolunteers int
	PointsReward  int
}

type VolunteersService interface {
	List(ctx context.Context, filter ListFilter) ([]models.VolunteerEvent, error)
	Create(ctx context.Context, userID string, input CreateEventInput) (*models.VolunteerEvent, error)
	Delete(ctx context.Context, userID string, role models.Role, id string) error
	Register(ctx context.Context, userID, eventID string) (*models.VolunteerEvent, error)
	// Complete marks the event done and credits every registered volunteer.
	// Returns the updated event and the number of volunteers credited.
	Complete(ctx context.Context, userID string, role models.Role, eventID string) (*models.VolunteerEvent, int64, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type VolunteersServiceImpl struct {
	logger   *zap.Logger
	repo     VolunteersRepo
	screener *screening.Screener
}

func NewVolunteersService(repo VolunteersRepo, screener *screening.Screener, logger *zap.Logger) *VolunteersServiceImpl {
	return &VolunteersServiceImpl{logger: logger, repo: repo, screener: screener}
}

func (s *VolunteersServiceImpl) List(ctx context.Context, filter ListFilter) ([]models.VolunteerEvent, error) {
	return s.repo.List(ctx, filter)
}

func (s *VolunteersServiceImpl) Create(ctx context.Context, userID string, input CreateEventInput) (*models.VolunteerEvent, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("user_id", userID))

	input.Title = strings.TrimSpace(input.Title)
	input.Location = strings.TrimSpace(input.Location)
	input.Description = strings.TrimSpace(input.Description)

	if input.Title == "" {
		return nil, fmt.Errorf("title is required: %w", models.ErrValidation)
	}
	if input.Location == "" {
		return nil, fmt.Errorf("location is required: %w", models.ErrValidation)
	}
	if input.EventDate.Before(time.Now()) {
		return nil, fmt.Errorf("event_date must be in the future: %w", models.ErrValidation)
	}
	if input.DurationHours <= 0 {
		return nil, fmt.Errorf("duration_hours must be positive: %w", models.ErrValidation)
	}
	if input.MaxVolunteers < 0 {
		return nil, fmt.Errorf("max_volunteers cannot be negative: %w", models.ErrValidation)
	}
	if input.PointsReward < 0 {
		return nil, fmt.Errorf("points_reward cannot be negative: %w", models.ErrValidation)
	}
	if err := s.screener.Check(input.Title, input.Location, input.Description); err != nil {
		return nil, err
	}

	event := &models.VolunteerEvent{
		Title:         input.Title,
		EventType:     input.EventType,
		Description:   input.Description,
		Location:      input.Location,
		EventDate:     input.EventDate,
		DurationHours: input.DurationHours,
		MaxVolunteers: input.MaxVolunteers,
		PointsReward:  input.PointsReward,
		CreatedBy:     userID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	l.Info("Volunteer event created", zap.String("event_id", event.ID), zap.Int("points_reward", event.PointsReward))
	return event, nil
}

func (s *VolunteersServiceImpl) Delete(ctx context.Context, userID string, role models.Role, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.CreatedBy != userID && role != models.RoleAdmin {
		return fmt.Errorf("only the organizer may delete this event: %w", models.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Volunteer event deleted", zap.String("event_id", id))
	return nil
}

func (s *VolunteersServiceImpl) Register(ctx context.Context, userID, eventID string) (*models.VolunteerEvent, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("event_id", eventID), zap.String("user_id", userID))

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusUpcoming {
		return nil, fmt.Errorf("registration is closed for this event: %w", models.ErrConflict)
	}

	if err := s.repo.Register(ctx, eventID, userID); err != nil {
		return nil, err
	}

	l.Info("Volunteer registered")
	return s.repo.GetByID(ctx, eventID)
}

func (s *VolunteersServiceImpl) Complete(ctx context.Context, userID string, role models.Role, eventID string) (*models.VolunteerEvent, int64, error) {
	l := s.logger.With(zap.String("method", "Complete"), zap.String("event_id", eventID))

	ctx, span := otel.Tracer("VolunteersService").Start(ctx, "VolunteersService.Complete", trace.WithAttributes(
		attribute.String("event_id", eventID),
	))
	defer span.End()

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, 0, err
	}
	if event.CreatedBy != userID && role != models.RoleAdmin {
		return nil, 0, fmt.Errorf("only the organizer may complete this event: %w", models.ErrForbidden)
	}

	credited, err := s.repo.Complete(ctx, eventID, event.PointsReward)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion failed")
		return nil, 0, err
	}

	l.Info("Volunteer event completed",
		zap.Int64("volunteers_credited", credited),
		zap.Int("points_each", event.PointsReward))
	span.SetStatus(codes.Ok, "Completed")

	updated, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, credited, err
	}
	return updated, credited, nil
}

func (s *VolunteersServiceImpl) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultLeaderboardLimit
	}
	return s.repo.Leaderboard(ctx, uint64(limit))
}
