package food

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

var _ FoodService = (*FoodServiceImpl)(nil)

// CreateFoodInput is the accepted shape for new surplus food posts.
type CreateFoodInput struct {
	FoodType    string
	Quantity    int
	MealsSaved  int
	Location    string
	Description string
	ExpiryTime  time.Time
}

type FoodService interface {
	List(ctx context.Context, filter ListFilter) ([]models.FoodPost, error)
	Get(ctx context.Context, id string) (*models.FoodPost, error)
	Create(ctx context.Context, userID string, input CreateFoodInput) (*models.FoodPost, error)
	Update(ctx context.Context, userID string, role models.Role, id string, input CreateFoodInput) (*models.FoodPost, error)
	Delete(ctx context.Context, userID string, role models.Role, id string) error
	Claim(ctx context.Context, userID, id string) (*models.FoodPost, error)
}

type FoodServiceImpl struct {
	logger   *zap.Logger
	repo     FoodRepo
	screener *screening.Screener
}

func NewFoodService(repo FoodRepo, screener *screening.Screener, logger *zap.Logger) *FoodServiceImpl {
	return &FoodServiceImpl{logger: logger, repo: repo, screener: screener}
}

func (s *FoodServiceImpl) List(ctx context.Context, filter ListFilter) ([]models.FoodPost, error) {
	return s.repo.List(ctx, filter)
}

func (s *FoodServiceImpl) Get(ctx context.Context, id string) (*models.FoodPost, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FoodServiceImpl) Create(ctx context.Context, userID string, input CreateFoodInput) (*models.FoodPost, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("user_id", userID))

	ctx, span := otel.Tracer("FoodService").Start(ctx, "FoodService.Create", trace.WithAttributes(
		attribute.String("food_type", input.FoodType),
	))
	defer span.End()

	if err := s.validate(&input); err != nil {
		return nil, err
	}

	post := &models.FoodPost{
		FoodType:    input.FoodType,
		Quantity:    input.Quantity,
		MealsSaved:  input.MealsSaved,
		Location:    input.Location,
		Description: input.Description,
		ExpiryTime:  input.ExpiryTime,
		PostedBy:    userID,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		return nil, err
	}

	l.Info("Food post created", zap.String("post_id", post.ID), zap.Int("meals_saved", post.MealsSaved))
	span.SetStatus(codes.Ok, "Created")
	return s.repo.GetByID(ctx, post.ID)
}

func (s *FoodServiceImpl) Update(ctx context.Context, userID string, role models.Role, id string, input CreateFoodInput) (*models.FoodPost, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.String("post_id", id))

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.PostedBy != userID && role != models.RoleAdmin {
		return nil, fmt.Errorf("only the poster may edit this post: %w", models.ErrForbidden)
	}
	if existing.Status == models.FoodStatusClaimed {
		return nil, fmt.Errorf("claimed posts cannot be edited: %w", models.ErrConflict)
	}

	if err := s.validate(&input); err != nil {
		return nil, err
	}

	existing.FoodType = input.FoodType
	existing.Quantity = input.Quantity
	existing.MealsSaved = input.MealsSaved
	existing.Location = input.Location
	existing.Description = input.Description
	existing.ExpiryTime = input.ExpiryTime
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	l.Info("Food post updated")
	return s.repo.GetByID(ctx, id)
}

func (s *FoodServiceImpl) Delete(ctx context.Context, userID string, role models.Role, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.PostedBy != userID && role != models.RoleAdmin {
		return fmt.Errorf("only the poster may delete this post: %w", models.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Food post deleted", zap.String("post_id", id), zap.String("user_id", userID))
	return nil
}

func (s *FoodServiceImpl) Claim(ctx context.Context, userID, id string) (*models.FoodPost, error) {
	l := s.logger.With(zap.String("method", "Claim"), zap.String("post_id", id), zap.String("user_id", userID))

	ctx, span := otel.Tracer("FoodService").Start(ctx, "FoodService.Claim")
	defer span.End()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.PostedBy == userID {
		return nil, fmt.Errorf("cannot claim your own post: %w", models.ErrForbidden)
	}
	if time.Now().After(existing.ExpiryTime) {
		return nil, fmt.Errorf("post has expired: %w", models.ErrConflict)
	}

	if err := s.repo.Claim(ctx, id, userID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	l.Info("Food post claimed")
	span.SetStatus(codes.Ok, "Claimed")
	return s.repo.GetByID(ctx, id)
}

func (s *FoodServiceImpl) validate(input *CreateFoodInput) error {
	input.FoodType = strings.TrimSpace(input.FoodType)
	input.Location = strings.TrimSpace(input.Location)
	input.Description = strings.TrimSpace(input.Description)

	if input.FoodType == "" {
		return fmt.Errorf("food_type is required: %w", models.ErrValidation)
	}
	if input.Location == "" {
		return fmt.Errorf("location is required: %w", models.ErrValidation)
	}
	if input.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", models.ErrValidation)
	}
	if input.MealsSaved < 0 {
		return fmt.Errorf("meals_saved cannot be negative: %w", models.ErrValidation)
	}
	if input.ExpiryTime.Before(time.Now()) {
		return fmt.Errorf("expiry_time must be in the future: %w", models.ErrValidation)
	}
	return s.screener.Check(input.FoodType, input.Location, input.Description)
}
