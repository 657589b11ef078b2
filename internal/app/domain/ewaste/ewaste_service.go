package ewaste

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/models"
	"github.com/greencampus/greencampus/internal/pkg/screening"
)

var _ EwasteService = (*EwasteServiceImpl)(nil)

// CreateEwasteInput is the accepted shape for new e-waste listings. The CO2
// figure is always computed server-side from the item type; client-supplied
// values are ignored.
type CreateEwasteInput struct {
	ItemType    string
	Quantity    int
	Condition   string
	Location    string
	Description string
}

type EwasteService interface {
	List(ctx context.Context, filter ListFilter) ([]models.EwasteItem, error)
	Create(ctx context.Context, userID string, input CreateEwasteInput) (*models.EwasteItem, error)
	Delete(ctx context.Context, userID string, role models.Role, id string) error
	Claim(ctx context.Context, userID, id string) (*models.EwasteItem, error)
}

type EwasteServiceImpl struct {
	logger   *zap.Logger
	repo     EwasteRepo
	screener *screening.Screener
}

func NewEwasteService(repo EwasteRepo, screener *screening.Screener, logger *zap.Logger) *EwasteServiceImpl {
	return &EwasteServiceImpl{logger: logger, repo: repo, screener: screener}
}

func (s *EwasteServiceImpl) List(ctx context.Context, filter ListFilter) ([]models.EwasteItem, error) {
	return s.repo.List(ctx, filter)
}

func (s *EwasteServiceImpl) Create(ctx context.Context, userID string, input CreateEwasteInput) (*models.EwasteItem, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("user_id", userID))

	ctx, span := otel.Tracer("EwasteService").Start(ctx, "EwasteService.Create", trace.WithAttributes(
		attribute.String("item_type", input.ItemType),
	))
	defer span.End()

	input.ItemType = strings.ToLower(strings.TrimSpace(input.ItemType))
	input.Location = strings.TrimSpace(input.Location)
	input.Condition = strings.TrimSpace(input.Condition)
	input.Description = strings.TrimSpace(input.Description)

	if _, ok := models.CO2SavedPerItem[input.ItemType]; !ok {
		return nil, fmt.Errorf("item_type must be one of mobile, laptop, tablet, charger, other: %w", models.ErrValidation)
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", models.ErrValidation)
	}
	if input.Location == "" {
		return nil, fmt.Errorf("location is required: %w", models.ErrValidation)
	}
	if err := s.screener.Check(input.Location, input.Condition, input.Description); err != nil {
		return nil, err
	}

	item := &models.EwasteItem{
		ItemType:    input.ItemType,
		Quantity:    input.Quantity,
		Condition:   input.Condition,
		Location:    input.Location,
		Description: input.Description,
		CO2SavedKG:  models.CO2ForEwaste(input.ItemType, input.Quantity),
		PostedBy:    userID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		return nil, err
	}

	l.Info("Ewaste item created",
		zap.String("item_id", item.ID),
		zap.Float64("co2_saved_kg", item.CO2SavedKG))
	span.SetStatus(codes.Ok, "Created")
	return item, nil
}

func (s *EwasteServiceImpl) Delete(ctx context.Context, userID string, role models.Role, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.PostedBy != userID && role != models.RoleAdmin {
		return fmt.Errorf("only the poster may delete this item: %w", models.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Ewaste item deleted", zap.String("item_id", id), zap.String("user_id", userID))
	return nil
}

func (s *EwasteServiceImpl) Claim(ctx context.Context, userID, id string) (*models.EwasteItem, error) {
	l := s.logger.With(zap.String("method", "Claim"), zap.String("item_id", id), zap.String("user_id", userID))

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.PostedBy == userID {
		return nil, fmt.Errorf("cannot claim your own item: %w", models.ErrForbidden)
	}

	if err := s.repo.Claim(ctx, id, userID); err != nil {
		return nil, err
	}

	l.Info("Ewaste item claimed")
	return s.repo.GetByID(ctx, id)
}
