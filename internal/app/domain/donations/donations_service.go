package donations

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/models"
	"github.com/greencampus/greencampus/internal/pkg/screening"
)

var _ DonationsService = (*DonationsServiceImpl)(nil)

// CreateDonationInput is the accepted shape for new donations.
type CreateDonationInput struct {
	ItemName    string
	Category    string
	Condition   string
	Quantity    int
	Description string
	Location    string
}

type DonationsService interface {
	List(ctx context.Context, filter ListFilter) ([]models.Donation, error)
	Create(ctx context.Context, userID string, input CreateDonationInput) (*models.Donation, error)
	Delete(ctx context.Context, userID string, role models.Role, id string) error
	Claim(ctx context.Context, userID, id string) (*models.Donation, error)
}

type DonationsServiceImpl struct {
	logger   *zap.Logger
	repo     DonationsRepo
	screener *screening.Screener
}

func NewDonationsService(repo DonationsRepo, screener *screening.Screener, logger *zap.Logger) *DonationsServiceImpl {
	return &DonationsServiceImpl{logger: logger, repo: repo, screener: screener}
}

func (s *DonationsServiceImpl) List(ctx context.Context, filter ListFilter) ([]models.Donation, error) {
	return s.repo.List(ctx, filter)
}

func (s *DonationsServiceImpl) Create(ctx context.Context, userID string, input CreateDonationInput) (*models.Donation, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("user_id", userID))

	input.ItemName = strings.TrimSpace(input.ItemName)
	input.Location = strings.TrimSpace(input.Location)
	input.Category = strings.TrimSpace(input.Category)
	input.Condition = strings.TrimSpace(input.Condition)
	input.Description = strings.TrimSpace(input.Description)

	if input.ItemName == "" {
		return nil, fmt.Errorf("item_name is required: %w", models.ErrValidation)
	}
	if input.Location == "" {
		return nil, fmt.Errorf("location is required: %w", models.ErrValidation)
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}
	if err := s.screener.Check(input.ItemName, input.Category, input.Location, input.Description); err != nil {
		return nil, err
	}

	donation := &models.Donation{
		ItemName:    input.ItemName,
		Category:    input.Category,
		Condition:   input.Condition,
		Quantity:    input.Quantity,
		Description: input.Description,
		Location:    input.Location,
		DonatedBy:   userID,
	}
	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, err
	}

	l.Info("Donation created", zap.String("donation_id", donation.ID))
	return donation, nil
}

func (s *DonationsServiceImpl) Delete(ctx context.Context, userID string, role models.Role, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.DonatedBy != userID && role != models.RoleAdmin {
		return fmt.Errorf("only the donor may delete this donation: %w", models.ErrForbidden)
	}
	if existing.Status == models.DonationStatusClaimed {
		return fmt.Errorf("claimed donations cannot be deleted: %w", models.ErrConflict)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Donation deleted", zap.String("donation_id", id))
	return nil
}

func (s *DonationsServiceImpl) Claim(ctx context.Context, userID, id string) (*models.Donation, error) {
	l := s.logger.With(zap.String("method", "Claim"), zap.String("donation_id", id), zap.String("user_id", userID))

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.DonatedBy == userID {
		return nil, fmt.Errorf("cannot claim your own donation: %w", models.ErrForbidden)
	}

	if err := s.repo.Claim(ctx, id, userID); err != nil {
		return nil, err
	}

	l.Info("Donation claimed")
	return s.repo.GetByID(ctx, id)
}
