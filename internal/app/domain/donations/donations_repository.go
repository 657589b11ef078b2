package donations

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/models"
)

var _ DonationsRepo = (*PostgresDonationsRepo)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type ListFilter struct {
	Status   string
	Category string
}

type DonationsRepo interface {
	List(ctx context.Context, filter ListFilter) ([]models.Donation, error)
	GetByID(ctx context.Context, id string) (*models.Donation, error)
	Create(ctx context.Context, donation *models.Donation) error
	Delete(ctx context.Context, id string) error
	Claim(ctx context.Context, id, userID string) error
}

type PostgresDonationsRepo struct {
	logger *zap.Logger
	db     DB
}

func NewPostgresDonationsRepo(db DB, logger *zap.Logger) *PostgresDonationsRepo {
	return &PostgresDonationsRepo{logger: logger, db: db}
}

const donationColumns = `id, item_name, COALESCE(category, ''), COALESCE(condition, ''),
	quantity, COALESCE(description, ''), location, status, donated_by, claimed_by, claimed_at, created_at`

func scanDonation(row pgx.Row) (*models.Donation, error) {
	var d models.Donation
	err := row.Scan(&d.ID, &d.ItemName, &d.Category, &d.Condition, &d.Quantity,
		&d.Description, &d.Location, &d.Status, &d.DonatedBy, &d.ClaimedBy,
		&d.ClaimedAt, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresDonationsRepo) List(ctx context.Context, filter ListFilter) ([]models.Donation, error) {
	qb := psql.Select(donationColumns).
		From("donations").
		OrderBy("created_at DESC")

	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Category != "" {
		qb = qb.Where(sq.Eq{"category": filter.Category})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build donation list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error listing donations", zap.Error(err))
		return nil, fmt.Errorf("database error listing donations: %w", err)
	}
	defer rows.Close()

	donations := make([]models.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, *d)
	}
	return donations, rows.Err()
}

func (r *PostgresDonationsRepo) GetByID(ctx context.Context, id string) (*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	d, err := scanDonation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("donation %s: %w", id, models.ErrNotFound)
		}
		r.logger.Error("Error fetching donation", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("database error fetching donation: %w", err)
	}
	return d, nil
}

func (r *PostgresDonationsRepo) Create(ctx context.Context, donation *models.Donation) error {
	query := `INSERT INTO donations (item_name, category, condition, quantity, description, location, donated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at`
	err := r.db.QueryRow(ctx, query, donation.ItemName, donation.Category, donation.Condition,
		donation.Quantity, donation.Description, donation.Location, donation.DonatedBy).
		Scan(&donation.ID, &donation.Status, &donation.CreatedAt)
	if err != nil {
		r.logger.Error("Error creating donation", zap.Error(err))
		return fmt.Errorf("database error creating donation: %w", err)
	}
	return nil
}

func (r *PostgresDonationsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM donations WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Error deleting donation", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("database error deleting donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("donation %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Claim is a conditional update so concurrent claims cannot both succeed.
func (r *PostgresDonationsRepo) Claim(ctx context.Context, id, userID string) error {
	query := `UPDATE donations
		SET status = $1, claimed_by = $2, claimed_at = NOW()
		WHERE id = $3 AND status = $4`
	tag, err := r.db.Exec(ctx, query, models.DonationStatusClaimed, userID, id, models.DonationStatusAvailable)
	if err != nil {
		r.logger.Error("Error claiming donation", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("database error claiming donation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("donation %s: %w", id, models.ErrAlreadyClaimed)
	}
	return nil
}
