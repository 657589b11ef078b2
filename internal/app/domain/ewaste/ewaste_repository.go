package ewaste

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

var _ EwasteRepo = (*PostgresEwasteRepo)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ListFilter narrows the e-waste listing.
type ListFilter struct {
	Status   string
	ItemType string
}

type EwasteRepo interface {
	List(ctx context.Context, filter ListFilter) ([]models.EwasteItem, error)
	GetByID(ctx context.Context, id string) (*models.EwasteItem, error)
	Create(ctx context.Context, item *models.EwasteItem) error
	Delete(ctx context.Context, id string) error
	Claim(ctx context.Context, id, userID string) error
}

type PostgresEwasteRepo struct {
	logger *zap.Logger
	db     DB
}

func NewPostgresEwasteRepo(db DB, logger *zap.Logger) *PostgresEwasteRepo {
	return &PostgresEwasteRepo{logger: logger, db: db}
}

const ewasteColumns = `id, item_type, quantity, COALESCE(condition, ''), location,
	COALESCE(description, ''), co2_saved_kg, status, posted_by, claimed_by, claimed_at, created_at`

func scanEwasteItem(row pgx.Row) (*models.EwasteItem, error) {
	var item models.EwasteItem
	err := row.Scan(&item.ID, &item.ItemType, &item.Quantity, &item.Condition,
		&item.Location, &item.Description, &item.CO2SavedKG, &item.Status,
		&item.PostedBy, &item.ClaimedBy, &item.ClaimedAt, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresEwasteRepo) List(ctx context.Context, filter ListFilter) ([]models.EwasteItem, error) {
	qb := psql.Select(ewasteColumns).
		From("ewaste_items").
		OrderBy("created_at DESC")

	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"status": filter.Status})
	}
	if filter.ItemType != "" {
		qb = qb.Where(sq.Eq{"item_type": filter.ItemType})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ewaste list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error listing ewaste items", zap.Error(err))
		return nil, fmt.Errorf("database error listing ewaste items: %w", err)
	}
	defer rows.Close()

	items := make([]models.EwasteItem, 0)
	for rows.Next() {
		item, err := scanEwasteItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ewaste item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresEwasteRepo) GetByID(ctx context.Context, id string) (*models.EwasteItem, error) {
	query := `SELECT ` + ewasteColumns + ` FROM ewaste_items WHERE id = $1`
	item, err := scanEwasteItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ewaste item %s: %w", id, models.ErrNotFound)
		}
		r.logger.Error("Error fetching ewaste item", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("database error fetching ewaste item: %w", err)
	}
	return item, nil
}

func (r *PostgresEwasteRepo) Create(ctx context.Context, item *models.EwasteItem) error {
	query := `INSERT INTO ewaste_items (item_type, quantity, condition, location, description, co2_saved_kg, posted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at`
	err := r.db.QueryRow(ctx, query, item.ItemType, item.Quantity, item.Condition,
		item.Location, item.Description, item.CO2SavedKG, item.PostedBy).
		Scan(&item.ID, &item.Status, &item.CreatedAt)
	if err != nil {
		r.logger.Error("Error creating ewaste item", zap.Error(err))
		return fmt.Errorf("database error creating ewaste item: %w", err)
	}
	return nil
}

func (r *PostgresEwasteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ewaste_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Error deleting ewaste item", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("database error deleting ewaste item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ewaste item %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Claim is a conditional update so concurrent claims cannot both succeed.
func (r *PostgresEwasteRepo) Claim(ctx context.Context, id, userID string) error {
	query := `UPDATE ewaste_items
		SET status = $1, claimed_by = $2, claimed_at = NOW()
		WHERE id = $3 AND status = $4`
	tag, err := r.db.Exec(ctx, query, models.EwasteStatusClaimed, userID, id, models.EwasteStatusAvailable)
	if err != nil {
		r.logger.Error("Error claiming ewaste item", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("database error claiming ewaste item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("ewaste item %s: %w", id, models.ErrAlreadyClaimed)
	}
	return nil
}
