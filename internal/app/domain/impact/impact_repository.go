package impact

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/greencampus/greencampus/internal/app/models"
)

var _ ImpactRepo = (*PostgresImpactRepo)(nil)

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type ImpactRepo interface {
	FoodTotals(ctx context.Context) (mealsSaved, posts int, err error)
	EwasteTotals(ctx context.Context) (items int, co2SavedKG float64, err error)
	DonationCount(ctx context.Context) (int, error)
	VolunteerTotals(ctx context.Context) (activeVolunteers int, pointsAwarded int, err error)
	GlobalStats(ctx context.Context) ([]models.GlobalStat, error)
}

type PostgresImpactRepo struct {
	logger *zap.Logger
	db     DB
}

func NewPostgresImpactRepo(db DB, logger *zap.Logger) *PostgresImpactRepo {
	return &PostgresImpactRepo{logger: logger, db: db}
}

// FoodTotals counts meals only for posts that were actually claimed.
func (r *PostgresImpactRepo) FoodTotals(ctx context.Context) (int, int, error) {
	query := `SELECT
		COALESCE(SUM(meals_saved) FILTER (WHERE status = $1), 0),
		COUNT(*)
		FROM food_posts`
	var meals, posts int
	if err := r.db.QueryRow(ctx, query, models.FoodStatusClaimed).Scan(&meals, &posts); err != nil {
		return 0, 0, fmt.Errorf("database error aggregating food posts: %w", err)
	}
	return meals, posts, nil
}

func (r *PostgresImpactRepo) EwasteTotals(ctx context.Context) (int, float64, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(co2_saved_kg), 0) FROM ewaste_items`
	var items int
	var co2 float64
	if err := r.db.QueryRow(ctx, query).Scan(&items, &co2); err != nil {
		return 0, 0, fmt.Errorf("database error aggregating ewaste items: %w", err)
	}
	return items, co2, nil
}

func (r *PostgresImpactRepo) DonationCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM donations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("database error counting donations: %w", err)
	}
	return count, nil
}

func (r *PostgresImpactRepo) VolunteerTotals(ctx context.Context) (int, int, error) {
	query := `SELECT
		(SELECT COUNT(DISTINCT user_id) FROM event_registrations),
		(SELECT COALESCE(SUM(volunteer_points), 0) FROM users)`
	var volunteers, points int
	if err := r.db.QueryRow(ctx, query).Scan(&volunteers, &points); err != nil {
		return 0, 0, fmt.Errorf("database error aggregating volunteers: %w", err)
	}
	return volunteers, points, nil
}

func (r *PostgresImpactRepo) GlobalStats(ctx context.Context) ([]models.GlobalStat, error) {
	query := `SELECT data_type, value, COALESCE(unit, ''), COALESCE(source, ''), updated_at
		FROM global_stats ORDER BY data_type`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Error listing global stats", zap.Error(err))
		return nil, fmt.Errorf("database error listing global stats: %w", err)
	}
	defer rows.Close()

	stats := make([]models.GlobalStat, 0)
	for rows.Next() {
		var s models.GlobalStat
		var updatedAt time.Time
		if err := rows.Scan(&s.DataType, &s.Value, &s.Unit, &s.Source, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan global stat: %w", err)
		}
		s.UpdatedAt = updatedAt
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
