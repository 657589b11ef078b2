package volunteers

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

var _ VolunteersRepo = (*PostgresVolunteersRepo)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DB is the pool subset the repository needs, including transactions for
// event completion.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type ListFilter struct {
	Status string
}

type VolunteersRepo interface {
	List(ctx context.Context, filter ListFilter) ([]models.VolunteerEvent, error)
	GetByID(ctx context.Context, id string) (*models.VolunteerEvent, error)
	Create(ctx context.Context, event *models.VolunteerEvent) error
	Delete(ctx context.Context, id string) error
	Register(ctx context.Context, eventID, userID string) error
	// Complete marks the event and its registrations completed and credits
	// every registered volunteer with points, all in one transaction.
	// Returns the number of volunteers credited.
	Complete(ctx context.Context, eventID string, pointsReward int) (int64, error)
	Leaderboard(ctx context.Context, limit uint64) ([]models.LeaderboardEntry, error)
}

type PostgresVolunteersRepo struct {
	logger *zap.Logger
	db     DB
}

func NewPostgresVolunteersRepo(db DB, logger *zap.Logger) *PostgresVolunteersRepo {
	return &PostgresVolunteersRepo{logger: logger, db: db}
}

const eventColumns = `e.id, e.title, COALESCE(e.event_type, ''), COALESCE(e.description, ''),
	e.location, e.event_date, e.duration_hours, e.max_volunteers, e.points_reward,
	e.status, e.created_by,
	(SELECT COUNT(*) FROM event_registrations r WHERE r.event_id = e.id) AS registered_count`

func scanEvent(row pgx.Row) (*models.VolunteerEvent, error) {
	var ev models.VolunteerEvent
	err := row.Scan(&ev.ID, &ev.Title, &ev.EventType, &ev.Description,
		&ev.Location, &ev.EventDate, &ev.DurationHours, &ev.MaxVolunteers,
		&ev.PointsReward, &ev.Status, &ev.CreatedBy, &ev.RegisteredCount)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *PostgresVolunteersRepo) List(ctx context.Context, filter ListFilter) ([]models.VolunteerEvent, error) {
	qb := psql.Select(eventColumns).
		From("volunteer_events e").
		OrderBy("e.event_date ASC")

	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"e.status": filter.Status})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build event list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error listing volunteer events", zap.Error(err))
		return nil, fmt.Errorf("database error listing events: %w", err)
	}
	defer rows.Close()

	events := make([]models.VolunteerEvent, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

func (r *PostgresVolunteersRepo) GetByID(ctx context.Context, id string) (*models.VolunteerEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM volunteer_events e WHERE e.id = $1`
	ev, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", id, models.ErrNotFound)
		}
		r.logger.Error("Error fetching event", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("database error fetching event: %w", err)
	}
	return ev, nil
}

func (r *PostgresVolunteersRepo) Create(ctx context.Context, event *models.VolunteerEvent) error {
	query := `INSERT INTO volunteer_events (title, event_type, description, location, event_date, duration_hours, max_volunteers, points_reward, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, status`
	err := r.db.QueryRow(ctx, query, event.Title, event.EventType, event.Description,
		event.Location, event.EventDate, event.DurationHours, event.MaxVolunteers,
		event.PointsReward, event.CreatedBy).
		Scan(&event.ID, &event.Status)
	if err != nil {
		r.logger.Error("Error creating event", zap.Error(err))
		return fmt.Errorf("database error creating event: %w", err)
	}
	return nil
}

func (r *PostgresVolunteersRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM volunteer_events WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Error deleting event", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("database error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Register inserts the registration only while the event still has capacity;
// max_volunteers = 0 means unlimited. The event row is locked for the duration
// of the transaction so two registrations racing for the last slot serialize
// instead of both passing the capacity check.
func (r *PostgresVolunteersRepo) Register(ctx context.Context, eventID, userID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var maxVolunteers int
	err = tx.QueryRow(ctx,
		`SELECT max_volunteers FROM volunteer_events WHERE id = $1 FOR UPDATE`,
		eventID).Scan(&maxVolunteers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("event %s: %w", eventID, models.ErrNotFound)
		}
		r.logger.Error("Error locking event for registration", zap.Error(err), zap.String("event_id", eventID))
		return fmt.Errorf("database error registering for event: %w", err)
	}

	if maxVolunteers > 0 {
		var registered int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1`,
			eventID).Scan(&registered)
		if err != nil {
			return fmt.Errorf("database error registering for event: %w", err)
		}
		if registered >= maxVolunteers {
			return fmt.Errorf("event %s: %w", eventID, models.ErrEventFull)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO event_registrations (event_id, user_id) VALUES ($1, $2)`,
		eventID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("already registered for this event: %w", models.ErrConflict)
		}
		r.logger.Error("Error registering for event", zap.Error(err), zap.String("event_id", eventID))
		return fmt.Errorf("database error registering for event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

func (r *PostgresVolunteersRepo) Complete(ctx context.Context, eventID string, pointsReward int) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE volunteer_events SET status = $1 WHERE id = $2 AND status = $3`,
		models.EventStatusCompleted, eventID, models.EventStatusUpcoming)
	if err != nil {
		return 0, fmt.Errorf("database error completing event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("event %s is not upcoming: %w", eventID, models.ErrConflict)
	}

	tag, err = tx.Exec(ctx,
		`UPDATE users SET volunteer_points = volunteer_points + $1, updated_at = NOW()
		 WHERE id IN (SELECT user_id FROM event_registrations WHERE event_id = $2 AND status = $3)`,
		pointsReward, eventID, models.RegistrationStatusRegistered)
	if err != nil {
		return 0, fmt.Errorf("database error awarding points: %w", err)
	}
	credited := tag.RowsAffected()

	_, err = tx.Exec(ctx,
		`UPDATE event_registrations SET status = $1, completed_at = NOW()
		 WHERE event_id = $2 AND status = $3`,
		models.RegistrationStatusCompleted, eventID, models.RegistrationStatusRegistered)
	if err != nil {
		return 0, fmt.Errorf("database error completing registrations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit completion: %w", err)
	}
	return credited, nil
}

func (r *PostgresVolunteersRepo) Leaderboard(ctx context.Context, limit uint64) ([]models.LeaderboardEntry, error) {
	query, args, err := psql.Select("id", "full_name", "role", "volunteer_points").
		From("users").
		Where(sq.Eq{"is_active": true, "role": models.RoleStudent}).
		OrderBy("volunteer_points DESC", "full_name ASC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error querying leaderboard", zap.Error(err))
		return nil, fmt.Errorf("database error querying leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0)
	rank := 0
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.FullName, &e.Role, &e.VolunteerPoints); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		rank++
		e.Rank = rank
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
