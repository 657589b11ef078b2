package food

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

var _ FoodRepo = (*PostgresFoodRepo)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DB is the subset of pgxpool.Pool the repository needs. Narrowed so tests
// can drive it with pgxmock.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ListFilter narrows the food post listing.
type ListFilter struct {
	Status   string
	FoodType string
	Location string
}

type FoodRepo interface {
	List(ctx context.Context, filter ListFilter) ([]models.FoodPost, error)
	GetByID(ctx context.Context, id string) (*models.FoodPost, error)
	Create(ctx context.Context, post *models.FoodPost) error
	Update(ctx context.Context, post *models.FoodPost) error
	Delete(ctx context.Context, id string) error
	Claim(ctx context.Context, id, userID string) error
}

type PostgresFoodRepo struct {
	logger *zap.Logger
	db     DB
}

func NewPostgresFoodRepo(db DB, logger *zap.Logger) *PostgresFoodRepo {
	return &PostgresFoodRepo{logger: logger, db: db}
}

const foodColumns = `f.id, f.food_type, f.quantity, f.meals_saved, f.location,
	COALESCE(f.description, ''), f.expiry_time, f.status,
	f.posted_by, p.full_name, f.claimed_by, COALESCE(c.full_name, ''),
	f.claimed_at, f.created_at`

func scanFoodPost(row pgx.Row) (*models.FoodPost, error) {
	var post models.FoodPost
	err := row.Scan(&post.ID, &post.FoodType, &post.Quantity, &post.MealsSaved,
		&post.Location, &post.Description, &post.ExpiryTime, &post.Status,
		&post.PostedBy, &post.PostedByName, &post.ClaimedBy, &post.ClaimedByName,
		&post.ClaimedAt, &post.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostgresFoodRepo) List(ctx context.Context, filter ListFilter) ([]models.FoodPost, error) {
	qb := psql.Select(foodColumns).
		From("food_posts f").
		Join("users p ON p.id = f.posted_by").
		LeftJoin("users c ON c.id = f.claimed_by").
		OrderBy("f.created_at DESC")

	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"f.status": filter.Status})
	}
	if filter.FoodType != "" {
		qb = qb.Where(sq.Eq{"f.food_type": filter.FoodType})
	}
	if filter.Location != "" {
		qb = qb.Where(sq.ILike{"f.location": "%" + filter.Location + "%"})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build food list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error listing food posts", zap.Error(err))
		return nil, fmt.Errorf("database error listing food posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.FoodPost, 0)
	for rows.Next() {
		post, err := scanFoodPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food post: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *PostgresFoodRepo) GetByID(ctx context.Context, id string) (*models.FoodPost, error) {
	query := `SELECT ` + foodColumns + `
		FROM food_posts f
		JOIN users p ON p.id = f.posted_by
		LEFT JOIN users c ON c.id = f.claimed_by
		WHERE f.id = $1`
	post, err := scanFoodPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("food post %s: %w", id, models.ErrNotFound)
		}
		r.logger.Error("Error fetching food post", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("database error fetching food post: %w", err)
	}
	return post, nil
}

func (r *PostgresFoodRepo) Create(ctx context.Context, post *models.FoodPost) error {
	query := `INSERT INTO food_posts (food_type, quantity, meals_saved, location, description, expiry_time, posted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at`
	err := r.db.QueryRow(ctx, query, post.FoodType, post.Quantity, post.MealsSaved,
		post.Location, post.Description, post.ExpiryTime, post.PostedBy).
		Scan(&post.ID, &post.Status, &post.CreatedAt)
	if err != nil {
		r.logger.Error("Error creating food post", zap.Error(err))
		return fmt.Errorf("database error creating food post: %w", err)
	}
	return nil
}

func (r *PostgresFoodRepo) Update(ctx context.Context, post *models.FoodPost) error {
	query := `UPDATE food_posts
		SET food_type = $1, quantity = $2, meals_saved = $3, location = $4,
		    description = $5, expiry_time = $6, status = $7
		WHERE id = $8`
	tag, err := r.db.Exec(ctx, query, post.FoodType, post.Quantity, post.MealsSaved,
		post.Location, post.Description, post.ExpiryTime, post.Status, post.ID)
	if err != nil {
		r.logger.Error("Error updating food post", zap.Error(err), zap.String("id", post.ID))
		return fmt.Errorf("database error updating food post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("food post %s: %w", post.ID, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresFoodRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM food_posts WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Error deleting food post", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("database error deleting food post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("food post %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// Claim flips an available post to claimed in one conditional update, so two
// concurrent claims can never both succeed.
func (r *PostgresFoodRepo) Claim(ctx context.Context, id, userID string) error {
	query := `UPDATE food_posts
		SET status = $1, claimed_by = $2, claimed_at = NOW()
		WHERE id = $3 AND status = $4`
	tag, err := r.db.Exec(ctx, query, models.FoodStatusClaimed, userID, id, models.FoodStatusAvailable)
	if err != nil {
		r.logger.Error("Error claiming food post", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("database error claiming food post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the post is gone or someone claimed it first.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("food post %s: %w", id, models.ErrAlreadyClaimed)
	}
	return nil
}
