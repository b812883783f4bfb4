package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
	"github.com/ecavus/collegia/internal/pkg/dberrors"
)

// CollegeRepository handles college database operations
type CollegeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCollegeRepository creates a new CollegeRepository
func NewCollegeRepository(db *pgxpool.Pool) *CollegeRepository {
	return &CollegeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new college and fills in the generated ID
func (r *CollegeRepository) Create(ctx context.Context, college *models.College) error {
	sql, args, err := r.sb.Insert("colleges").
		Columns("name", "description", "created_at", "updated_at").
		Values(college.Name, college.Description, time.Now(), time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create college query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&college.ID, &college.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "colleges_name_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating college: %w", err)
	}

	return nil
}

// GetByID retrieves a college by ID
func (r *CollegeRepository) GetByID(ctx context.Context, id int64) (*models.College, error) {
	sql, args, err := r.sb.Select("id", "name", "description", "created_at", "updated_at").
		From("colleges").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get college query: %w", err)
	}

	var college models.College
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&college.ID, &college.Name, &college.Description, &college.CreatedAt, &college.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCollegeNotFound
		}
		return nil, fmt.Errorf("error retrieving college: %w", err)
	}

	return &college, nil
}

// GetAll retrieves a page of colleges ordered by name, with the total count
func (r *CollegeRepository) GetAll(ctx context.Context, offset, limit int) ([]*models.College, int, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("colleges").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting colleges: %w", err)
	}

	sql, args, err := r.sb.Select("id", "name", "description", "created_at", "updated_at").
		From("colleges").
		OrderBy("name ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list colleges query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing colleges: %w", err)
	}
	defer rows.Close()

	var colleges []*models.College
	for rows.Next() {
		var college models.College
		if err := rows.Scan(&college.ID, &college.Name, &college.Description, &college.CreatedAt, &college.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning college row: %w", err)
		}
		colleges = append(colleges, &college)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating college rows: %w", err)
	}

	return colleges, total, nil
}

// IsMember reports whether the user belongs to the given college
func (r *CollegeRepository) IsMember(ctx context.Context, userID, collegeID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("users").
		Where(squirrel.Eq{"id": userID, "college_id": collegeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build membership query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking membership: %w", err)
	}

	return true, nil
}
