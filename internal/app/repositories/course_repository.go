package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/db"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
	"github.com/ecavus/collegia/internal/pkg/dberrors"
)

// CourseRepository handles course database operations
type CourseRepository struct {
	db   *db.PostgresDB
	sb   squirrel.StatementBuilderType
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.PostgresDB) *CourseRepository {
	return &CourseRepository{
		db:   database,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		pool: database.Pool,
	}
}

// Create inserts a new course and fills in the generated ID
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("college_id", "title", "description", "created_by", "created_at").
		Values(course.CollegeID, course.Title, course.Description, course.CreatedBy, time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.pool.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_college_id_title_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCollegeNotFound
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// BulkCreate inserts several courses in a single transaction.
// Courses get their generated IDs filled in; a duplicate title fails the whole batch.
func (r *CourseRepository) BulkCreate(ctx context.Context, courses []*models.Course) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, course := range courses {
			sql, args, err := r.sb.Insert("courses").
				Columns("college_id", "title", "description", "created_by", "created_at").
				Values(course.CollegeID, course.Title, course.Description, course.CreatedBy, time.Now()).
				Suffix("RETURNING id, created_at").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build create course query: %w", err)
			}

			if err := tx.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt); err != nil {
				if dberrors.IsDuplicateConstraintError(err, "courses_college_id_title_key") {
					return apperrors.ErrResourceAlreadyExists
				}
				return fmt.Errorf("error creating course %q: %w", course.Title, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a course with its creator
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(
		"co.id", "co.college_id", "co.title", "co.description", "co.created_by", "co.created_at",
		"u.first_name", "u.last_name",
	).
		From("courses co").
		LeftJoin("users u ON co.created_by = u.id").
		Where(squirrel.Eq{"co.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var course models.Course
	var firstName, lastName *string
	err = r.pool.QueryRow(ctx, sql, args...).Scan(
		&course.ID, &course.CollegeID, &course.Title, &course.Description, &course.CreatedBy, &course.CreatedAt,
		&firstName, &lastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	if firstName != nil && lastName != nil {
		course.Creator = &models.User{ID: course.CreatedBy, FirstName: *firstName, LastName: *lastName}
	}

	return &course, nil
}

// GetByCollegeID retrieves a page of a college's courses ordered by title
func (r *CourseRepository) GetByCollegeID(ctx context.Context, collegeID int64, offset, limit int) ([]*models.Course, int, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("courses").
		Where(squirrel.Eq{"college_id": collegeID}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	sql, args, err := r.sb.Select(
		"co.id", "co.college_id", "co.title", "co.description", "co.created_by", "co.created_at",
		"u.first_name", "u.last_name",
	).
		From("courses co").
		LeftJoin("users u ON co.created_by = u.id").
		Where(squirrel.Eq{"co.college_id": collegeID}).
		OrderBy("co.title ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		var firstName, lastName *string
		if err := rows.Scan(
			&course.ID, &course.CollegeID, &course.Title, &course.Description, &course.CreatedBy, &course.CreatedAt,
			&firstName, &lastName,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning course row: %w", err)
		}
		if firstName != nil && lastName != nil {
			course.Creator = &models.User{ID: course.CreatedBy, FirstName: *firstName, LastName: *lastName}
		}
		courses = append(courses, &course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, total, nil
}

// Delete removes a course and everything attached to it.
// Notes and papers cascade at the schema level; their files are the caller's problem.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	log.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// FilePaths collects the storage paths of every note and paper under a course,
// so the caller can remove the files after the rows cascade away.
func (r *CourseRepository) FilePaths(ctx context.Context, courseID int64) ([]string, error) {
	var paths []string

	for _, table := range []string{"notes", "papers"} {
		sql, args, err := r.sb.Select("file_path").
			From(table).
			Where(squirrel.Eq{"course_id": courseID}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build file paths query: %w", err)
		}

		rows, err := r.pool.Query(ctx, sql, args...)
		if err != nil {
			return nil, fmt.Errorf("error listing %s file paths: %w", table, err)
		}

		for rows.Next() {
			var path string
			if err := rows.Scan(&path); err != nil {
				rows.Close()
				return nil, fmt.Errorf("error scanning file path: %w", err)
			}
			paths = append(paths, path)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating file paths: %w", err)
		}
	}

	return paths, nil
}
