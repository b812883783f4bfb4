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

// PaperRepository handles past paper database operations
type PaperRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPaperRepository creates a new PaperRepository
func NewPaperRepository(db *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new paper and fills in the generated ID
func (r *PaperRepository) Create(ctx context.Context, paper *models.Paper) error {
	sql, args, err := r.sb.Insert("papers").
		Columns("course_id", "college_id", "title", "description", "file_path", "user_id", "uploadedat", "updatedat").
		Values(paper.CourseID, paper.CollegeID, paper.Title, paper.Description, paper.FilePath, paper.UserID, time.Now(), time.Now()).
		Suffix("RETURNING id, uploadedat").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create paper query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&paper.ID, &paper.UploadedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating paper: %w", err)
	}

	return nil
}

// GetByID retrieves a paper with its uploader
func (r *PaperRepository) GetByID(ctx context.Context, id int64) (*models.Paper, error) {
	sql, args, err := r.sb.Select(
		"p.id", "p.course_id", "p.college_id", "p.title", "p.description", "p.file_path",
		"p.user_id", "p.uploadedat", "p.updatedat",
		"u.first_name", "u.last_name",
	).
		From("papers p").
		LeftJoin("users u ON p.user_id = u.id").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get paper query: %w", err)
	}

	var paper models.Paper
	var firstName, lastName *string
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&paper.ID, &paper.CourseID, &paper.CollegeID, &paper.Title, &paper.Description, &paper.FilePath,
		&paper.UserID, &paper.UploadedAt, &paper.UpdatedAt,
		&firstName, &lastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaperNotFound
		}
		return nil, fmt.Errorf("error retrieving paper: %w", err)
	}

	if firstName != nil && lastName != nil {
		paper.Uploader = &models.User{ID: paper.UserID, FirstName: *firstName, LastName: *lastName}
	}

	return &paper, nil
}

// GetByCourseID retrieves a page of a course's papers, newest first
func (r *PaperRepository) GetByCourseID(ctx context.Context, courseID int64, offset, limit int) ([]*models.Paper, int, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("papers").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting papers: %w", err)
	}

	sql, args, err := r.sb.Select(
		"p.id", "p.course_id", "p.college_id", "p.title", "p.description", "p.file_path",
		"p.user_id", "p.uploadedat", "p.updatedat",
		"u.first_name", "u.last_name",
	).
		From("papers p").
		LeftJoin("users u ON p.user_id = u.id").
		Where(squirrel.Eq{"p.course_id": courseID}).
		OrderBy("p.uploadedat DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list papers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing papers: %w", err)
	}
	defer rows.Close()

	var papers []*models.Paper
	for rows.Next() {
		var paper models.Paper
		var firstName, lastName *string
		if err := rows.Scan(
			&paper.ID, &paper.CourseID, &paper.CollegeID, &paper.Title, &paper.Description, &paper.FilePath,
			&paper.UserID, &paper.UploadedAt, &paper.UpdatedAt,
			&firstName, &lastName,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning paper row: %w", err)
		}
		if firstName != nil && lastName != nil {
			paper.Uploader = &models.User{ID: paper.UserID, FirstName: *firstName, LastName: *lastName}
		}
		papers = append(papers, &paper)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating paper rows: %w", err)
	}

	return papers, total, nil
}

// Delete removes a paper row
func (r *PaperRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("papers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete paper query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting paper: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPaperNotFound
	}

	return nil
}
