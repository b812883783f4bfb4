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

// NoteRepository handles course note database operations
type NoteRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new note and fills in the generated ID
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	sql, args, err := r.sb.Insert("notes").
		Columns("course_id", "title", "description", "file_path", "created_by", "created_at").
		Values(note.CourseID, note.Title, note.Description, note.FilePath, note.CreatedBy, time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create note query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating note: %w", err)
	}

	return nil
}

// GetByID retrieves a note with its uploader
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	sql, args, err := r.sb.Select(
		"n.id", "n.course_id", "n.title", "n.description", "n.file_path", "n.created_by", "n.created_at",
		"u.first_name", "u.last_name",
	).
		From("notes n").
		LeftJoin("users u ON n.created_by = u.id").
		Where(squirrel.Eq{"n.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get note query: %w", err)
	}

	var note models.Note
	var firstName, lastName *string
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&note.ID, &note.CourseID, &note.Title, &note.Description, &note.FilePath, &note.CreatedBy, &note.CreatedAt,
		&firstName, &lastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("error retrieving note: %w", err)
	}

	if firstName != nil && lastName != nil {
		note.Creator = &models.User{ID: note.CreatedBy, FirstName: *firstName, LastName: *lastName}
	}

	return &note, nil
}

// GetByCourseID retrieves a page of a course's notes, newest first
func (r *NoteRepository) GetByCourseID(ctx context.Context, courseID int64, offset, limit int) ([]*models.Note, int, error) {
	countSQL, countArgs, err := r.sb.Select("COUNT(*)").
		From("notes").
		Where(squirrel.Eq{"course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting notes: %w", err)
	}

	sql, args, err := r.sb.Select(
		"n.id", "n.course_id", "n.title", "n.description", "n.file_path", "n.created_by", "n.created_at",
		"u.first_name", "u.last_name",
	).
		From("notes n").
		LeftJoin("users u ON n.created_by = u.id").
		Where(squirrel.Eq{"n.course_id": courseID}).
		OrderBy("n.created_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list notes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		var note models.Note
		var firstName, lastName *string
		if err := rows.Scan(
			&note.ID, &note.CourseID, &note.Title, &note.Description, &note.FilePath, &note.CreatedBy, &note.CreatedAt,
			&firstName, &lastName,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning note row: %w", err)
		}
		if firstName != nil && lastName != nil {
			note.Creator = &models.User{ID: note.CreatedBy, FirstName: *firstName, LastName: *lastName}
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating note rows: %w", err)
	}

	return notes, total, nil
}

// Delete removes a note row
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("notes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete note query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}

	return nil
}
