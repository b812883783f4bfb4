package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
	"github.com/ecavus/collegia/internal/pkg/dberrors"
)

// MessageRepository handles forum message database operations
type MessageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new forum message. The database assigns id and
// created_at, which are written back into the message so the caller
// can broadcast exactly what was committed.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	sql, args, err := r.sb.Insert("messages").
		Columns("college_id", "user_id", "first_name", "last_name", "message", "created_at").
		Values(message.CollegeID, message.UserID, message.FirstName, message.LastName, message.Body, time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create message query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCollegeNotFound
		}
		return fmt.Errorf("error creating message: %w", err)
	}

	return nil
}

// GetByCollegeID retrieves a college's message history in commit order,
// oldest first. Ties on created_at fall back to id so the order is total.
func (r *MessageRepository) GetByCollegeID(ctx context.Context, collegeID int64, limit int) ([]*models.Message, error) {
	builder := r.sb.Select(
		"id", "college_id", "user_id", "first_name", "last_name", "message", "created_at",
	).
		From("messages").
		Where(squirrel.Eq{"college_id": collegeID}).
		OrderBy("created_at ASC", "id ASC")

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build message history query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving message history: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID, &message.CollegeID, &message.UserID,
			&message.FirstName, &message.LastName, &message.Body, &message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, &message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}
