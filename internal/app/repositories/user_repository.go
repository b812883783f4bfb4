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
	"github.com/ecavus/collegia/internal/pkg/apperrors"
	"github.com/ecavus/collegia/internal/pkg/dberrors"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user and fills in the generated ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("email", "password", "first_name", "last_name", "is_active", "created_at", "updated_at").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.IsActive, time.Now(), time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		log.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID, with the college preloaded when joined
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(
		"u.id", "u.email", "u.password", "u.first_name", "u.last_name",
		"u.roll_number", "u.college_id", "u.is_active", "u.created_at", "u.updated_at", "u.last_login_at",
		"c.id", "c.name", "c.description", "c.created_at",
	).
		From("users u").
		LeftJoin("colleges c ON u.college_id = c.id").
		Where(squirrel.Eq{"u.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	return r.scanUserWithCollege(ctx, sql, args)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.sb.Select(
		"u.id", "u.email", "u.password", "u.first_name", "u.last_name",
		"u.roll_number", "u.college_id", "u.is_active", "u.created_at", "u.updated_at", "u.last_login_at",
		"c.id", "c.name", "c.description", "c.created_at",
	).
		From("users u").
		LeftJoin("colleges c ON u.college_id = c.id").
		Where(squirrel.Eq{"u.email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	return r.scanUserWithCollege(ctx, sql, args)
}

func (r *UserRepository) scanUserWithCollege(ctx context.Context, sql string, args []interface{}) (*models.User, error) {
	var user models.User
	var collegeID *int64
	var collegeName, collegeDescription *string
	var collegeCreatedAt *time.Time

	err := r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.RollNumber, &user.CollegeID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt,
		&collegeID, &collegeName, &collegeDescription, &collegeCreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if collegeID != nil {
		user.College = &models.College{
			ID:        *collegeID,
			Name:      *collegeName,
			CreatedAt: *collegeCreatedAt,
		}
		if collegeDescription != nil {
			user.College.Description = *collegeDescription
		}
	}

	return &user, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking email: %w", err)
	}

	return true, nil
}

// UpdateProfile updates a user's name and roll number
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, firstName, lastName string, rollNumber *string) error {
	sql, args, err := r.sb.Update("users").
		Set("first_name", firstName).
		Set("last_name", lastName).
		Set("roll_number", rollNumber).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// JoinCollege attaches a user to a college
func (r *UserRepository) JoinCollege(ctx context.Context, userID, collegeID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("college_id", collegeID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build join college query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCollegeNotFound
		}
		return fmt.Errorf("error joining college: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// CollegeOf returns the college a user belongs to.
// Returns apperrors.ErrNoCollegeMembership when none is set.
func (r *UserRepository) CollegeOf(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.sb.Select("college_id").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build college lookup query: %w", err)
	}

	var collegeID *int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&collegeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, fmt.Errorf("error looking up college membership: %w", err)
	}
	if collegeID == nil {
		return 0, apperrors.ErrNoCollegeMembership
	}

	return *collegeID, nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build last login query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}

	return nil
}
