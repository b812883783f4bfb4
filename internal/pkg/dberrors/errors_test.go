package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	if !IsDuplicateConstraintError(dup, "users_email_key") {
		t.Error("IsDuplicateConstraintError() = false for matching constraint")
	}
	if IsDuplicateConstraintError(dup, "colleges_name_key") {
		t.Error("IsDuplicateConstraintError() = true for different constraint")
	}
	if !IsDuplicateConstraintError(fmt.Errorf("insert user: %w", dup), "users_email_key") {
		t.Error("IsDuplicateConstraintError() = false for wrapped error")
	}
	if IsDuplicateConstraintError(errors.New("connection refused"), "users_email_key") {
		t.Error("IsDuplicateConstraintError() = true for non-pg error")
	}
	if IsDuplicateConstraintError(nil, "users_email_key") {
		t.Error("IsDuplicateConstraintError() = true for nil")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "messages_college_id_fkey"}

	if !IsForeignKeyViolation(fk) {
		t.Error("IsForeignKeyViolation() = false for fk violation")
	}
	if !IsForeignKeyViolation(fmt.Errorf("insert message: %w", fk)) {
		t.Error("IsForeignKeyViolation() = false for wrapped fk violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("IsForeignKeyViolation() = true for unique violation")
	}
	if IsForeignKeyViolation(nil) {
		t.Error("IsForeignKeyViolation() = true for nil")
	}
}
