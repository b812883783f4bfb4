package services

import (
	"errors"
	"testing"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
	"github.com/ecavus/collegia/internal/pkg/auth"
)

func TestVerifyCredentials(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		user     *models.User
		password string
		wantErr  error
	}{
		{"valid login", &models.User{Password: hash, IsActive: true}, "correct-horse", nil},
		{"wrong password", &models.User{Password: hash, IsActive: true}, "battery-staple", apperrors.ErrInvalidCredentials},
		{"disabled account", &models.User{Password: hash, IsActive: false}, "correct-horse", apperrors.ErrAccountDisabled},
		{"empty password", &models.User{Password: hash, IsActive: true}, "", apperrors.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifyCredentials(tt.user, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("verifyCredentials() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
