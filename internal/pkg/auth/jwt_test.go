package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/ecavus/collegia/internal/app/models"
)

func newTestJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-signing-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "collegia.test",
	})
}

func testUser() *models.User {
	return &models.User{ID: 42, Email: "student@example.edu"}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatal("GenerateTokenPair() returned empty token")
	}
	if expiresIn <= 0 || refreshExpiresIn <= 0 {
		t.Errorf("GenerateTokenPair() expiries = %d, %d, want positive", expiresIn, refreshExpiresIn)
	}

	claims, err := svc.ValidateToken(accessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "student@example.edu" {
		t.Errorf("claims.Email = %q, want student@example.edu", claims.Email)
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)

	accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	if _, err := svc.ValidateToken(accessToken); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateToken() on expired token error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	accessToken, _, _, _, err := newTestJWTService(time.Hour).GenerateTokenPair(testUser())
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	other := NewJWTService(JWTConfig{
		SecretKey:       "another-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "collegia.test",
	})

	if _, err := other.ValidateToken(accessToken); err == nil {
		t.Error("ValidateToken() with wrong secret succeeded, want error")
	}
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	for _, token := range []string{"", "not.a.jwt", "abc"} {
		if _, err := svc.ValidateAndExtractClaims(token); err == nil {
			t.Errorf("ValidateAndExtractClaims(%q) succeeded, want error", token)
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"bearer prefix", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"raw token", "abc.def.ghi", "abc.def.ghi", false},
		{"empty header", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractBearerToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJWTService_RefreshTokenExpiry(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	expiry := svc.GetRefreshTokenExpiry()
	if until := time.Until(expiry); until < 23*time.Hour || until > 25*time.Hour {
		t.Errorf("GetRefreshTokenExpiry() = %v from now, want about 24h", until)
	}
}
