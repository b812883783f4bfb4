package services

import (
	"testing"

	"github.com/ecavus/collegia/internal/app/models"
)

func TestPresencePayload(t *testing.T) {
	roll := "2021-CS-042"
	user := &models.User{
		ID:         7,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		RollNumber: &roll,
	}

	payload := presencePayload(user)
	if payload.UserID != 7 || payload.FirstName != "Ada" || payload.LastName != "Lovelace" {
		t.Errorf("presencePayload() = %+v, want identity fields carried over", payload)
	}
	if payload.RollNumber == nil || *payload.RollNumber != roll {
		t.Errorf("presencePayload().RollNumber = %v, want %q", payload.RollNumber, roll)
	}
	if !payload.Valid() {
		t.Error("presencePayload() produced an invalid payload")
	}
}

func TestPresencePayload_NoRollNumber(t *testing.T) {
	payload := presencePayload(&models.User{ID: 7, FirstName: "Ada", LastName: "Lovelace"})
	if payload.RollNumber != nil {
		t.Errorf("presencePayload().RollNumber = %v, want nil for a user without one", payload.RollNumber)
	}
	if !payload.Valid() {
		t.Error("presencePayload() without roll number must still be valid")
	}
}
