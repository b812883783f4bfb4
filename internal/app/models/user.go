package models

import (
	"strings"
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`                                  // Unique identifier for the user
	Email       string     `json:"email" db:"email" example:"user@college.edu"`             // User's email address
	Password    string     `json:"-" db:"password"`                                         // User's hashed password (excluded from JSON)
	FirstName   string     `json:"firstName" db:"first_name" example:"John"`                // User's first name
	LastName    string     `json:"lastName" db:"last_name" example:"Doe"`                   // User's last name
	RollNumber  *string    `json:"rollNumber,omitempty" db:"roll_number" example:"21CS042"` // Roll number assigned by the college (nullable)
	CollegeID   *int64     `json:"collegeId,omitempty" db:"college_id" example:"7"`         // College the user belongs to (at most one, nullable)
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`                  // Whether the user account is active
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"` // Timestamp of the last login (nullable)

	// Related entities
	College *College `json:"college,omitempty"`
}

// DisplayName returns the name shown in listings and the forum.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasCollege reports whether the user currently belongs to a college.
func (u *User) HasCollege() bool {
	return u.CollegeID != nil && *u.CollegeID > 0
}
