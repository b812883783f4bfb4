package models

import "time"

// Course represents a course inside a college
type Course struct {
	ID          int64     `json:"id" db:"id" example:"12"`
	CollegeID   int64     `json:"collegeId" db:"college_id" example:"7"`
	Title       string    `json:"title" db:"title" example:"Data Structures"`
	Description string    `json:"description" db:"description" example:"Second semester core course"`
	CreatedBy   int64     `json:"createdBy" db:"created_by" example:"1"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Creator *User `json:"creator,omitempty"`
}
