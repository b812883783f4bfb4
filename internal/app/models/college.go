package models

import "time"

// College represents the tenant scope for courses, resources and the forum
type College struct {
	ID          int64     `json:"id" db:"id" example:"7"`
	Name        string    `json:"name" db:"name" example:"National Institute of Technology"`
	Description string    `json:"description" db:"description" example:"Engineering college in Surat"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
