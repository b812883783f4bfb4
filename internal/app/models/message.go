package models

import "time"

// Message represents a forum message scoped to a college.
//
// Messages are immutable once created. The author's name is denormalized
// onto the row so history and live deliveries carry the display name
// without a join. Total order within a college is (created_at, id).
type Message struct {
	ID        int64     `json:"id" db:"id" example:"101"`
	CollegeID int64     `json:"collegeId" db:"college_id" example:"7"`
	UserID    int64     `json:"userId" db:"user_id" example:"1"`
	FirstName string    `json:"firstName" db:"first_name" example:"John"`
	LastName  string    `json:"lastName" db:"last_name" example:"Doe"`
	Body      string    `json:"message" db:"message" example:"anyone has the DSP lab manual?"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Before reports whether m was committed before other within the same
// college scope. Ties on the server timestamp are broken by id.
func (m *Message) Before(other *Message) bool {
	if m.CreatedAt.Equal(other.CreatedAt) {
		return m.ID < other.ID
	}
	return m.CreatedAt.Before(other.CreatedAt)
}
