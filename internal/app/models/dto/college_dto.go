package dto

import (
	"time"

	"github.com/ecavus/collegia/internal/app/models"
)

// CreateCollegeRequest represents data for creating a new college
type CreateCollegeRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Description string `json:"description"`
}

// JoinCollegeRequest represents a user joining a college
type JoinCollegeRequest struct {
	CollegeID int64 `json:"collegeId" binding:"required,min=1"`
}

// CollegeResponse represents a college
type CollegeResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CollegeListResponse represents a page of colleges
type CollegeListResponse struct {
	Colleges   []CollegeResponse `json:"colleges"`
	Pagination PaginationInfo    `json:"pagination"`
}

// ToCollegeResponse converts a models.College to a CollegeResponse
func ToCollegeResponse(college *models.College) CollegeResponse {
	if college == nil {
		return CollegeResponse{}
	}
	return CollegeResponse{
		ID:          college.ID,
		Name:        college.Name,
		Description: college.Description,
		CreatedAt:   college.CreatedAt,
	}
}
