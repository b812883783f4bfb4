package dto

import (
	"time"

	"github.com/ecavus/collegia/internal/app/models"
)

// CreateCourseRequest represents data for creating a single course
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=2,max=200"`
	Description string `json:"description"`
}

// BulkCreateCoursesRequest represents data for creating several courses at once
type BulkCreateCoursesRequest struct {
	Courses []CreateCourseRequest `json:"courses" binding:"required,min=1,max=50,dive"`
}

// DeleteCourseRequest carries the confirmation title for a destructive delete
type DeleteCourseRequest struct {
	ConfirmTitle string `json:"confirmTitle" binding:"required"`
}

// CourseResponse represents a course
type CourseResponse struct {
	ID          int64     `json:"id"`
	CollegeID   int64     `json:"collegeId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedBy   int64     `json:"createdBy"`
	CreatorName string    `json:"creatorName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CourseListResponse represents a page of courses
type CourseListResponse struct {
	Courses    []CourseResponse `json:"courses"`
	Pagination PaginationInfo   `json:"pagination"`
}

// ToCourseResponse converts a models.Course to a CourseResponse
func ToCourseResponse(course *models.Course) CourseResponse {
	if course == nil {
		return CourseResponse{}
	}

	response := CourseResponse{
		ID:          course.ID,
		CollegeID:   course.CollegeID,
		Title:       course.Title,
		Description: course.Description,
		CreatedBy:   course.CreatedBy,
		CreatedAt:   course.CreatedAt,
	}
	if course.Creator != nil {
		response.CreatorName = course.Creator.DisplayName()
	}
	return response
}
