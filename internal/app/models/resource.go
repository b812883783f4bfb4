package models

import "time"

// Note represents lecture notes uploaded for a course
type Note struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title" example:"Unit 3 - AVL Trees"`
	Description string    `json:"description" db:"description"`
	FilePath    string    `json:"filePath" db:"file_path" example:"notes/12/9f2c1a.pdf"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Creator *User `json:"creator,omitempty"`
}

// Paper represents a previous-year question paper uploaded for a course
type Paper struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	CollegeID   int64     `json:"collegeId" db:"college_id"`
	Title       string    `json:"title" db:"title" example:"End Sem 2023"`
	Description string    `json:"description" db:"description"`
	FilePath    string    `json:"filePath" db:"file_path" example:"papers/12/77aa03.pdf"`
	UserID      int64     `json:"userId" db:"user_id"`
	UploadedAt  time.Time `json:"uploadedAt" db:"uploadedat"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updatedat"`

	// Related entities
	Uploader *User `json:"uploader,omitempty"`
}
