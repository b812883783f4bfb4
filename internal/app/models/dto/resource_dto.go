package dto

import (
	"time"

	"github.com/ecavus/collegia/internal/app/models"
)

// --- Request DTOs ---

// UploadNoteRequest represents form data for uploading a course note.
// The file itself arrives as the multipart "file" part.
type UploadNoteRequest struct {
	Title       string `form:"title" binding:"required,min=2,max=200"`
	Description string `form:"description"`
}

// UploadPaperRequest represents form data for uploading a past paper
type UploadPaperRequest struct {
	Title       string `form:"title" binding:"required,min=2,max=200"`
	Description string `form:"description"`
}

// --- Response DTOs ---

// NoteResponse represents a course note with a short-lived download URL
type NoteResponse struct {
	ID           int64     `json:"id"`
	CourseID     int64     `json:"courseId"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	DownloadURL  string    `json:"downloadUrl,omitempty"`
	UploaderName string    `json:"uploaderName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NoteListResponse represents a page of notes
type NoteListResponse struct {
	Notes      []NoteResponse `json:"notes"`
	Pagination PaginationInfo `json:"pagination"`
}

// PaperResponse represents a past paper with a short-lived download URL
type PaperResponse struct {
	ID           int64     `json:"id"`
	CourseID     int64     `json:"courseId"`
	CollegeID    int64     `json:"collegeId"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	DownloadURL  string    `json:"downloadUrl,omitempty"`
	UploaderName string    `json:"uploaderName,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// PaperListResponse represents a page of past papers
type PaperListResponse struct {
	Papers     []PaperResponse `json:"papers"`
	Pagination PaginationInfo  `json:"pagination"`
}

// ToNoteResponse converts a models.Note to a NoteResponse.
// downloadURL is signed by the caller and may be empty.
func ToNoteResponse(note *models.Note, downloadURL string) NoteResponse {
	if note == nil {
		return NoteResponse{}
	}

	response := NoteResponse{
		ID:          note.ID,
		CourseID:    note.CourseID,
		Title:       note.Title,
		Description: note.Description,
		DownloadURL: downloadURL,
		CreatedAt:   note.CreatedAt,
	}
	if note.Creator != nil {
		response.UploaderName = note.Creator.DisplayName()
	}
	return response
}

// ToPaperResponse converts a models.Paper to a PaperResponse
func ToPaperResponse(paper *models.Paper, downloadURL string) PaperResponse {
	if paper == nil {
		return PaperResponse{}
	}

	response := PaperResponse{
		ID:          paper.ID,
		CourseID:    paper.CourseID,
		CollegeID:   paper.CollegeID,
		Title:       paper.Title,
		Description: paper.Description,
		DownloadURL: downloadURL,
		UploadedAt:  paper.UploadedAt,
	}
	if paper.Uploader != nil {
		response.UploaderName = paper.Uploader.DisplayName()
	}
	return response
}
