package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/app/repositories"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
	"github.com/ecavus/collegia/internal/pkg/filestorage"
	"github.com/ecavus/collegia/internal/pkg/helpers"
)

// Storage buckets for uploaded course material
const (
	BucketNotes  = "notes"
	BucketPapers = "papers"
)

// ResourceService handles course notes and past papers, including the
// uploaded files behind them
type ResourceService struct {
	noteRepo   *repositories.NoteRepository
	paperRepo  *repositories.PaperRepository
	courseRepo *repositories.CourseRepository
	userRepo   *repositories.UserRepository
	storage    filestorage.Storage
	signer     *filestorage.URLSigner
	logger     zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(
	noteRepo *repositories.NoteRepository,
	paperRepo *repositories.PaperRepository,
	courseRepo *repositories.CourseRepository,
	userRepo *repositories.UserRepository,
	storage filestorage.Storage,
	signer *filestorage.URLSigner,
	logger zerolog.Logger,
) *ResourceService {
	return &ResourceService{
		noteRepo:   noteRepo,
		paperRepo:  paperRepo,
		courseRepo: courseRepo,
		userRepo:   userRepo,
		storage:    storage,
		signer:     signer,
		logger:     logger,
	}
}

// courseInCallerCollege loads a course and checks it belongs to the caller's college
func (s *ResourceService) courseInCallerCollege(ctx context.Context, userID, courseID int64) (*models.Course, error) {
	collegeID, err := s.userRepo.CollegeOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.CollegeID != collegeID {
		return nil, apperrors.ErrCourseNotFound
	}

	return course, nil
}

// DownloadQuery returns the signed query string for an object path
func (s *ResourceService) DownloadQuery(objectPath string) string {
	return s.signer.Sign(objectPath, time.Now())
}

// --- Notes ---

// UploadNote stores the file and creates the note row.
// The stored object is removed again if the row insert fails.
func (s *ResourceService) UploadNote(ctx context.Context, userID, courseID int64, req *dto.UploadNoteRequest, file *multipart.FileHeader) (*models.Note, error) {
	if _, err := s.courseInCallerCollege(ctx, userID, courseID); err != nil {
		return nil, err
	}

	objectPath, err := s.storage.Save(file, BucketNotes)
	if err != nil {
		return nil, err
	}

	note := &models.Note{
		CourseID:    courseID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		FilePath:    objectPath,
		CreatedBy:   userID,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		if removeErr := s.storage.Remove(objectPath); removeErr != nil {
			s.logger.Warn().Err(removeErr).Str("path", objectPath).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	s.logger.Info().Int64("noteID", note.ID).Int64("courseID", courseID).Msg("Note uploaded")
	return note, nil
}

// GetNotes retrieves a page of a course's notes with signed download URLs
func (s *ResourceService) GetNotes(ctx context.Context, userID, courseID int64, page, pageSize int) (*dto.NoteListResponse, error) {
	if _, err := s.courseInCallerCollege(ctx, userID, courseID); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	notes, total, err := s.noteRepo.GetByCourseID(ctx, courseID, int(offset), limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		items = append(items, dto.ToNoteResponse(note, "/api/v1/files/download?"+s.signer.Sign(note.FilePath, now)))
	}

	return &dto.NoteListResponse{
		Notes:      items,
		Pagination: helpers.NewPaginationInfo(int64(total), page, pageSize),
	}, nil
}

// DeleteNote removes a note row and its stored file.
// Only the uploader may delete a note.
func (s *ResourceService) DeleteNote(ctx context.Context, userID, noteID int64) error {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.CreatedBy != userID {
		return apperrors.ErrPermissionDenied
	}

	if err := s.noteRepo.Delete(ctx, noteID); err != nil {
		return err
	}

	if err := s.storage.Remove(note.FilePath); err != nil {
		s.logger.Warn().Err(err).Str("path", note.FilePath).Msg("Failed to remove note file")
	}

	return nil
}

// --- Papers ---

// UploadPaper stores the file and creates the paper row
func (s *ResourceService) UploadPaper(ctx context.Context, userID, courseID int64, req *dto.UploadPaperRequest, file *multipart.FileHeader) (*models.Paper, error) {
	course, err := s.courseInCallerCollege(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	objectPath, err := s.storage.Save(file, BucketPapers)
	if err != nil {
		return nil, err
	}

	paper := &models.Paper{
		CourseID:    courseID,
		CollegeID:   course.CollegeID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		FilePath:    objectPath,
		UserID:      userID,
	}
	if err := s.paperRepo.Create(ctx, paper); err != nil {
		if removeErr := s.storage.Remove(objectPath); removeErr != nil {
			s.logger.Warn().Err(removeErr).Str("path", objectPath).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	s.logger.Info().Int64("paperID", paper.ID).Int64("courseID", courseID).Msg("Paper uploaded")
	return paper, nil
}

// GetPapers retrieves a page of a course's papers with signed download URLs
func (s *ResourceService) GetPapers(ctx context.Context, userID, courseID int64, page, pageSize int) (*dto.PaperListResponse, error) {
	if _, err := s.courseInCallerCollege(ctx, userID, courseID); err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	papers, total, err := s.paperRepo.GetByCourseID(ctx, courseID, int(offset), limit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]dto.PaperResponse, 0, len(papers))
	for _, paper := range papers {
		items = append(items, dto.ToPaperResponse(paper, "/api/v1/files/download?"+s.signer.Sign(paper.FilePath, now)))
	}

	return &dto.PaperListResponse{
		Papers:     items,
		Pagination: helpers.NewPaginationInfo(int64(total), page, pageSize),
	}, nil
}

// DeletePaper removes a paper row and its stored file.
// Only the uploader may delete a paper.
func (s *ResourceService) DeletePaper(ctx context.Context, userID, paperID int64) error {
	paper, err := s.paperRepo.GetByID(ctx, paperID)
	if err != nil {
		return err
	}
	if paper.UserID != userID {
		return apperrors.ErrPermissionDenied
	}

	if err := s.paperRepo.Delete(ctx, paperID); err != nil {
		return err
	}

	if err := s.storage.Remove(paper.FilePath); err != nil {
		s.logger.Warn().Err(err).Str("path", paper.FilePath).Msg("Failed to remove paper file")
	}

	return nil
}
