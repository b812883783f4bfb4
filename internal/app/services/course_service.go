package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/app/repositories"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
	"github.com/ecavus/collegia/internal/pkg/filestorage"
	"github.com/ecavus/collegia/internal/pkg/helpers"
)

// CourseService handles course operations
type CourseService struct {
	courseRepo *repositories.CourseRepository
	userRepo   *repositories.UserRepository
	storage    filestorage.Storage
	logger     zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	userRepo *repositories.UserRepository,
	storage filestorage.Storage,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		storage:    storage,
		logger:     logger,
	}
}

// membershipCollege resolves the college the user belongs to
func (s *CourseService) membershipCollege(ctx context.Context, userID int64) (int64, error) {
	return s.userRepo.CollegeOf(ctx, userID)
}

// Create adds a course to the caller's college
func (s *CourseService) Create(ctx context.Context, userID int64, req *dto.CreateCourseRequest) (*models.Course, error) {
	collegeID, err := s.membershipCollege(ctx, userID)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		CollegeID:   collegeID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userID,
	}
	if course.Title == "" {
		return nil, apperrors.ErrValidationFailed
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", course.ID).Int64("collegeID", collegeID).Msg("Course created")
	return course, nil
}

// BulkCreate adds several courses to the caller's college in one transaction
func (s *CourseService) BulkCreate(ctx context.Context, userID int64, req *dto.BulkCreateCoursesRequest) ([]*models.Course, error) {
	collegeID, err := s.membershipCollege(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses := make([]*models.Course, 0, len(req.Courses))
	for _, item := range req.Courses {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			return nil, apperrors.ErrValidationFailed
		}
		courses = append(courses, &models.Course{
			CollegeID:   collegeID,
			Title:       title,
			Description: strings.TrimSpace(item.Description),
			CreatedBy:   userID,
		})
	}

	if err := s.courseRepo.BulkCreate(ctx, courses); err != nil {
		return nil, err
	}

	s.logger.Info().Int("count", len(courses)).Int64("collegeID", collegeID).Msg("Courses created in bulk")
	return courses, nil
}

// GetByID retrieves a course, restricted to the caller's college
func (s *CourseService) GetByID(ctx context.Context, userID, courseID int64) (*models.Course, error) {
	collegeID, err := s.membershipCollege(ctx, userID)
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

// GetAll retrieves a page of the caller's college courses
func (s *CourseService) GetAll(ctx context.Context, userID int64, page, pageSize int) (*dto.CourseListResponse, error) {
	collegeID, err := s.membershipCollege(ctx, userID)
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	courses, total, err := s.courseRepo.GetByCollegeID(ctx, collegeID, int(offset), limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, dto.ToCourseResponse(course))
	}

	return &dto.CourseListResponse{
		Courses:    items,
		Pagination: helpers.NewPaginationInfo(int64(total), page, pageSize),
	}, nil
}

// Delete removes a course after the caller confirms its exact title.
// Attached note and paper files are removed from storage once the rows cascade away.
func (s *CourseService) Delete(ctx context.Context, userID, courseID int64, confirmTitle string) error {
	course, err := s.GetByID(ctx, userID, courseID)
	if err != nil {
		return err
	}

	if strings.TrimSpace(confirmTitle) != course.Title {
		return apperrors.ErrCourseTitleMismatch
	}

	paths, err := s.courseRepo.FilePaths(ctx, courseID)
	if err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		return err
	}

	for _, path := range paths {
		if err := s.storage.Remove(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove orphaned file")
		}
	}

	return nil
}
