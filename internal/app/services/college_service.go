package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/app/repositories"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
	"github.com/ecavus/collegia/internal/pkg/helpers"
)

// CollegeService handles college operations
type CollegeService struct {
	collegeRepo *repositories.CollegeRepository
	userRepo    *repositories.UserRepository
	logger      zerolog.Logger
}

// NewCollegeService creates a new CollegeService
func NewCollegeService(
	collegeRepo *repositories.CollegeRepository,
	userRepo *repositories.UserRepository,
	logger zerolog.Logger,
) *CollegeService {
	return &CollegeService{
		collegeRepo: collegeRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create creates a new college
func (s *CollegeService) Create(ctx context.Context, req *dto.CreateCollegeRequest) (*models.College, error) {
	college := &models.College{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if college.Name == "" {
		return nil, apperrors.ErrValidationFailed
	}

	if err := s.collegeRepo.Create(ctx, college); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("collegeID", college.ID).Str("name", college.Name).Msg("College created")
	return college, nil
}

// GetByID retrieves a college
func (s *CollegeService) GetByID(ctx context.Context, id int64) (*models.College, error) {
	return s.collegeRepo.GetByID(ctx, id)
}

// GetAll retrieves a page of colleges
func (s *CollegeService) GetAll(ctx context.Context, page, pageSize int) (*dto.CollegeListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	colleges, total, err := s.collegeRepo.GetAll(ctx, int(offset), limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CollegeResponse, 0, len(colleges))
	for _, college := range colleges {
		items = append(items, dto.ToCollegeResponse(college))
	}

	return &dto.CollegeListResponse{
		Colleges:   items,
		Pagination: helpers.NewPaginationInfo(int64(total), page, pageSize),
	}, nil
}

// Join attaches the user to a college. Joining a second college replaces
// the first; the forum gate follows the current membership.
func (s *CollegeService) Join(ctx context.Context, userID, collegeID int64) (*models.College, error) {
	college, err := s.collegeRepo.GetByID(ctx, collegeID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.JoinCollege(ctx, userID, collegeID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Int64("collegeID", collegeID).Msg("User joined college")
	return college, nil
}
