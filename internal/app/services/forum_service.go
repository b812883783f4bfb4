package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecavus/collegia/internal/app/models"
	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/app/repositories"
	"github.com/ecavus/collegia/internal/metrics"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
	"github.com/ecavus/collegia/internal/realtime"
)

// ForumService handles the realtime college forum. It is the
// membership gate, history source and message sender the realtime
// layer works against.
type ForumService struct {
	messageRepo *repositories.MessageRepository
	userRepo    *repositories.UserRepository
	collegeRepo *repositories.CollegeRepository
	hub         *realtime.Hub
	logger      zerolog.Logger
}

// NewForumService creates a new ForumService
func NewForumService(
	messageRepo *repositories.MessageRepository,
	userRepo *repositories.UserRepository,
	collegeRepo *repositories.CollegeRepository,
	hub *realtime.Hub,
	logger zerolog.Logger,
) *ForumService {
	return &ForumService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		collegeRepo: collegeRepo,
		hub:         hub,
		logger:      logger,
	}
}

// Authorize checks that the user belongs to the given college.
// A user without any college gets apperrors.ErrNoCollegeMembership,
// a member of a different college gets apperrors.ErrPermissionDenied.
func (s *ForumService) Authorize(ctx context.Context, userID, collegeID int64) error {
	memberOf, err := s.userRepo.CollegeOf(ctx, userID)
	if err != nil {
		return err
	}
	if memberOf != collegeID {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// Membership returns the college the user belongs to
func (s *ForumService) Membership(ctx context.Context, userID int64) (int64, error) {
	return s.userRepo.CollegeOf(ctx, userID)
}

// Presence builds the presence payload announced for the user
func (s *ForumService) Presence(ctx context.Context, userID int64) (realtime.PresencePayload, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return realtime.PresencePayload{}, err
	}

	return presencePayload(user), nil
}

// presencePayload maps a user onto the announcement published on the
// channel. The roll number stays optional end to end.
func presencePayload(user *models.User) realtime.PresencePayload {
	return realtime.PresencePayload{
		UserID:     user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		RollNumber: user.RollNumber,
	}
}

// History returns a college's messages in commit order, oldest first
func (s *ForumService) History(ctx context.Context, collegeID int64) ([]models.Message, error) {
	rows, err := s.messageRepo.GetByCollegeID(ctx, collegeID, 0)
	if err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, *row)
	}
	return messages, nil
}

// Send persists a forum message and broadcasts the committed row.
// An empty or whitespace-only body is rejected before anything else
// happens, so no row is written and nothing is broadcast.
func (s *ForumService) Send(ctx context.Context, userID, collegeID int64, body string) error {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return apperrors.ErrEmptyMessage
	}

	if err := s.Authorize(ctx, userID, collegeID); err != nil {
		return err
	}

	// Sender name is resolved at send time and denormalized onto the
	// row, so history stays readable after profile changes.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	message := &models.Message{
		CollegeID: collegeID,
		UserID:    userID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Body:      trimmed,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return err
	}

	s.hub.Publish(collegeID, *message)
	metrics.ForumMessagesTotal.Inc()

	s.logger.Debug().
		Int64("messageID", message.ID).
		Int64("collegeID", collegeID).
		Int64("userID", userID).
		Msg("Forum message committed and broadcast")
	return nil
}

// GetHistory returns a college's history for the REST endpoint,
// restricted to members
func (s *ForumService) GetHistory(ctx context.Context, userID, collegeID int64) (*dto.ForumHistoryResponse, error) {
	if err := s.Authorize(ctx, userID, collegeID); err != nil {
		return nil, err
	}

	rows, err := s.messageRepo.GetByCollegeID(ctx, collegeID, 0)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ForumMessageResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.ToForumMessageResponse(row))
	}

	return &dto.ForumHistoryResponse{
		CollegeID: collegeID,
		Messages:  items,
	}, nil
}

// Online reports how many members are currently present on a college's
// channel, restricted to members
func (s *ForumService) Online(ctx context.Context, userID, collegeID int64) (*dto.ForumOnlineResponse, error) {
	if err := s.Authorize(ctx, userID, collegeID); err != nil {
		return nil, err
	}

	return &dto.ForumOnlineResponse{
		CollegeID: collegeID,
		Online:    s.hub.Online(collegeID),
	}, nil
}
