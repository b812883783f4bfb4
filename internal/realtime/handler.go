package realtime

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
)

// SessionDirectory resolves the identity facts a websocket session
// needs: the user's current college membership and the presence
// payload announced on the channel.
type SessionDirectory interface {
	Membership(ctx context.Context, userID int64) (int64, error)
	Presence(ctx context.Context, userID int64) (PresencePayload, error)
}

// Handler upgrades authenticated HTTP requests to forum websocket
// sessions.
type Handler struct {
	hub       *Hub
	gate      Gate
	directory SessionDirectory
	sender    MessageSender
	logger    zerolog.Logger
}

// NewHandler creates a websocket handler.
func NewHandler(hub *Hub, gate Gate, directory SessionDirectory, sender MessageSender, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:       hub,
		gate:      gate,
		directory: directory,
		sender:    sender,
		logger:    logger,
	}
}

// HandleConnection godoc
// @Summary Open the realtime forum channel
// @Description Upgrades to a WebSocket delivering live forum messages and presence roster snapshots for the caller's college. An optional collegeId query parameter is checked against the caller's membership and refused on mismatch.
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param collegeId query int false "College ID (defaults to the caller's college)"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "No college joined, or college mismatch"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	userID := c.GetInt64("userID")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	collegeID, err := h.directory.Membership(c, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoCollegeMembership) {
			c.JSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeNoCollege, "Join a college to use the forum")))
			return
		}
		h.logger.Error().Err(err).Int64("userID", userID).Msg("Membership lookup failed")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to resolve college membership")))
		return
	}

	// A caller may name a college explicitly; anything other than its
	// own membership is refused.
	if requested := c.Query("collegeId"); requested != "" {
		requestedID, parseErr := strconv.ParseInt(requested, 10, 64)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid college ID")))
			return
		}
		if err := h.gate.Authorize(c, userID, requestedID); err != nil {
			c.JSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeForbidden, "Not a member of this college")))
			return
		}
		collegeID = requestedID
	}

	presence, err := h.directory.Presence(c, userID)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", userID).Msg("Presence payload lookup failed")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to resolve user profile")))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).
			Int64("collegeID", collegeID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		conn:      conn,
		sub:       h.hub.Subscribe(collegeID, presence),
		hub:       h.hub,
		sender:    h.sender,
		userID:    userID,
		collegeID: collegeID,
		direct:    make(chan Event, 4),
		logger:    h.logger,
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("collegeID", collegeID).
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Forum WebSocket connection established")
}
