package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/app/services"
)

// ForumController handles the REST side of the college forum.
// The live channel itself is served by the websocket handler.
type ForumController struct {
	forumService *services.ForumService
}

// NewForumController creates a new ForumController
func NewForumController(forumService *services.ForumService) *ForumController {
	return &ForumController{forumService: forumService}
}

// forumCollegeID resolves which college the request targets: the
// explicit path parameter when present, the caller's membership otherwise.
func (c *ForumController) forumCollegeID(ctx *gin.Context, userID int64) (int64, error) {
	if ctx.Param("collegeId") != "" {
		return parseIDParam(ctx, "collegeId")
	}
	return c.forumService.Membership(ctx, userID)
}

// GetHistory godoc
// @Summary Get forum message history
// @Description Returns every message of the college's forum in commit order, oldest first
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param collegeId path int true "College ID"
// @Success 200 {object} dto.APIResponse{data=dto.ForumHistoryResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /forum/{collegeId}/messages [get]
func (c *ForumController) GetHistory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	collegeID, err := c.forumCollegeID(ctx, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response, err := c.forumService.GetHistory(ctx, userID, collegeID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// SendMessage godoc
// @Summary Post a forum message
// @Description Persists the message and broadcasts it to everyone on the college's channel
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param collegeId path int true "College ID"
// @Param request body dto.SendMessageRequest true "Message body"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /forum/{collegeId}/messages [post]
func (c *ForumController) SendMessage(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	collegeID, err := c.forumCollegeID(ctx, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeEmptyMessage, "Message cannot be empty"),
		})
		return
	}

	if err := c.forumService.Send(ctx, userID, collegeID, req.Message); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Message sent"}))
}

// GetOnline godoc
// @Summary Get the online member count
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param collegeId path int true "College ID"
// @Success 200 {object} dto.APIResponse{data=dto.ForumOnlineResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /forum/{collegeId}/online [get]
func (c *ForumController) GetOnline(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	collegeID, err := c.forumCollegeID(ctx, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response, err := c.forumService.Online(ctx, userID, collegeID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
