package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/app/services"
	"github.com/ecavus/collegia/internal/pkg/helpers"
)

// CollegeController handles college endpoints
type CollegeController struct {
	collegeService *services.CollegeService
}

// NewCollegeController creates a new CollegeController
func NewCollegeController(collegeService *services.CollegeService) *CollegeController {
	return &CollegeController{collegeService: collegeService}
}

// CreateCollege godoc
// @Summary Create a college
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCollegeRequest true "College data"
// @Success 201 {object} dto.APIResponse{data=dto.CollegeResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /colleges [post]
func (c *CollegeController) CreateCollege(ctx *gin.Context) {
	var req dto.CreateCollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err, "Invalid college data")
		return
	}

	college, err := c.collegeService.Create(ctx, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.ToCollegeResponse(college)))
}

// GetColleges godoc
// @Summary List colleges
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.CollegeListResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /colleges [get]
func (c *CollegeController) GetColleges(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	response, err := c.collegeService.GetAll(ctx, page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetCollegeByID godoc
// @Summary Get a college by ID
// @Tags colleges
// @Produce json
// @Security BearerAuth
// @Param id path int true "College ID"
// @Success 200 {object} dto.APIResponse{data=dto.CollegeResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /colleges/{id} [get]
func (c *CollegeController) GetCollegeByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid college ID"),
		})
		return
	}

	college, err := c.collegeService.GetByID(ctx, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ToCollegeResponse(college)))
}

// JoinCollege godoc
// @Summary Join a college
// @Description Attach the caller to a college; forum access follows this membership
// @Tags colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.JoinCollegeRequest true "College to join"
// @Success 200 {object} dto.APIResponse{data=dto.CollegeResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /colleges/join [post]
func (c *CollegeController) JoinCollege(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.JoinCollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err, "Invalid join request")
		return
	}

	college, err := c.collegeService.Join(ctx, userID, req.CollegeID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ToCollegeResponse(college)))
}
