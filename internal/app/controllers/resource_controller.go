package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/app/services"
	"github.com/ecavus/collegia/internal/pkg/helpers"
)

// ResourceController handles note and paper endpoints
type ResourceController struct {
	resourceService *services.ResourceService
}

// NewResourceController creates a new ResourceController
func NewResourceController(resourceService *services.ResourceService) *ResourceController {
	return &ResourceController{resourceService: resourceService}
}

// UploadNote godoc
// @Summary Upload a course note
// @Tags notes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param title formData string true "Note title"
// @Param description formData string false "Note description"
// @Param file formData file true "Note file"
// @Success 201 {object} dto.APIResponse{data=dto.NoteResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id}/notes [post]
func (c *ResourceController) UploadNote(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	courseID, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid course ID"),
		})
		return
	}

	var req dto.UploadNoteRequest
	if err := ctx.ShouldBind(&req); err != nil {
		respondBindingError(ctx, err, "Invalid note data")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "A file is required"),
		})
		return
	}

	note, err := c.resourceService.UploadNote(ctx, userID, courseID, &req, file)
	if err != nil {
		respondError(ctx, err)
		return
	}

	downloadURL := "/api/v1/files/download?" + c.resourceService.DownloadQuery(note.FilePath)
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.ToNoteResponse(note, downloadURL)))
}

// GetNotes godoc
// @Summary List a course's notes
// @Description Notes come back with short-lived signed download URLs
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.NoteListResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id}/notes [get]
func (c *ResourceController) GetNotes(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	courseID, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid course ID"),
		})
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	response, err := c.resourceService.GetNotes(ctx, userID, courseID, page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeleteNote godoc
// @Summary Delete a note
// @Description Only the uploader may delete a note; the stored file goes with it
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Note ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /notes/{id} [delete]
func (c *ResourceController) DeleteNote(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid note ID"),
		})
		return
	}

	if err := c.resourceService.DeleteNote(ctx, userID, id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Note deleted"}))
}

// UploadPaper godoc
// @Summary Upload a past paper
// @Tags papers
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param title formData string true "Paper title"
// @Param description formData string false "Paper description"
// @Param file formData file true "Paper file"
// @Success 201 {object} dto.APIResponse{data=dto.PaperResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id}/papers [post]
func (c *ResourceController) UploadPaper(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	courseID, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid course ID"),
		})
		return
	}

	var req dto.UploadPaperRequest
	if err := ctx.ShouldBind(&req); err != nil {
		respondBindingError(ctx, err, "Invalid paper data")
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "A file is required"),
		})
		return
	}

	paper, err := c.resourceService.UploadPaper(ctx, userID, courseID, &req, file)
	if err != nil {
		respondError(ctx, err)
		return
	}

	downloadURL := "/api/v1/files/download?" + c.resourceService.DownloadQuery(paper.FilePath)
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.ToPaperResponse(paper, downloadURL)))
}

// GetPapers godoc
// @Summary List a course's past papers
// @Description Papers come back with short-lived signed download URLs
// @Tags papers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.PaperListResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id}/papers [get]
func (c *ResourceController) GetPapers(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	courseID, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid course ID"),
		})
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	response, err := c.resourceService.GetPapers(ctx, userID, courseID, page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeletePaper godoc
// @Summary Delete a past paper
// @Description Only the uploader may delete a paper; the stored file goes with it
// @Tags papers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Paper ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /papers/{id} [delete]
func (c *ResourceController) DeletePaper(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid paper ID"),
		})
		return
	}

	if err := c.resourceService.DeletePaper(ctx, userID, id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Paper deleted"}))
}
