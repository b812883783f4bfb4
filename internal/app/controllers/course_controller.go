package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/app/services"
	"github.com/ecavus/collegia/internal/pkg/helpers"
)

// CourseController handles course endpoints
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// CreateCourse godoc
// @Summary Create a course
// @Description Add a course to the caller's college
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course data"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err, "Invalid course data")
		return
	}

	course, err := c.courseService.Create(ctx, userID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.ToCourseResponse(course)))
}

// BulkCreateCourses godoc
// @Summary Create several courses at once
// @Description Add up to 50 courses to the caller's college in one transaction
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkCreateCoursesRequest true "Courses to create"
// @Success 201 {object} dto.APIResponse{data=dto.CourseListResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/bulk [post]
func (c *CourseController) BulkCreateCourses(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.BulkCreateCoursesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err, "Invalid course data")
		return
	}

	courses, err := c.courseService.BulkCreate(ctx, userID, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	items := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, dto.ToCourseResponse(course))
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.CourseListResponse{Courses: items}))
}

// GetCourses godoc
// @Summary List the caller's college courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses [get]
func (c *CourseController) GetCourses(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	response, err := c.courseService.GetAll(ctx, userID, page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetCourseByID godoc
// @Summary Get a course by ID
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid course ID"),
		})
		return
	}

	course, err := c.courseService.GetByID(ctx, userID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ToCourseResponse(course)))
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Delete a course and everything under it. The exact course title must be sent as confirmation.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.DeleteCourseRequest true "Confirmation"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid course ID"),
		})
		return
	}

	var req dto.DeleteCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err, "Confirmation title is required")
		return
	}

	if err := c.courseService.Delete(ctx, userID, id, req.ConfirmTitle); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Course deleted"}))
}
