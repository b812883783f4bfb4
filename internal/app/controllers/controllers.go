package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/pkg/apperrors"
)

// parseIDParam parses an ID parameter from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	idStr := ctx.Param(paramName)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

// currentUserID reads the authenticated user ID the auth middleware set
func currentUserID(ctx *gin.Context) (int64, bool) {
	userID := ctx.GetInt64("userID")
	return userID, userID != 0
}

// respondBindingError turns a request binding failure into the standard
// envelope, with per-field messages when the failure came from struct
// validation.
func respondBindingError(ctx *gin.Context, err error, fallback string) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		validation := dto.NewValidationErrors()
		for _, fe := range fieldErrs {
			validation.AddError(fe.Field(), formatFieldError(fe))
		}
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
				WithDetails(validation.Errors),
		})
		return
	}

	ctx.JSON(http.StatusBadRequest, dto.APIResponse{
		Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, fallback),
	})
}

// formatFieldError creates a human-readable message for one field failure
func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "email":
		return fe.Field() + " must be a valid email address"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " failed on " + fe.Tag()
	}
}

// respondError maps a service error onto the standard envelope
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNoCollegeMembership):
		ctx.JSON(http.StatusForbidden, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeNoCollege, "Join a college first"),
		})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		ctx.JSON(http.StatusForbidden, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "You do not have access to this resource"),
		})
	case errors.Is(err, apperrors.ErrEmptyMessage):
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeEmptyMessage, "Message cannot be empty"),
		})
	case errors.Is(err, apperrors.ErrCourseTitleMismatch):
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Confirmation title does not match the course"),
		})
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password"),
		})
	case errors.Is(err, apperrors.ErrAccountDisabled):
		ctx.JSON(http.StatusForbidden, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Account is disabled"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenNotFound):
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrEmailAlreadyExists), errors.Is(err, apperrors.ErrResourceAlreadyExists):
		ctx.JSON(http.StatusConflict, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()),
		})
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrCollegeNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrNoteNotFound),
		errors.Is(err, apperrors.ErrPaperNotFound),
		errors.Is(err, apperrors.ErrFileNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		ctx.JSON(http.StatusNotFound, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "An unexpected error occurred"),
		})
	}
}

// respondUnauthorized is the canned response for a missing identity
func respondUnauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
		Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
	})
}
