package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecavus/collegia/internal/app/models/dto"
	"github.com/ecavus/collegia/internal/pkg/filestorage"
)

// FileController serves stored files behind signed URLs. The signature
// is the whole authorization: no session is required, and an expired or
// tampered link is refused.
type FileController struct {
	storage filestorage.Storage
	signer  *filestorage.URLSigner
}

// NewFileController creates a new FileController
func NewFileController(storage filestorage.Storage, signer *filestorage.URLSigner) *FileController {
	return &FileController{storage: storage, signer: signer}
}

// Download godoc
// @Summary Download a stored file
// @Description Serves a note or paper file. The path, expires and signature query parameters come from a signed URL issued by the API.
// @Tags files
// @Produce octet-stream
// @Param path query string true "Object path"
// @Param expires query string true "Expiry timestamp"
// @Param signature query string true "HMAC signature"
// @Success 200 {file} binary
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /files/download [get]
func (c *FileController) Download(ctx *gin.Context) {
	objectPath := ctx.Query("path")
	expires := ctx.Query("expires")
	signature := ctx.Query("signature")

	if err := c.signer.Verify(objectPath, expires, signature, time.Now()); err != nil {
		message := "Invalid download link"
		if errors.Is(err, filestorage.ErrSignatureExpired) {
			message = "Download link has expired"
		}
		ctx.JSON(http.StatusForbidden, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, message),
		})
		return
	}

	if !c.storage.Exists(objectPath) {
		ctx.JSON(http.StatusNotFound, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "File not found"),
		})
		return
	}

	ctx.File(c.storage.FullPath(objectPath))
}
