package handlers

import (
	"net/http"

	"visacenter_backend/internal/middleware"
	"visacenter_backend/internal/services"
	"visacenter_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware())
	{
		uploads.POST("", h.UploadFile)
		uploads.GET("", h.GetMyUploads)
		uploads.DELETE("/:id", h.DeleteUpload)
	}
}

// UploadFile - загрузка одного документа (multipart form).
// Поля формы: file, application_id (опционально), usage (passport, photo, ...).
func (h *UploadHandler) UploadFile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("no file provided"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	db := h.GetDB(c)

	upload, err := h.uploadService.Upload(c.Request.Context(), db, userID, &services.UploadInput{
		FileName:      fileHeader.Filename,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		Size:          fileHeader.Size,
		ApplicationID: c.PostForm("application_id"),
		Usage:         c.PostForm("usage"),
		Reader:        file,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, upload)
}

func (h *UploadHandler) GetMyUploads(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	uploads, err := h.uploadService.ListForUser(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": uploads})
}

func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	if err := h.uploadService.Delete(c.Request.Context(), db, c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upload deleted"})
}
