package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"visacenter_backend/internal/config"
	"visacenter_backend/internal/logger"
	"visacenter_backend/internal/models"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/internal/storage"
	"visacenter_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadInput struct {
	FileName      string
	ContentType   string
	Size          int64
	ApplicationID string
	Usage         string
	Reader        io.Reader
}

type UploadService interface {
	// Upload сохраняет файл в хранилище и возвращает запись со
	// стабильным публичным URL.
	Upload(ctx context.Context, db *gorm.DB, userID string, in *UploadInput) (*models.Upload, error)
	ListForUser(db *gorm.DB, userID string) ([]models.Upload, error)
	Delete(ctx context.Context, db *gorm.DB, id, userID string) error
}

type UploadServiceImpl struct {
	cfg        *config.Config
	uploadRepo repositories.UploadRepository
	store      storage.Storage
}

func NewUploadService(cfg *config.Config, uploadRepo repositories.UploadRepository, store storage.Storage) UploadService {
	return &UploadServiceImpl{
		cfg:        cfg,
		uploadRepo: uploadRepo,
		store:      store,
	}
}

func (s *UploadServiceImpl) Upload(ctx context.Context, db *gorm.DB, userID string, in *UploadInput) (*models.Upload, error) {
	if in.Size > s.cfg.Upload.MaxSize {
		return nil, apperrors.New(
			apperrors.CodeValidationFailed,
			"upload",
			fmt.Sprintf("File exceeds the maximum size of %d bytes", s.cfg.Upload.MaxSize),
			413,
		)
	}

	if !s.typeAllowed(in.ContentType) {
		return nil, apperrors.New(
			apperrors.CodeValidationFailed,
			"upload",
			"File type is not allowed",
			415,
		)
	}

	// Путь: <userID>/<uuid><ext> - имя файла пользователя в путь не попадает
	path := fmt.Sprintf("%s/%s%s", userID, uuid.NewString(), filepath.Ext(in.FileName))

	if err := s.store.Save(ctx, path, in.Reader, in.ContentType); err != nil {
		return nil, apperrors.ErrUpstream(err, "Failed to store uploaded file")
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	upload := &models.Upload{
		UserID:        userID,
		ApplicationID: in.ApplicationID,
		FileName:      in.FileName,
		Path:          path,
		URL:           url,
		MimeType:      in.ContentType,
		Size:          in.Size,
		Usage:         in.Usage,
	}
	if err := s.uploadRepo.Create(db, upload); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return upload, nil
}

func (s *UploadServiceImpl) ListForUser(db *gorm.DB, userID string) ([]models.Upload, error) {
	uploads, err := s.uploadRepo.ListForUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return uploads, nil
}

func (s *UploadServiceImpl) Delete(ctx context.Context, db *gorm.DB, id, userID string) error {
	upload, err := s.uploadRepo.FindByID(db, id)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if upload.UserID != userID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.uploadRepo.Delete(db, id, userID); err != nil {
		return apperrors.InternalError(err)
	}

	// Файл в хранилище чистим best-effort после удаления записи
	if err := s.store.Delete(ctx, upload.Path); err != nil {
		logger.WithError(err).Warn("failed to delete stored file",
			"upload_id", id, "path", upload.Path)
	}
	return nil
}

func (s *UploadServiceImpl) typeAllowed(contentType string) bool {
	for _, t := range s.cfg.Upload.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
