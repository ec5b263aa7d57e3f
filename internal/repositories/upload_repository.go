package repositories

import (
	"errors"

	"visacenter_backend/internal/models"

	"gorm.io/gorm"
)

var ErrUploadNotFound = errors.New("upload not found")

type UploadRepository interface {
	Create(db *gorm.DB, upload *models.Upload) error
	FindByID(db *gorm.DB, id string) (*models.Upload, error)
	ListForUser(db *gorm.DB, userID string) ([]models.Upload, error)
	Delete(db *gorm.DB, id, userID string) error
}

type UploadRepositoryImpl struct{}

func NewUploadRepository() UploadRepository {
	return &UploadRepositoryImpl{}
}

func (r *UploadRepositoryImpl) Create(db *gorm.DB, upload *models.Upload) error {
	return db.Create(upload).Error
}

func (r *UploadRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Upload, error) {
	var upload models.Upload
	err := db.First(&upload, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}

func (r *UploadRepositoryImpl) ListForUser(db *gorm.DB, userID string) ([]models.Upload, error) {
	var uploads []models.Upload
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&uploads).Error
	return uploads, err
}

func (r *UploadRepositoryImpl) Delete(db *gorm.DB, id, userID string) error {
	result := db.Delete(&models.Upload{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUploadNotFound
	}
	return nil
}
