package repositories

import (
	"errors"

	"visacenter_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(db *gorm.DB, n *models.Notification) error
	ListForUser(db *gorm.DB, userID string, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(db *gorm.DB, id, userID string) error
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, n *models.Notification) error {
	return db.Create(n).Error
}

func (r *NotificationRepositoryImpl) ListForUser(db *gorm.DB, userID string, limit, offset int) ([]models.Notification, int64, error) {
	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	var items []models.Notification
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error

	return items, total, err
}

func (r *NotificationRepositoryImpl) MarkRead(db *gorm.DB, id, userID string) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
