package services

import (
	"visacenter_backend/internal/models"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService interface {
	ListForUser(db *gorm.DB, userID string, page, pageSize int) ([]models.Notification, int64, error)
	MarkRead(db *gorm.DB, id, userID string) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *NotificationServiceImpl) ListForUser(db *gorm.DB, userID string, page, pageSize int) ([]models.Notification, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	items, total, err := s.notificationRepo.ListForUser(db, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return items, total, nil
}

func (s *NotificationServiceImpl) MarkRead(db *gorm.DB, id, userID string) error {
	if err := s.notificationRepo.MarkRead(db, id, userID); err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
