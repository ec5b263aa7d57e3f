package repositories

import (
	"errors"
	"time"

	"visacenter_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTokenNotFound = errors.New("refresh token not found")

type RefreshTokenRepository interface {
	Create(db *gorm.DB, token *models.RefreshToken) error
	FindByToken(db *gorm.DB, token string) (*models.RefreshToken, error)
	Revoke(db *gorm.DB, token string) error
	RevokeAllForUser(db *gorm.DB, userID string) error
	DeleteExpired(db *gorm.DB) (int64, error)
}

type RefreshTokenRepositoryImpl struct{}

func NewRefreshTokenRepository() RefreshTokenRepository {
	return &RefreshTokenRepositoryImpl{}
}

func (r *RefreshTokenRepositoryImpl) Create(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *RefreshTokenRepositoryImpl) FindByToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := db.First(&rt, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (r *RefreshTokenRepositoryImpl) Revoke(db *gorm.DB, token string) error {
	return db.Model(&models.RefreshToken{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", time.Now()).Error
}

func (r *RefreshTokenRepositoryImpl) RevokeAllForUser(db *gorm.DB, userID string) error {
	return db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

// DeleteExpired чистит истекшие и отозванные токены (вызывается воркером)
func (r *RefreshTokenRepositoryImpl) DeleteExpired(db *gorm.DB) (int64, error) {
	result := db.
		Where("expires_at < ? OR revoked_at IS NOT NULL", time.Now()).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
