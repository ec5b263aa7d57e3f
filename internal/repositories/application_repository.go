package repositories

import (
	"errors"

	"visacenter_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	// ErrVersionConflict - версия анкеты изменилась между чтением и записью
	ErrVersionConflict = errors.New("application version conflict")
)

type ApplicationFilter struct {
	Status   models.ApplicationStatus
	VisaType models.VisaType
	UserID   string
	Page     int
	PageSize int
}

type ApplicationRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindDraft(db *gorm.DB, userID string, visaType models.VisaType) (*models.Application, error)
	Create(db *gorm.DB, app *models.Application) error

	// UpdateSectionsVersioned - запись секций черновика с проверкой версии.
	// Возвращает ErrVersionConflict, если черновик изменен конкурентно,
	// и ErrApplicationNotFound, если анкеты нет или она уже не draft.
	UpdateSectionsVersioned(db *gorm.DB, id string, version int, sections datatypes.JSONMap, currentStep int) error

	// UpdateStatusVersioned выполняет переход статуса с проверкой версии.
	// Возвращает ErrVersionConflict, если строка с указанной версией
	// уже изменена конкурентным запросом.
	UpdateStatusVersioned(db *gorm.DB, id string, version int, updates map[string]interface{}) error

	SetPaymentStatus(db *gorm.DB, id string, status models.PaymentStatus) error

	List(db *gorm.DB, filter ApplicationFilter) ([]models.Application, int64, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var app models.Application
	err := db.First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// FindDraft ищет незавершенный черновик пользователя по типу визы
func (r *ApplicationRepositoryImpl) FindDraft(db *gorm.DB, userID string, visaType models.VisaType) (*models.Application, error) {
	var app models.Application
	err := db.
		Where("user_id = ? AND visa_type = ? AND status = ?",
			userID, visaType, models.ApplicationStatusDraft).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.Application) error {
	return db.Create(app).Error
}

func (r *ApplicationRepositoryImpl) UpdateSectionsVersioned(db *gorm.DB, id string, version int, sections datatypes.JSONMap, currentStep int) error {
	result := db.Model(&models.Application{}).
		Where("id = ? AND status = ? AND version = ?", id, models.ApplicationStatusDraft, version).
		Updates(map[string]interface{}{
			"sections":     sections,
			"current_step": currentStep,
			"version":      version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Либо черновика нет (удален или уже не draft), либо версия ушла вперед
		var app models.Application
		err := db.Select("id").
			First(&app, "id = ? AND status = ?", id, models.ApplicationStatusDraft).Error
		if err != nil {
			return ErrApplicationNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *ApplicationRepositoryImpl) UpdateStatusVersioned(db *gorm.DB, id string, version int, updates map[string]interface{}) error {
	updates["version"] = version + 1

	result := db.Model(&models.Application{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Либо анкеты нет, либо версия ушла вперед
		var app models.Application
		if err := db.Select("id").First(&app, "id = ?", id).Error; err != nil {
			return ErrApplicationNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (r *ApplicationRepositoryImpl) SetPaymentStatus(db *gorm.DB, id string, status models.PaymentStatus) error {
	return db.Model(&models.Application{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

func (r *ApplicationRepositoryImpl) List(db *gorm.DB, filter ApplicationFilter) ([]models.Application, int64, error) {
	query := db.Model(&models.Application{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else if filter.UserID == "" {
		// Админский список по умолчанию не показывает черновики.
		// Владелец (фильтр по UserID) видит и свои черновики.
		query = query.Where("status <> ?", models.ApplicationStatusDraft)
	}
	if filter.VisaType != "" {
		query = query.Where("visa_type = ?", filter.VisaType)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	var apps []models.Application
	err := query.
		Order("submitted_at DESC NULLS LAST, created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&apps).Error

	return apps, total, err
}
