package services

import (
	"context"
	"time"

	"visacenter_backend/internal/logger"
	"visacenter_backend/internal/models"
	"visacenter_backend/internal/notify"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/internal/services/dto"
	"visacenter_backend/internal/wizard"
	"visacenter_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ApplicationService interface {
	// GetDraft возвращает черновик пользователя по типу визы,
	// создавая пустой на шаге 0, если черновика еще нет.
	GetDraft(db *gorm.DB, userID string, visaType models.VisaType) (*dto.ApplicationResponse, error)

	GetByID(db *gorm.DB, userID string, role models.UserRole, id string) (*dto.ApplicationResponse, error)

	// SaveStep валидирует и сохраняет секцию шага. Сохранение вне
	// очереди допустимо как правка, но CurrentStep продвигается только
	// до первого незаполненного обязательного шага.
	SaveStep(db *gorm.DB, userID, draftID string, req *dto.SaveStepRequest) (*dto.ApplicationResponse, error)

	// Submit переводит draft -> submitted; после этого анкета
	// недоступна заявителю на запись.
	Submit(db *gorm.DB, userID, draftID string) (*dto.ApplicationResponse, error)

	ListOwn(db *gorm.DB, userID string) ([]dto.ApplicationResponse, error)
}

type ApplicationServiceImpl struct {
	appRepo          repositories.ApplicationRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	dispatcher       *notify.Dispatcher
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	dispatcher *notify.Dispatcher,
) ApplicationService {
	return &ApplicationServiceImpl{
		appRepo:          appRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
	}
}

func (s *ApplicationServiceImpl) GetDraft(db *gorm.DB, userID string, visaType models.VisaType) (*dto.ApplicationResponse, error) {
	app, err := s.appRepo.FindDraft(db, userID, visaType)
	if err == nil {
		resp := dto.NewApplicationResponse(app)
		return &resp, nil
	}
	if !apperrors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.InternalError(err)
	}

	app = &models.Application{
		UserID:      userID,
		VisaType:    visaType,
		Status:      models.ApplicationStatusDraft,
		CurrentStep: 0,
		Sections:    datatypes.JSONMap{},
	}
	if err := s.appRepo.Create(db, app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

func (s *ApplicationServiceImpl) GetByID(db *gorm.DB, userID string, role models.UserRole, id string) (*dto.ApplicationResponse, error) {
	app, err := s.appRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	// Чужая анкета видна только admin/agent
	if app.UserID != userID && role == models.UserRoleUser {
		return nil, apperrors.ErrInsufficientPermissions
	}

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

// saveStepAttempts - попытки записи секции при конкурентном изменении черновика
const saveStepAttempts = 3

func (s *ApplicationServiceImpl) SaveStep(db *gorm.DB, userID, draftID string, req *dto.SaveStepRequest) (*dto.ApplicationResponse, error) {
	step, ok := wizard.StepByName(req.Step)
	if !ok {
		return nil, apperrors.NewBadRequestError("Unknown application step: " + req.Step)
	}

	// Last-write-wins действует внутри одной секции; разные секции,
	// сохраняемые параллельно (две вкладки), не должны терять друг друга.
	// Запись идет под проверкой версии, проигравший перечитывает и повторяет.
	for attempt := 0; attempt < saveStepAttempts; attempt++ {
		app, err := s.appRepo.FindByID(db, draftID)
		if err != nil {
			return nil, apperrors.ErrNotFound(err)
		}
		if app.UserID != userID {
			return nil, apperrors.ErrInsufficientPermissions
		}
		if app.Status != models.ApplicationStatusDraft {
			return nil, apperrors.ErrApplicationReadOnly
		}

		if fieldErrs := wizard.ValidateSection(step, req.Data); len(fieldErrs) > 0 {
			return nil, apperrors.ValidationError(fieldErrs)
		}

		sections := datatypes.JSONMap{}
		for k, v := range app.Sections {
			sections[k] = v
		}
		sections[step.Name] = req.Data

		currentStep := wizard.FirstIncompleteStep(sections)
		err = s.appRepo.UpdateSectionsVersioned(db, app.ID, app.Version, sections, currentStep)
		if err == nil {
			app.Sections = sections
			app.CurrentStep = currentStep
			app.Version++

			resp := dto.NewApplicationResponse(app)
			return &resp, nil
		}
		if apperrors.Is(err, repositories.ErrVersionConflict) {
			continue
		}
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationReadOnly
		}
		return nil, apperrors.InternalError(err)
	}

	return nil, apperrors.ErrConflict("application", "Draft was modified concurrently, retry the save")
}

func (s *ApplicationServiceImpl) Submit(db *gorm.DB, userID, draftID string) (*dto.ApplicationResponse, error) {
	app, err := s.appRepo.FindByID(db, draftID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if app.UserID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if app.Status != models.ApplicationStatusDraft {
		return nil, apperrors.ErrInvalidTransition(string(app.Status), string(models.ApplicationStatusSubmitted))
	}

	if missing := wizard.MissingRequired(app.Sections); len(missing) > 0 {
		return nil, apperrors.ErrIncompleteApplication(missing)
	}

	now := time.Now()
	err = s.appRepo.UpdateStatusVersioned(db, app.ID, app.Version, map[string]interface{}{
		"status":       models.ApplicationStatusSubmitted,
		"submitted_at": now,
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrVersionConflict) {
			return nil, apperrors.ErrConflict("application", "Application was modified concurrently, refresh and retry")
		}
		return nil, apperrors.InternalError(err)
	}

	app.Status = models.ApplicationStatusSubmitted
	app.SubmittedAt = &now
	app.Version++

	s.notifySubmitted(db, app)

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

func (s *ApplicationServiceImpl) ListOwn(db *gorm.DB, userID string) ([]dto.ApplicationResponse, error) {
	apps, _, err := s.appRepo.List(db, repositories.ApplicationFilter{
		UserID:   userID,
		PageSize: 100,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, dto.NewApplicationResponse(&apps[i]))
	}
	return items, nil
}

// notifySubmitted пишет персистентное уведомление и рассылает событие.
// Ошибки здесь не роняют submit: запись в БД уже зафиксирована.
func (s *ApplicationServiceImpl) notifySubmitted(db *gorm.DB, app *models.Application) {
	n := &models.Notification{
		UserID:        app.UserID,
		ApplicationID: app.ID,
		Type:          models.NotificationApplicationSubmitted,
		Title:         "Application submitted",
		Message:       "Your visa application has been submitted and is awaiting review.",
	}
	if err := s.notificationRepo.Create(db, n); err != nil {
		logger.WithError(err).Warn("failed to persist submission notification", "application_id", app.ID)
	}

	event := notify.Event{
		Type:          "application_submitted",
		ApplicationID: app.ID,
		VisaType:      string(app.VisaType),
	}
	if user, err := s.userRepo.FindByID(db, app.UserID); err == nil {
		event.UserName = user.Name
		event.UserEmail = user.Email
	}
	s.dispatcher.Dispatch(context.Background(), event)
}
