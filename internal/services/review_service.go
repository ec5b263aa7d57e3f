package services

import (
	"context"
	"time"

	"visacenter_backend/internal/logger"
	"visacenter_backend/internal/models"
	"visacenter_backend/internal/notify"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/internal/services/dto"
	"visacenter_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// allowedTransitions - таблица переходов review workflow.
// approved и rejected конечные: из них переходов нет.
var allowedTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationStatusSubmitted: {models.ApplicationStatusInReview},
	models.ApplicationStatusInReview:  {models.ApplicationStatusApproved, models.ApplicationStatusRejected},
}

// TransitionAllowed проверяет переход по таблице
func TransitionAllowed(from, to models.ApplicationStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

type ReviewService interface {
	List(db *gorm.DB, query *dto.ListApplicationsQuery) (*dto.ApplicationListResponse, error)
	UpdateStatus(db *gorm.DB, reviewerID, applicationID string, req *dto.UpdateStatusRequest) (*dto.ApplicationResponse, error)
}

type ReviewServiceImpl struct {
	appRepo          repositories.ApplicationRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	dispatcher       *notify.Dispatcher
}

func NewReviewService(
	appRepo repositories.ApplicationRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	dispatcher *notify.Dispatcher,
) ReviewService {
	return &ReviewServiceImpl{
		appRepo:          appRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
	}
}

func (s *ReviewServiceImpl) List(db *gorm.DB, query *dto.ListApplicationsQuery) (*dto.ApplicationListResponse, error) {
	filter := repositories.ApplicationFilter{
		Status:   models.ApplicationStatus(query.Status),
		VisaType: models.VisaType(query.VisaType),
		Page:     query.Page,
		PageSize: query.PageSize,
	}

	apps, total, err := s.appRepo.List(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, dto.NewApplicationResponse(&apps[i]))
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return &dto.ApplicationListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateStatus выполняет переход статуса с note и оптимистичной проверкой
// версии; на каждый переход эмитится уведомление заявителю.
func (s *ReviewServiceImpl) UpdateStatus(db *gorm.DB, reviewerID, applicationID string, req *dto.UpdateStatusRequest) (*dto.ApplicationResponse, error) {
	newStatus := models.ApplicationStatus(req.Status)

	app, err := s.appRepo.FindByID(db, applicationID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if !TransitionAllowed(app.Status, newStatus) {
		return nil, apperrors.ErrInvalidTransition(string(app.Status), string(newStatus))
	}

	updates := map[string]interface{}{
		"status":      newStatus,
		"review_note": req.Note,
		"reviewed_by": reviewerID,
	}
	var decidedAt *time.Time
	if newStatus.IsTerminal() {
		now := time.Now()
		decidedAt = &now
		updates["decided_at"] = now
	}

	err = s.appRepo.UpdateStatusVersioned(db, app.ID, app.Version, updates)
	if err != nil {
		if apperrors.Is(err, repositories.ErrVersionConflict) {
			return nil, apperrors.ErrConflict("application", "Application status changed concurrently, refresh and retry")
		}
		return nil, apperrors.InternalError(err)
	}

	app.Status = newStatus
	app.ReviewNote = req.Note
	app.ReviewedBy = reviewerID
	app.DecidedAt = decidedAt
	app.Version++

	s.notifyStatusChanged(db, app)

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

func (s *ReviewServiceImpl) notifyStatusChanged(db *gorm.DB, app *models.Application) {
	n := &models.Notification{
		UserID:        app.UserID,
		ApplicationID: app.ID,
		Type:          models.NotificationStatusChanged,
		Title:         "Application status updated",
		Message:       "Your visa application status is now: " + string(app.Status),
	}
	if err := s.notificationRepo.Create(db, n); err != nil {
		logger.WithError(err).Warn("failed to persist status notification", "application_id", app.ID)
	}

	event := notify.Event{
		Type:          "status_changed",
		ApplicationID: app.ID,
		Status:        string(app.Status),
		Note:          app.ReviewNote,
	}
	if user, err := s.userRepo.FindByID(db, app.UserID); err == nil {
		event.UserName = user.Name
		event.UserEmail = user.Email
	}
	s.dispatcher.Dispatch(context.Background(), event)
}
