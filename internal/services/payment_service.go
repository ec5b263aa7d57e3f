package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"visacenter_backend/internal/config"
	"visacenter_backend/internal/logger"
	"visacenter_backend/internal/models"
	"visacenter_backend/internal/notify"
	"visacenter_backend/internal/pricing"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/internal/services/dto"
	"visacenter_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentService interface {
	// CreateInvoice выставляет счет за консульский сбор по отправленной
	// анкете. Повторный вызов возвращает уже существующий pending счет.
	CreateInvoice(db *gorm.DB, userID, applicationID string) (*dto.InvoiceResponse, error)

	// HandleCallback обрабатывает уведомление QPay. Идемпотентно по
	// invoice id: дубликат callback не меняет состояние второй раз.
	HandleCallback(db *gorm.DB, req *dto.QPayCallbackRequest) error
}

type PaymentServiceImpl struct {
	cfg              *config.Config
	paymentRepo      repositories.PaymentRepository
	appRepo          repositories.ApplicationRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	dispatcher       *notify.Dispatcher
}

func NewPaymentService(
	cfg *config.Config,
	paymentRepo repositories.PaymentRepository,
	appRepo repositories.ApplicationRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	dispatcher *notify.Dispatcher,
) PaymentService {
	return &PaymentServiceImpl{
		cfg:              cfg,
		paymentRepo:      paymentRepo,
		appRepo:          appRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
	}
}

func (s *PaymentServiceImpl) CreateInvoice(db *gorm.DB, userID, applicationID string) (*dto.InvoiceResponse, error) {
	app, err := s.appRepo.FindByID(db, applicationID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if app.UserID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if app.Status == models.ApplicationStatusDraft {
		return nil, apperrors.ErrInvalidTransition(string(app.Status), "payment")
	}
	if app.PaymentStatus == models.PaymentStatusPaid {
		return nil, apperrors.ErrConflict("payment", "Application fee already paid")
	}

	// Существующий pending счет переиспользуем
	if existing, err := s.paymentRepo.FindPendingForApplication(db, app.ID); err == nil {
		resp := dto.NewInvoiceResponse(existing)
		return &resp, nil
	}

	amount, err := pricing.Fee(app.VisaType, app.Urgent)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	invoice := &models.PaymentInvoice{
		ApplicationID: app.ID,
		UserID:        userID,
		InvoiceID:     fmt.Sprintf("VC-%s", uuid.NewString()),
		Amount:        amount,
		Status:        models.PaymentStatusPending,
		ExpiresAt:     time.Now().Add(time.Duration(s.cfg.QPay.InvoiceTTL) * time.Hour),
	}
	if err := s.paymentRepo.Create(db, invoice); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewInvoiceResponse(invoice)
	return &resp, nil
}

func (s *PaymentServiceImpl) HandleCallback(db *gorm.DB, req *dto.QPayCallbackRequest) error {
	if !s.verifySignature(req) {
		return apperrors.ErrInvalidSignature
	}

	invoice, err := s.paymentRepo.FindByInvoiceID(db, req.InvoiceID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	// Сверка суммы против рассчитанного сбора до любых изменений
	if req.Amount != invoice.Amount {
		logger.Warn("payment callback amount mismatch",
			"invoice_id", req.InvoiceID,
			"expected", invoice.Amount,
			"got", req.Amount)
		return apperrors.ErrAmountMismatch
	}

	if req.Status == "FAILED" {
		if err := s.paymentRepo.MarkFailed(db, req.InvoiceID); err != nil {
			if apperrors.Is(err, repositories.ErrInvoiceAlreadyApplied) {
				// Дубликат callback: состояние уже конечное
				return nil
			}
			return apperrors.InternalError(err)
		}
		return nil
	}

	now := time.Now()
	if err := s.paymentRepo.MarkPaid(db, req.InvoiceID, req.TxnID, now); err != nil {
		if apperrors.Is(err, repositories.ErrInvoiceAlreadyApplied) {
			// Дубликат callback: оплата уже применена, отвечаем успехом
			logger.Info("duplicate payment callback ignored", "invoice_id", req.InvoiceID)
			return nil
		}
		return apperrors.InternalError(err)
	}

	if err := s.appRepo.SetPaymentStatus(db, invoice.ApplicationID, models.PaymentStatusPaid); err != nil {
		// Счет уже помечен оплаченным; фиксируем рассинхрон в логах
		logger.WithError(err).Error("failed to mark application paid",
			"application_id", invoice.ApplicationID, "invoice_id", invoice.InvoiceID)
	}

	s.notifyPaid(db, invoice)
	return nil
}

// verifySignature проверяет HMAC-SHA256 подпись callback.
// Подписывается строка "invoice_id|amount|status".
func (s *PaymentServiceImpl) verifySignature(req *dto.QPayCallbackRequest) bool {
	mac := hmac.New(sha256.New, []byte(s.cfg.QPay.CallbackKey))
	fmt.Fprintf(mac, "%s|%d|%s", req.InvoiceID, req.Amount, req.Status)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(req.Signature))
}

func (s *PaymentServiceImpl) notifyPaid(db *gorm.DB, invoice *models.PaymentInvoice) {
	n := &models.Notification{
		UserID:        invoice.UserID,
		ApplicationID: invoice.ApplicationID,
		Type:          models.NotificationPaymentReceived,
		Title:         "Payment received",
		Message:       fmt.Sprintf("Payment for invoice %s has been confirmed.", invoice.InvoiceID),
	}
	if err := s.notificationRepo.Create(db, n); err != nil {
		logger.WithError(err).Warn("failed to persist payment notification", "invoice_id", invoice.InvoiceID)
	}

	event := notify.Event{
		Type:          "payment_received",
		ApplicationID: invoice.ApplicationID,
		InvoiceID:     invoice.InvoiceID,
		Amount:        invoice.Amount,
	}
	if user, err := s.userRepo.FindByID(db, invoice.UserID); err == nil {
		event.UserName = user.Name
		event.UserEmail = user.Email
	}
	s.dispatcher.Dispatch(context.Background(), event)
}
