package repositories

import (
	"errors"
	"time"

	"visacenter_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrInvoiceAlreadyApplied - счет уже в конечном состоянии,
	// повторный callback не должен ничего менять
	ErrInvoiceAlreadyApplied = errors.New("invoice already applied")
)

type PaymentRepository interface {
	Create(db *gorm.DB, invoice *models.PaymentInvoice) error
	FindByInvoiceID(db *gorm.DB, invoiceID string) (*models.PaymentInvoice, error)
	FindPendingForApplication(db *gorm.DB, applicationID string) (*models.PaymentInvoice, error)

	// MarkPaid переводит pending -> paid условным UPDATE.
	// Возвращает ErrInvoiceAlreadyApplied, если счет уже не pending:
	// это и есть защита от дублей callback.
	MarkPaid(db *gorm.DB, invoiceID string, gatewayTxnID string, paidAt time.Time) error
	MarkFailed(db *gorm.DB, invoiceID string) error

	ExpireStale(db *gorm.DB, now time.Time) (int64, error)
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

func (r *PaymentRepositoryImpl) Create(db *gorm.DB, invoice *models.PaymentInvoice) error {
	return db.Create(invoice).Error
}

func (r *PaymentRepositoryImpl) FindByInvoiceID(db *gorm.DB, invoiceID string) (*models.PaymentInvoice, error) {
	var inv models.PaymentInvoice
	err := db.First(&inv, "invoice_id = ?", invoiceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PaymentRepositoryImpl) FindPendingForApplication(db *gorm.DB, applicationID string) (*models.PaymentInvoice, error) {
	var inv models.PaymentInvoice
	err := db.
		Where("application_id = ? AND status = ?", applicationID, models.PaymentStatusPending).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PaymentRepositoryImpl) MarkPaid(db *gorm.DB, invoiceID string, gatewayTxnID string, paidAt time.Time) error {
	result := db.Model(&models.PaymentInvoice{}).
		Where("invoice_id = ? AND status = ?", invoiceID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         models.PaymentStatusPaid,
			"gateway_txn_id": gatewayTxnID,
			"paid_at":        paidAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var inv models.PaymentInvoice
		if err := db.Select("id").First(&inv, "invoice_id = ?", invoiceID).Error; err != nil {
			return ErrInvoiceNotFound
		}
		return ErrInvoiceAlreadyApplied
	}
	return nil
}

func (r *PaymentRepositoryImpl) MarkFailed(db *gorm.DB, invoiceID string) error {
	result := db.Model(&models.PaymentInvoice{}).
		Where("invoice_id = ? AND status = ?", invoiceID, models.PaymentStatusPending).
		Update("status", models.PaymentStatusFailed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceAlreadyApplied
	}
	return nil
}

// ExpireStale помечает неоплаченные счета с истекшим сроком (воркер)
func (r *PaymentRepositoryImpl) ExpireStale(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.PaymentInvoice{}).
		Where("status = ? AND expires_at < ?", models.PaymentStatusPending, now).
		Update("status", models.PaymentStatusExpired)
	return result.RowsAffected, result.Error
}
