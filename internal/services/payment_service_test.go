package services_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"visacenter_backend/internal/models"
	"visacenter_backend/internal/notify"
	"visacenter_backend/internal/pricing"
	"visacenter_backend/internal/services"
	"visacenter_backend/internal/services/dto"
	"visacenter_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	svc              services.PaymentService
	paymentRepo      *fakePaymentRepo
	appRepo          *fakeApplicationRepo
	notificationRepo *fakeNotificationRepo
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	paymentRepo := newFakePaymentRepo()
	appRepo := newFakeApplicationRepo()
	userRepo := newFakeUserRepo()
	notificationRepo := newFakeNotificationRepo()
	svc := services.NewPaymentService(testConfig(), paymentRepo, appRepo, userRepo, notificationRepo, notify.NewDispatcher())

	require.NoError(t, userRepo.Create(nil, &models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "bat@test.mn",
		Name:      "Bat",
	}))

	return &paymentFixture{
		svc:              svc,
		paymentRepo:      paymentRepo,
		appRepo:          appRepo,
		notificationRepo: notificationRepo,
	}
}

func (f *paymentFixture) submittedApplication(t *testing.T, urgent bool) *models.Application {
	t.Helper()
	now := time.Now()
	app := &models.Application{
		BaseModel:     models.BaseModel{ID: "app-1"},
		UserID:        "user-1",
		VisaType:      models.VisaTypeTourist,
		Status:        models.ApplicationStatusSubmitted,
		SubmittedAt:   &now,
		Urgent:        urgent,
		PaymentStatus: models.PaymentStatusPending,
		Version:       2,
	}
	require.NoError(t, f.appRepo.Create(nil, app))
	return app
}

// sign строит подпись так же, как шлюз: HMAC-SHA256("invoice_id|amount|status")
func sign(invoiceID string, amount int64, status string) string {
	mac := hmac.New(sha256.New, []byte("callback-secret"))
	fmt.Fprintf(mac, "%s|%d|%s", invoiceID, amount, status)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateInvoice_Amounts(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)
	f.submittedApplication(t, true)

	inv, err := f.svc.CreateInvoice(nil, "user-1", "app-1")
	require.NoError(t, err)

	expected, err := pricing.Fee(models.VisaTypeTourist, true)
	require.NoError(t, err)
	assert.Equal(t, expected, inv.Amount)
	assert.Equal(t, models.PaymentStatusPending, inv.Status)
	assert.True(t, inv.ExpiresAt.After(time.Now()))
}

func TestCreateInvoice_ReusesPending(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)
	f.submittedApplication(t, false)

	first, err := f.svc.CreateInvoice(nil, "user-1", "app-1")
	require.NoError(t, err)
	second, err := f.svc.CreateInvoice(nil, "user-1", "app-1")
	require.NoError(t, err)

	assert.Equal(t, first.InvoiceID, second.InvoiceID)
}

func TestCreateInvoice_DraftRejected(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)

	require.NoError(t, f.appRepo.Create(nil, &models.Application{
		BaseModel: models.BaseModel{ID: "app-1"},
		UserID:    "user-1",
		VisaType:  models.VisaTypeTourist,
		Status:    models.ApplicationStatusDraft,
	}))

	_, err := f.svc.CreateInvoice(nil, "user-1", "app-1")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidTransition, appErr.Code)
}

func TestCreateInvoice_ForeignApplication(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)
	f.submittedApplication(t, false)

	_, err := f.svc.CreateInvoice(nil, "user-2", "app-1")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}

func TestHandleCallback_Paid(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)
	f.submittedApplication(t, false)

	inv, err := f.svc.CreateInvoice(nil, "user-1", "app-1")
	require.NoError(t, err)

	err = f.svc.HandleCallback(nil, &dto.QPayCallbackRequest{
		InvoiceID: inv.InvoiceID,
		Amount:    inv.Amount,
		Status:    "PAID",
		TxnID:     "qpay-txn-42",
		Signature: sign(inv.InvoiceID, inv.Amount, "PAID"),
	})
	require.NoError(t, err)

	stored := f.paymentRepo.get(inv.InvoiceID)
	assert.Equal(t, models.PaymentStatusPaid, stored.Status)
	assert.Equal(t, "qpay-txn-42", stored.GatewayTxnID)
	require.NotNil(t, stored.PaidAt)

	// Анкета помечена оплаченной, заявителю создано уведомление
	assert.Equal(t, models.PaymentStatusPaid, f.appRepo.get("app-1").PaymentStatus)
	assert.Len(t, f.notificationRepo.byType(models.NotificationPaymentReceived), 1)
}

// TestHandleCallback_DuplicateIsIdempotent - повторный callback по
// оплаченному счету отвечает успехом и не применяет оплату второй раз.
func TestHandleCallback_DuplicateIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)
	f.submittedApplication(t, false)

	inv, err := f.svc.CreateInvoice(nil, "user-1", "app-1")
	require.NoError(t, err)

	callback := &dto.QPayCallbackRequest{
		InvoiceID: inv.InvoiceID,
		Amount:    inv.Amount,
		Status:    "PAID",
		TxnID:     "qpay-txn-42",
		Signature: sign(inv.InvoiceID, inv.Amount, "PAID"),
	}
	require.NoError(t, f.svc.HandleCallback(nil, callback))
	firstPaidAt := *f.paymentRepo.get(inv.InvoiceID).PaidAt

	// Дубликат
	require.NoError(t, f.svc.HandleCallback(nil, callback))

	stored := f.paymentRepo.get(inv.InvoiceID)
	assert.Equal(t, models.PaymentStatusPaid, stored.Status)
	assert.Equal(t, firstPaidAt, *stored.PaidAt)

	// Уведомление не задублировано
	assert.Len(t, f.notificationRepo.byType(models.NotificationPaymentReceived), 1)
}

func TestHandleCallback_InvalidSignature(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)
	f.submittedApplication(t, false)

	inv, err := f.svc.CreateInvoice(nil, "user-1", "app-1")
	require.NoError(t, err)

	err = f.svc.HandleCallback(nil, &dto.QPayCallbackRequest{
		InvoiceID: inv.InvoiceID,
		Amount:    inv.Amount,
		Status:    "PAID",
		Signature: "forged",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)

	// Состояние не тронуто
	assert.Equal(t, models.PaymentStatusPending, f.paymentRepo.get(inv.InvoiceID).Status)
}

func TestHandleCallback_AmountMismatch(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)
	f.submittedApplication(t, false)

	inv, err := f.svc.CreateInvoice(nil, "user-1", "app-1")
	require.NoError(t, err)

	wrongAmount := inv.Amount - 1000
	err = f.svc.HandleCallback(nil, &dto.QPayCallbackRequest{
		InvoiceID: inv.InvoiceID,
		Amount:    wrongAmount,
		Status:    "PAID",
		Signature: sign(inv.InvoiceID, wrongAmount, "PAID"),
	})
	assert.ErrorIs(t, err, apperrors.ErrAmountMismatch)
	assert.Equal(t, models.PaymentStatusPending, f.paymentRepo.get(inv.InvoiceID).Status)
}

func TestHandleCallback_Failed(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)
	f.submittedApplication(t, false)

	inv, err := f.svc.CreateInvoice(nil, "user-1", "app-1")
	require.NoError(t, err)

	err = f.svc.HandleCallback(nil, &dto.QPayCallbackRequest{
		InvoiceID: inv.InvoiceID,
		Amount:    inv.Amount,
		Status:    "FAILED",
		Signature: sign(inv.InvoiceID, inv.Amount, "FAILED"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusFailed, f.paymentRepo.get(inv.InvoiceID).Status)
	// Анкета остается неоплаченной
	assert.Equal(t, models.PaymentStatusPending, f.appRepo.get("app-1").PaymentStatus)
}

func TestHandleCallback_UnknownInvoice(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)

	err := f.svc.HandleCallback(nil, &dto.QPayCallbackRequest{
		InvoiceID: "VC-ghost",
		Amount:    100,
		Status:    "PAID",
		Signature: sign("VC-ghost", 100, "PAID"),
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPCode)
}
