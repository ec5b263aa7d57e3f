package services_test

import (
	"strings"
	"sync"
	"time"

	"visacenter_backend/internal/models"
	"visacenter_backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// In-memory фейки репозиториев. Сервисы получают db в каждый вызов,
// фейки его игнорируют - в тестах передается nil.

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByVerificationToken(_ *gorm.DB, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) IncrementFailedLogins(_ *gorm.DB, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return 0, repositories.ErrUserNotFound
	}
	u.FailedLogins++
	return u.FailedLogins, nil
}

func (r *fakeUserRepo) SetLock(_ *gorm.DB, userID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.LockedUntil = &until
	return nil
}

func (r *fakeUserRepo) ResetLoginState(_ *gorm.DB, userID string, lastLogin time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.FailedLogins = 0
	u.LockedUntil = nil
	u.LastLoginAt = &lastLogin
	return nil
}

func (r *fakeUserRepo) Unlock(_ *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.FailedLogins = 0
	u.LockedUntil = nil
	return nil
}

func (r *fakeUserRepo) FindWithFilter(_ *gorm.DB, filter repositories.UserFilter) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Search != "" && !strings.Contains(u.Email, filter.Search) && !strings.Contains(u.Name, filter.Search) {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

// get возвращает живую запись (не копию) для ассертов
func (r *fakeUserRepo) get(id string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

// --- refresh tokens ---

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(_ *gorm.DB, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	cp := *token
	r.tokens[token.Token] = &cp
	return nil
}

func (r *fakeRefreshTokenRepo) FindByToken(_ *gorm.DB, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, repositories.ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeRefreshTokenRepo) Revoke(_ *gorm.DB, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok && t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllForUser(_ *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(now) || t.RevokedAt != nil {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeRefreshTokenRepo) activeCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID && t.IsActive(time.Now()) {
			n++
		}
	}
	return n
}

// --- applications ---

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[string]*models.Application

	// sectionConflicts заставляет следующие N записей секций вернуть
	// ErrVersionConflict, имитируя конкурентную вкладку
	sectionConflicts int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[string]*models.Application)}
}

func (r *fakeApplicationRepo) FindByID(_ *gorm.DB, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApplicationRepo) FindDraft(_ *gorm.DB, userID string, visaType models.VisaType) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID == userID && a.VisaType == visaType && a.Status == models.ApplicationStatusDraft {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (r *fakeApplicationRepo) Create(_ *gorm.DB, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Version == 0 {
		app.Version = 1
	}
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) UpdateSectionsVersioned(_ *gorm.DB, id string, version int, sections datatypes.JSONMap, currentStep int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok || a.Status != models.ApplicationStatusDraft {
		return repositories.ErrApplicationNotFound
	}
	if r.sectionConflicts > 0 {
		r.sectionConflicts--
		return repositories.ErrVersionConflict
	}
	if a.Version != version {
		return repositories.ErrVersionConflict
	}
	a.Sections = sections
	a.CurrentStep = currentStep
	a.Version = version + 1
	return nil
}

func (r *fakeApplicationRepo) UpdateStatusVersioned(_ *gorm.DB, id string, version int, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	if a.Version != version {
		return repositories.ErrVersionConflict
	}

	if v, ok := updates["status"]; ok {
		a.Status = v.(models.ApplicationStatus)
	}
	if v, ok := updates["submitted_at"]; ok {
		at := v.(time.Time)
		a.SubmittedAt = &at
	}
	if v, ok := updates["decided_at"]; ok {
		at := v.(time.Time)
		a.DecidedAt = &at
	}
	if v, ok := updates["review_note"]; ok {
		a.ReviewNote = v.(string)
	}
	if v, ok := updates["reviewed_by"]; ok {
		a.ReviewedBy = v.(string)
	}
	a.Version = version + 1
	return nil
}

func (r *fakeApplicationRepo) SetPaymentStatus(_ *gorm.DB, id string, status models.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	a.PaymentStatus = status
	return nil
}

func (r *fakeApplicationRepo) List(_ *gorm.DB, filter repositories.ApplicationFilter) ([]models.Application, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, a := range r.apps {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Status == "" && filter.UserID == "" && a.Status == models.ApplicationStatusDraft {
			continue
		}
		if filter.VisaType != "" && a.VisaType != filter.VisaType {
			continue
		}
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) get(id string) *models.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps[id]
}

// --- invoices ---

type fakePaymentRepo struct {
	mu       sync.Mutex
	invoices map[string]*models.PaymentInvoice
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{invoices: make(map[string]*models.PaymentInvoice)}
}

func (r *fakePaymentRepo) Create(_ *gorm.DB, invoice *models.PaymentInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	cp := *invoice
	r.invoices[invoice.InvoiceID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByInvoiceID(_ *gorm.DB, invoiceID string) (*models.PaymentInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return nil, repositories.ErrInvoiceNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakePaymentRepo) FindPendingForApplication(_ *gorm.DB, applicationID string) (*models.PaymentInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.ApplicationID == applicationID && inv.Status == models.PaymentStatusPending {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, repositories.ErrInvoiceNotFound
}

func (r *fakePaymentRepo) MarkPaid(_ *gorm.DB, invoiceID string, gatewayTxnID string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return repositories.ErrInvoiceNotFound
	}
	if inv.Status != models.PaymentStatusPending {
		return repositories.ErrInvoiceAlreadyApplied
	}
	inv.Status = models.PaymentStatusPaid
	inv.GatewayTxnID = gatewayTxnID
	inv.PaidAt = &paidAt
	return nil
}

func (r *fakePaymentRepo) MarkFailed(_ *gorm.DB, invoiceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return repositories.ErrInvoiceNotFound
	}
	if inv.Status != models.PaymentStatusPending {
		return repositories.ErrInvoiceAlreadyApplied
	}
	inv.Status = models.PaymentStatusFailed
	return nil
}

func (r *fakePaymentRepo) ExpireStale(_ *gorm.DB, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, inv := range r.invoices {
		if inv.Status == models.PaymentStatusPending && inv.ExpiresAt.Before(now) {
			inv.Status = models.PaymentStatusExpired
			n++
		}
	}
	return n, nil
}

func (r *fakePaymentRepo) get(invoiceID string) *models.PaymentInvoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.invoices[invoiceID]
}

// --- notifications ---

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(_ *gorm.DB, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	r.items = append(r.items, *n)
	return nil
}

func (r *fakeNotificationRepo) ListForUser(_ *gorm.DB, userID string, limit, offset int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) MarkRead(_ *gorm.DB, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].IsRead = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) byType(typ models.NotificationType) []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.items {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}
