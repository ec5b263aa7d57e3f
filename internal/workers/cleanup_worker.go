package workers

import (
	"context"
	"time"

	"visacenter_backend/internal/logger"
	"visacenter_backend/internal/repositories"

	"gorm.io/gorm"
)

// CleanupWorker - фоновая уборка: протухшие refresh токены и
// неоплаченные счета, у которых вышел срок.
type CleanupWorker struct {
	db               *gorm.DB
	refreshTokenRepo repositories.RefreshTokenRepository
	paymentRepo      repositories.PaymentRepository
}

func NewCleanupWorker(db *gorm.DB, refreshTokenRepo repositories.RefreshTokenRepository, paymentRepo repositories.PaymentRepository) *CleanupWorker {
	return &CleanupWorker{
		db:               db,
		refreshTokenRepo: refreshTokenRepo,
		paymentRepo:      paymentRepo,
	}
}

// Start запускает фоновые задачи
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.purgeExpiredTokens(ctx)
	go w.expireStaleInvoices(ctx)
}

func (w *CleanupWorker) purgeExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token cleanup worker stopped")
			return
		case <-ticker.C:
			deleted, err := w.refreshTokenRepo.DeleteExpired(w.db)
			if err != nil {
				logger.WithError(err).Error("Failed to purge expired refresh tokens")
			} else if deleted > 0 {
				logger.Info("Purged expired refresh tokens", "count", deleted)
			}
		}
	}
}

func (w *CleanupWorker) expireStaleInvoices(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Invoice expiry worker stopped")
			return
		case <-ticker.C:
			expired, err := w.paymentRepo.ExpireStale(w.db, time.Now())
			if err != nil {
				logger.WithError(err).Error("Failed to expire stale invoices")
			} else if expired > 0 {
				logger.Info("Expired stale invoices", "count", expired)
			}
		}
	}
}
