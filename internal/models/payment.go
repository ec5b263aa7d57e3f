package models

import "time"

// PaymentInvoice - счет QPay за консульский сбор по анкете.
// InvoiceID уникален: повторный callback по тому же счету не должен
// применять оплату второй раз.
type PaymentInvoice struct {
	BaseModel
	ApplicationID string `gorm:"not null;index" json:"application_id"`
	UserID        string `gorm:"not null;index" json:"user_id"`

	InvoiceID string `gorm:"not null;uniqueIndex" json:"invoice_id"`

	// Amount - сумма в тугриках, без дробной части
	Amount int64 `gorm:"not null" json:"amount"`

	Status PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	PaidAt    *time.Time `json:"paid_at,omitempty"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`

	// GatewayTxnID - идентификатор платежа на стороне QPay
	GatewayTxnID string `json:"-"`
}
