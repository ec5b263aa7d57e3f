package dto

import (
	"time"

	"visacenter_backend/internal/models"
)

type CreateInvoiceRequest struct {
	ApplicationID string `json:"application_id" binding:"required" validate:"required,uuid4"`
}

type InvoiceResponse struct {
	InvoiceID     string               `json:"invoice_id"`
	ApplicationID string               `json:"application_id"`
	Amount        int64                `json:"amount"`
	Status        models.PaymentStatus `json:"status"`
	ExpiresAt     time.Time            `json:"expires_at"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
}

// QPayCallbackRequest - payload callback от QPay.
// Signature - hex(HMAC-SHA256) по "invoice_id|amount|status"
// с общим секретом из конфигурации.
type QPayCallbackRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required" validate:"required"`
	Amount    int64  `json:"amount" binding:"required" validate:"required,min=1"`
	Status    string `json:"status" binding:"required" validate:"required,oneof=PAID FAILED"`
	TxnID     string `json:"txn_id"`
	Signature string `json:"signature" binding:"required" validate:"required"`
}

func NewInvoiceResponse(inv *models.PaymentInvoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		ApplicationID: inv.ApplicationID,
		Amount:        inv.Amount,
		Status:        inv.Status,
		ExpiresAt:     inv.ExpiresAt,
		PaidAt:        inv.PaidAt,
	}
}
