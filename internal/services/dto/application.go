package dto

import (
	"time"

	"visacenter_backend/internal/models"
)

type GetDraftQuery struct {
	VisaType string `form:"visa_type" validate:"required,visa_type"`
}

type SaveStepRequest struct {
	Step string                 `json:"step" binding:"required" validate:"required"`
	Data map[string]interface{} `json:"data" binding:"required" validate:"required"`
}

type ApplicationResponse struct {
	ID            string                   `json:"id"`
	VisaType      models.VisaType          `json:"visa_type"`
	Status        models.ApplicationStatus `json:"status"`
	CurrentStep   int                      `json:"current_step"`
	Sections      map[string]interface{}   `json:"sections"`
	Urgent        bool                     `json:"urgent"`
	PaymentStatus models.PaymentStatus     `json:"payment_status"`
	SubmittedAt   *time.Time               `json:"submitted_at,omitempty"`
	DecidedAt     *time.Time               `json:"decided_at,omitempty"`
	ReviewNote    string                   `json:"review_note,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

type ApplicationListResponse struct {
	Items    []ApplicationResponse `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

func NewApplicationResponse(a *models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:            a.ID,
		VisaType:      a.VisaType,
		Status:        a.Status,
		CurrentStep:   a.CurrentStep,
		Sections:      a.Sections,
		Urgent:        a.Urgent,
		PaymentStatus: a.PaymentStatus,
		SubmittedAt:   a.SubmittedAt,
		DecidedAt:     a.DecidedAt,
		ReviewNote:    a.ReviewNote,
		CreatedAt:     a.CreatedAt,
	}
}
