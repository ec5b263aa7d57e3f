package models

import (
	"time"

	"gorm.io/datatypes"
)

// Application - анкета на визу. До отправки принадлежит заявителю и
// редактируется пошагово; после отправки доступна на запись только
// админу через review workflow.
type Application struct {
	BaseModel
	UserID   string   `gorm:"not null;index" json:"user_id"`
	VisaType VisaType `gorm:"type:varchar(20);not null" json:"visa_type"`

	Status ApplicationStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`

	// CurrentStep - индекс первого незаполненного шага.
	// Никогда не обгоняет (последний непрерывно заполненный шаг + 1).
	CurrentStep int `gorm:"default:0" json:"current_step"`

	// Sections - JSONB карта "имя шага" -> данные секции
	Sections datatypes.JSONMap `gorm:"type:jsonb" json:"sections"`

	// Version - счетчик оптимистичной блокировки; защищает submit и
	// смену статуса от конкурентных запросов.
	Version int `gorm:"not null;default:1" json:"-"`

	Urgent bool `gorm:"default:false" json:"urgent"`

	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	ReviewNote  string     `json:"review_note,omitempty"`
	ReviewedBy  string     `json:"-"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`

	// Relations
	Invoices  []PaymentInvoice `gorm:"foreignKey:ApplicationID" json:"-"`
	Documents []Upload         `gorm:"foreignKey:ApplicationID" json:"-"`
}

// IsEditableBy сообщает, может ли пользователь с данной ролью менять секции
func (a *Application) IsEditableBy(userID string, role UserRole) bool {
	if role == UserRoleAdmin {
		return true
	}
	return a.UserID == userID && a.Status == ApplicationStatusDraft
}

// IsTerminal - approved/rejected конечные для review workflow
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}
