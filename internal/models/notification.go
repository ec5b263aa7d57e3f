package models

type NotificationType string

const (
	NotificationApplicationSubmitted NotificationType = "application_submitted"
	NotificationStatusChanged        NotificationType = "status_changed"
	NotificationPaymentReceived      NotificationType = "payment_received"
)

// Notification - персистентное уведомление пользователя.
// Доставка по внешним каналам (email, telegram) идет отдельно
// через notify.Dispatcher и не влияет на эту запись.
type Notification struct {
	BaseModel
	UserID        string           `gorm:"not null;index" json:"user_id"`
	ApplicationID string           `gorm:"index" json:"application_id,omitempty"`
	Type          NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	Title         string           `gorm:"not null" json:"title"`
	Message       string           `gorm:"type:text" json:"message"`
	IsRead        bool             `gorm:"default:false" json:"is_read"`
}
