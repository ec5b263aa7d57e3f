package models

// Upload - загруженный файл (документы и фото заявителя).
// URL стабилен и отдается клиенту сразу после загрузки.
type Upload struct {
	BaseModel
	UserID        string `gorm:"not null;index" json:"user_id"`
	ApplicationID string `gorm:"index" json:"application_id,omitempty"`
	FileName      string `gorm:"not null" json:"file_name"`
	Path          string `gorm:"not null" json:"-"`
	URL           string `gorm:"not null" json:"url"`
	MimeType      string `json:"mime_type"`
	Size          int64  `json:"size"`
	Usage         string `json:"usage,omitempty"` // passport, photo, bank_statement...
}
