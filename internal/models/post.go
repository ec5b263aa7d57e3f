package models

import "time"

// Post - контент сайта (блог/новости). Независим от анкетного workflow.
type Post struct {
	BaseModelWithDeleted
	Title    string       `gorm:"not null" json:"title"`
	Slug     string       `gorm:"uniqueIndex;not null" json:"slug"`
	Content  string       `gorm:"type:text" json:"content"`
	Excerpt  string       `json:"excerpt,omitempty"`
	CoverURL string       `json:"cover_url,omitempty"`
	Category PostCategory `gorm:"type:varchar(20);not null;default:'blog'" json:"category"`
	Status   PostStatus   `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	AuthorID string       `gorm:"not null;index" json:"author_id"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
}
