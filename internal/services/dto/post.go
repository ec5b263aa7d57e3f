package dto

import (
	"time"

	"visacenter_backend/internal/models"
)

type CreatePostRequest struct {
	Title    string `json:"title" binding:"required" validate:"required,min=3,max=200"`
	Slug     string `json:"slug" binding:"required" validate:"required,min=3,max=200"`
	Content  string `json:"content" binding:"required" validate:"required"`
	Excerpt  string `json:"excerpt" validate:"omitempty,max=500"`
	CoverURL string `json:"cover_url" validate:"omitempty,url"`
	Category string `json:"category" binding:"required" validate:"required,oneof=blog news"`
}

type UpdatePostRequest struct {
	Title    string `json:"title" validate:"omitempty,min=3,max=200"`
	Content  string `json:"content"`
	Excerpt  string `json:"excerpt" validate:"omitempty,max=500"`
	CoverURL string `json:"cover_url" validate:"omitempty,url"`
	Category string `json:"category" validate:"omitempty,oneof=blog news"`
}

type ListPostsQuery struct {
	Category string `form:"category" validate:"omitempty,oneof=blog news"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type PostResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Content     string              `json:"content,omitempty"`
	Excerpt     string              `json:"excerpt,omitempty"`
	CoverURL    string              `json:"cover_url,omitempty"`
	Category    models.PostCategory `json:"category"`
	Status      models.PostStatus   `json:"status"`
	PublishedAt *time.Time          `json:"published_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func NewPostResponse(p *models.Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Excerpt:     p.Excerpt,
		CoverURL:    p.CoverURL,
		Category:    p.Category,
		Status:      p.Status,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
	}
}
