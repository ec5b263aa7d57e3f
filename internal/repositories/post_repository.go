package repositories

import (
	"errors"
	"time"

	"visacenter_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrSlugTaken      = errors.New("slug already taken")
	ErrPostNotChanged = errors.New("post not changed")
)

type PostFilter struct {
	Category models.PostCategory
	Status   models.PostStatus
	Page     int
	PageSize int
}

type PostRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Post, error)
	FindBySlug(db *gorm.DB, slug string) (*models.Post, error)
	Create(db *gorm.DB, post *models.Post) error
	Update(db *gorm.DB, post *models.Post) error
	Delete(db *gorm.DB, id string) error
	SetStatus(db *gorm.DB, id string, status models.PostStatus, publishedAt *time.Time) error
	List(db *gorm.DB, filter PostFilter) ([]models.Post, int64, error)
}

type PostRepositoryImpl struct{}

func NewPostRepository() PostRepository {
	return &PostRepositoryImpl{}
}

func (r *PostRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Post, error) {
	var post models.Post
	err := db.First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepositoryImpl) FindBySlug(db *gorm.DB, slug string) (*models.Post, error) {
	var post models.Post
	err := db.First(&post, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepositoryImpl) Create(db *gorm.DB, post *models.Post) error {
	var existing models.Post
	if err := db.Where("slug = ?", post.Slug).First(&existing).Error; err == nil {
		return ErrSlugTaken
	}
	return db.Create(post).Error
}

func (r *PostRepositoryImpl) Update(db *gorm.DB, post *models.Post) error {
	return db.Save(post).Error
}

func (r *PostRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepositoryImpl) SetStatus(db *gorm.DB, id string, status models.PostStatus, publishedAt *time.Time) error {
	result := db.Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"published_at": publishedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepositoryImpl) List(db *gorm.DB, filter PostFilter) ([]models.Post, int64, error) {
	query := db.Model(&models.Post{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	var posts []models.Post
	err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&posts).Error

	return posts, total, err
}
