package services

import (
	"time"

	"visacenter_backend/internal/models"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/internal/services/dto"
	"visacenter_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PostService interface {
	Create(db *gorm.DB, authorID string, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	Update(db *gorm.DB, id string, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	Delete(db *gorm.DB, id string) error
	SetPublished(db *gorm.DB, id string, published bool) (*dto.PostResponse, error)

	// GetBySlug и ListPublished - публичная витрина (только published)
	GetBySlug(db *gorm.DB, slug string) (*dto.PostResponse, error)
	ListPublished(db *gorm.DB, query *dto.ListPostsQuery) ([]dto.PostResponse, int64, error)

	// ListAll - админский список, включая черновики
	ListAll(db *gorm.DB, query *dto.ListPostsQuery) ([]dto.PostResponse, int64, error)
}

type PostServiceImpl struct {
	postRepo repositories.PostRepository
}

func NewPostService(postRepo repositories.PostRepository) PostService {
	return &PostServiceImpl{postRepo: postRepo}
}

func (s *PostServiceImpl) Create(db *gorm.DB, authorID string, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	post := &models.Post{
		Title:    req.Title,
		Slug:     req.Slug,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		CoverURL: req.CoverURL,
		Category: models.PostCategory(req.Category),
		Status:   models.PostStatusDraft,
		AuthorID: authorID,
	}

	if err := s.postRepo.Create(db, post); err != nil {
		if apperrors.Is(err, repositories.ErrSlugTaken) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewPostResponse(post)
	return &resp, nil
}

func (s *PostServiceImpl) Update(db *gorm.DB, id string, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.Excerpt != "" {
		post.Excerpt = req.Excerpt
	}
	if req.CoverURL != "" {
		post.CoverURL = req.CoverURL
	}
	if req.Category != "" {
		post.Category = models.PostCategory(req.Category)
	}

	if err := s.postRepo.Update(db, post); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewPostResponse(post)
	return &resp, nil
}

func (s *PostServiceImpl) Delete(db *gorm.DB, id string) error {
	if err := s.postRepo.Delete(db, id); err != nil {
		if apperrors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *PostServiceImpl) SetPublished(db *gorm.DB, id string, published bool) (*dto.PostResponse, error) {
	status := models.PostStatusDraft
	var publishedAt *time.Time
	if published {
		status = models.PostStatusPublished
		now := time.Now()
		publishedAt = &now
	}

	if err := s.postRepo.SetStatus(db, id, status, publishedAt); err != nil {
		if apperrors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	post, err := s.postRepo.FindByID(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewPostResponse(post)
	return &resp, nil
}

func (s *PostServiceImpl) GetBySlug(db *gorm.DB, slug string) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindBySlug(db, slug)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if post.Status != models.PostStatusPublished {
		return nil, apperrors.ErrNotFound(repositories.ErrPostNotFound)
	}

	resp := dto.NewPostResponse(post)
	return &resp, nil
}

func (s *PostServiceImpl) ListPublished(db *gorm.DB, query *dto.ListPostsQuery) ([]dto.PostResponse, int64, error) {
	return s.list(db, query, models.PostStatusPublished)
}

func (s *PostServiceImpl) ListAll(db *gorm.DB, query *dto.ListPostsQuery) ([]dto.PostResponse, int64, error) {
	return s.list(db, query, "")
}

func (s *PostServiceImpl) list(db *gorm.DB, query *dto.ListPostsQuery, status models.PostStatus) ([]dto.PostResponse, int64, error) {
	posts, total, err := s.postRepo.List(db, repositories.PostFilter{
		Category: models.PostCategory(query.Category),
		Status:   status,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	items := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, dto.NewPostResponse(&posts[i]))
	}
	return items, total, nil
}
