package services_test

import (
	"sync"
	"testing"
	"time"

	"visacenter_backend/internal/models"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/internal/services"
	"visacenter_backend/internal/services/dto"
	"visacenter_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (r *fakePostRepo) FindByID(_ *gorm.DB, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) FindBySlug(_ *gorm.DB, slug string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) Create(_ *gorm.DB, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == post.Slug {
			return repositories.ErrSlugTaken
		}
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) Update(_ *gorm.DB, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) Delete(_ *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) SetStatus(_ *gorm.DB, id string, status models.PostStatus, publishedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.Status = status
	p.PublishedAt = publishedAt
	return nil
}

func (r *fakePostRepo) List(_ *gorm.DB, filter repositories.PostFilter) ([]models.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func newPostFixture() (services.PostService, *fakePostRepo) {
	repo := newFakePostRepo()
	return services.NewPostService(repo), repo
}

func createPostReq(slug string) *dto.CreatePostRequest {
	return &dto.CreatePostRequest{
		Title:    "Визийн шинэ журам",
		Slug:     slug,
		Content:  "Дэлгэрэнгүй мэдээлэл...",
		Category: string(models.PostCategoryNews),
	}
}

func TestPostCreate_SlugConflict(t *testing.T) {
	t.Parallel()
	svc, _ := newPostFixture()

	_, err := svc.Create(nil, "admin-1", createPostReq("visa-rules-2026"))
	require.NoError(t, err)

	_, err = svc.Create(nil, "admin-1", createPostReq("visa-rules-2026"))
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestPostLifecycle_PublishUnpublish(t *testing.T) {
	t.Parallel()
	svc, _ := newPostFixture()

	post, err := svc.Create(nil, "admin-1", createPostReq("visa-rules-2026"))
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)

	// Черновик не виден на публичной витрине
	_, err = svc.GetBySlug(nil, "visa-rules-2026")
	require.Error(t, err)

	published, err := svc.SetPublished(nil, post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)

	// Теперь доступен по slug
	got, err := svc.GetBySlug(nil, "visa-rules-2026")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	// Снятие с публикации прячет снова
	_, err = svc.SetPublished(nil, post.ID, false)
	require.NoError(t, err)
	_, err = svc.GetBySlug(nil, "visa-rules-2026")
	assert.Error(t, err)
}

func TestPostList_PublicVsAdmin(t *testing.T) {
	t.Parallel()
	svc, _ := newPostFixture()

	_, err := svc.Create(nil, "admin-1", createPostReq("draft-post"))
	require.NoError(t, err)

	pub, err := svc.Create(nil, "admin-1", createPostReq("published-post"))
	require.NoError(t, err)
	_, err = svc.SetPublished(nil, pub.ID, true)
	require.NoError(t, err)

	public, _, err := svc.ListPublished(nil, &dto.ListPostsQuery{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "published-post", public[0].Slug)

	all, _, err := svc.ListAll(nil, &dto.ListPostsQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPostUpdate_Partial(t *testing.T) {
	t.Parallel()
	svc, _ := newPostFixture()

	post, err := svc.Create(nil, "admin-1", createPostReq("visa-rules-2026"))
	require.NoError(t, err)

	updated, err := svc.Update(nil, post.ID, &dto.UpdatePostRequest{Title: "Шинэчилсэн гарчиг"})
	require.NoError(t, err)
	assert.Equal(t, "Шинэчилсэн гарчиг", updated.Title)
	// Остальные поля не тронуты
	assert.Equal(t, post.Content, updated.Content)
	assert.Equal(t, post.Category, updated.Category)
}
