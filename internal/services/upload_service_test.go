package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"visacenter_backend/internal/config"
	"visacenter_backend/internal/models"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/internal/services"
	"visacenter_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUploadRepo struct {
	mu      sync.Mutex
	uploads map[string]*models.Upload
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{uploads: make(map[string]*models.Upload)}
}

func (r *fakeUploadRepo) Create(_ *gorm.DB, upload *models.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if upload.ID == "" {
		upload.ID = uuid.NewString()
	}
	cp := *upload
	r.uploads[upload.ID] = &cp
	return nil
}

func (r *fakeUploadRepo) FindByID(_ *gorm.DB, id string) (*models.Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[id]
	if !ok {
		return nil, repositories.ErrUploadNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUploadRepo) ListForUser(_ *gorm.DB, userID string) ([]models.Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Upload
	for _, u := range r.uploads {
		if u.UserID == userID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUploadRepo) Delete(_ *gorm.DB, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[id]
	if !ok || u.UserID != userID {
		return repositories.ErrUploadNotFound
	}
	delete(r.uploads, id)
	return nil
}

// fakeStorage хранит файлы в памяти по пути
type fakeStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (s *fakeStorage) Save(_ context.Context, path string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *fakeStorage) Get(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.files, path)
	return nil
}

func (s *fakeStorage) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok, nil
}

func (s *fakeStorage) GetURL(_ context.Context, path string) (string, error) {
	return "https://cdn.test.mn/" + path, nil
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func uploadTestConfig() *config.Config {
	cfg := testConfig()
	cfg.Upload.MaxSize = 1024
	cfg.Upload.AllowedTypes = []string{"application/pdf", "image/jpeg"}
	return cfg
}

func newUploadFixture() (services.UploadService, *fakeUploadRepo, *fakeStorage) {
	repo := newFakeUploadRepo()
	store := newFakeStorage()
	svc := services.NewUploadService(uploadTestConfig(), repo, store)
	return svc, repo, store
}

func pdfInput(name, content string) *services.UploadInput {
	return &services.UploadInput{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Usage:       "passport_scan",
		Reader:      strings.NewReader(content),
	}
}

func TestUpload_Success(t *testing.T) {
	t.Parallel()
	svc, _, store := newUploadFixture()

	up, err := svc.Upload(context.Background(), nil, "user-1", pdfInput("паспорт.pdf", "%PDF-1.7"))
	require.NoError(t, err)

	assert.Equal(t, "паспорт.pdf", up.FileName)
	// Исходное имя файла в путь хранения не попадает
	assert.NotContains(t, up.Path, "паспорт")
	assert.True(t, strings.HasPrefix(up.Path, "user-1/"))
	assert.True(t, strings.HasSuffix(up.Path, ".pdf"))
	assert.Equal(t, "https://cdn.test.mn/"+up.Path, up.URL)
	assert.Equal(t, 1, store.count())
}

func TestUpload_TooLarge(t *testing.T) {
	t.Parallel()
	svc, _, store := newUploadFixture()

	in := pdfInput("big.pdf", "x")
	in.Size = 2048
	_, err := svc.Upload(context.Background(), nil, "user-1", in)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 413, appErr.HTTPCode)
	assert.Equal(t, 0, store.count())
}

func TestUpload_TypeNotAllowed(t *testing.T) {
	t.Parallel()
	svc, _, _ := newUploadFixture()

	in := pdfInput("script.sh", "#!/bin/sh")
	in.ContentType = "application/x-sh"
	_, err := svc.Upload(context.Background(), nil, "user-1", in)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 415, appErr.HTTPCode)
}

// TestUploadDelete_StorageFailureIsBestEffort - недоступное хранилище
// не мешает удалить запись: файл дочистится позже, ошибка уходит в лог.
func TestUploadDelete_StorageFailureIsBestEffort(t *testing.T) {
	t.Parallel()
	svc, repo, store := newUploadFixture()

	up, err := svc.Upload(context.Background(), nil, "user-1", pdfInput("doc.pdf", "%PDF-1.7"))
	require.NoError(t, err)

	store.deleteErr = errors.New("bucket unavailable")
	require.NoError(t, svc.Delete(context.Background(), nil, up.ID, "user-1"))

	_, err = repo.FindByID(nil, up.ID)
	assert.ErrorIs(t, err, repositories.ErrUploadNotFound)
}

func TestUploadDelete_OwnerOnly(t *testing.T) {
	t.Parallel()
	svc, _, store := newUploadFixture()

	up, err := svc.Upload(context.Background(), nil, "user-1", pdfInput("doc.pdf", "%PDF-1.7"))
	require.NoError(t, err)

	// Чужой файл удалить нельзя
	err = svc.Delete(context.Background(), nil, up.ID, "user-2")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	assert.Equal(t, 1, store.count())

	// Владелец удаляет запись вместе с файлом
	require.NoError(t, svc.Delete(context.Background(), nil, up.ID, "user-1"))
	assert.Equal(t, 0, store.count())

	list, err := svc.ListForUser(nil, "user-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
