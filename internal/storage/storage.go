package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage - хранилище загруженных файлов (документы, фото заявителей)
type Storage interface {
	// Save сохраняет файл по пути path
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Get возвращает содержимое файла
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete удаляет файл
	Delete(ctx context.Context, path string) error

	// Exists проверяет наличие файла
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL возвращает стабильный публичный URL файла
	GetURL(ctx context.Context, path string) (string, error)
}

// Config - конфигурация хранилища
type Config struct {
	Type      string // local, cloudflare_r2
	BasePath  string // для local
	BaseURL   string // публичный префикс URL
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// NewStorage создает хранилище по конфигурации
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
