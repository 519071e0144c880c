// Package storage picks and connects the pictures storage backend
package storage

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/UnendingLoop/Imagen/internal/storage/localstorage"
	"github.com/UnendingLoop/Imagen/internal/storage/miniostorage"
	"github.com/wb-go/wbf/config"
)

const (
	BackendLocal = "local"
	BackendMinio = "minio"

	DefaultPicturesDir = "./Pictures"
)

// Backend - то, что умеют оба хранилища
type Backend interface {
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
	Location(ctx context.Context, key string) (string, error)
}

// NewImgStorage подключается к выбранному в STORAGE_BACKEND хранилищу, повторяя попытки до успеха
func NewImgStorage(cfg *config.Config, delay time.Duration) Backend {
	backend := cfg.GetString("STORAGE_BACKEND")

	for {
		log.Printf("Connecting to IMG-storage %q...", backend)
		client, err := connect(cfg, backend)
		if err != nil {
			log.Printf("Failed to init connection to IMG-storage: %v\nNext retry in %v...", err, delay)
			time.Sleep(delay)
			continue
		}
		log.Println("Successfully connected IMG-storage!")
		return client
	}
}

func connect(cfg *config.Config, backend string) (Backend, error) {
	switch backend {
	case BackendMinio:
		return miniostorage.NewMinioClient(cfg)
	default:
		dir := cfg.GetString("PICTURES_DIR")
		if dir == "" {
			dir = DefaultPicturesDir
		}
		return localstorage.NewLocalStorage(dir, 0)
	}
}
