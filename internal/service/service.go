// Package service provides business-logic for the app
package service

import (
	"context"
	"image"
	"io"

	"github.com/UnendingLoop/Imagen/internal/model"
)

// ImageSaver - контракт записи готовой картинки в публичную папку
type ImageSaver interface {
	Save(ctx context.Context, img image.Image) (*model.SavedImage, error)
}

// MediaStorage - контракт для работы с хранилищем картинок
type MediaStorage interface {
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
}
