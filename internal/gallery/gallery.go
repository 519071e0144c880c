// Package gallery writes finished images into the public pictures storage
package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/disintegration/imaging"
)

const (
	FilePrefix  = "Imagen_"
	JPEGQuality = 100
)

// PicturesStorage - контракт публичной папки с картинками
type PicturesStorage interface {
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
	Delete(ctx context.Context, key string) error
	Location(ctx context.Context, key string) (string, error)
}

type Saver struct {
	storage PicturesStorage
	now     func() time.Time
}

func NewSaver(strg PicturesStorage) *Saver {
	return &Saver{storage: strg, now: time.Now}
}

// FileName - Imagen_<epoch-millis>.jpg
func FileName(t time.Time) string {
	return fmt.Sprintf("%s%d%s", FilePrefix, t.UnixMilli(), model.GetImageFileExt[model.JPEG])
}

// Save кодирует img в JPEG (качество 100) и кладет в хранилище. Любая ошибка - ErrWriteFailed
func (s *Saver) Save(ctx context.Context, img image.Image) (*model.SavedImage, error) {
	if img == nil {
		return nil, errors.New("nil-image provided to Saver")
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("%w: compress jpeg: %w", model.ErrWriteFailed, err)
	}

	savedAt := s.now()
	key := FileName(savedAt)
	size := int64(buf.Len())

	if err := s.storage.Put(ctx, key, size, model.JPEG, &buf); err != nil {
		return nil, fmt.Errorf("%w: put %s: %w", model.ErrWriteFailed, key, err)
	}

	location, err := s.storage.Location(ctx, key)
	if err != nil {
		// без адреса файл нельзя ни проиндексировать, ни расшарить - убираем его
		if dErr := s.storage.Delete(ctx, key); dErr != nil {
			err = errors.Join(err, dErr)
		}
		return nil, fmt.Errorf("%w: locate %s: %w", model.ErrWriteFailed, key, err)
	}

	return &model.SavedImage{
		Key:      key,
		Location: location,
		MimeType: model.JPEG,
		Size:     size,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		SavedAt:  savedAt.UTC(),
	}, nil
}
