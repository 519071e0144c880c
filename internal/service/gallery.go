package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/UnendingLoop/Imagen/internal/imageproc"
	"github.com/UnendingLoop/Imagen/internal/loader"
	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/UnendingLoop/Imagen/internal/mwlogger"
	"github.com/UnendingLoop/Imagen/internal/repository"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const thumbPrefix = "thumbs/"

// GalleryService - медиа-индекс сохраненных картинок
type GalleryService struct {
	repo    repository.MediaRepo
	storage MediaStorage
}

func NewGalleryService(repo repository.MediaRepo, strg MediaStorage) *GalleryService {
	return &GalleryService{repo: repo, storage: strg}
}

func (g GalleryService) GetList(ctx context.Context, req *model.ListRequest) ([]model.MediaEntry, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	validateQueryParams(req)

	res, err := g.repo.GetList(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch media list from DB")
		return nil, model.ErrCommon500
	}

	return res, nil
}

func (g GalleryService) get(ctx context.Context, id string) (*model.MediaEntry, error) {
	if err := uuid.Validate(id); err != nil {
		return nil, model.ErrIncorrectID
	}

	res, err := g.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrImageNotFound) {
			return nil, err
		}
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch media entry %q from DB", id))
		return nil, model.ErrCommon500
	}
	return res, nil
}

// LoadFile отдает сохраненный JPEG
func (g GalleryService) LoadFile(ctx context.Context, id string) (io.ReadCloser, string, error) {
	entry, err := g.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return g.fetch(ctx, entry.FileKey, entry.MimeType)
}

// LoadThumbnail отдает превью из индекса
func (g GalleryService) LoadThumbnail(ctx context.Context, id string) (io.ReadCloser, string, error) {
	entry, err := g.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return g.fetch(ctx, entry.ThumbKey, model.JPEG)
}

func (g GalleryService) fetch(ctx context.Context, key, fallbackCType string) (io.ReadCloser, string, error) {
	data, cType, err := g.storage.Get(ctx, key)
	if err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch %q from Storage", key))
		return nil, "", model.ErrCommon500
	}
	if cType == "" {
		cType = fallbackCType
	}
	return data, cType, nil
}

func (g GalleryService) Delete(ctx context.Context, id string) error {
	logger := mwlogger.LoggerFromContext(ctx)

	entry, err := g.get(ctx, id)
	if err != nil {
		return err
	}

	// удаляем из базы
	if err := g.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrImageNotFound) {
			return err
		}
		logger.Error().Err(err).Msg("Failed to delete media entry from DB")
		return model.ErrCommon500
	}

	// удаляем из хранилища сам файл и превью
	if err := g.storage.Delete(ctx, entry.FileKey); err != nil {
		logger.Error().Err(err).Msg("Failed to delete image from Storage")
		return model.ErrCommon500
	}
	if err := g.storage.Delete(ctx, entry.ThumbKey); err != nil {
		logger.Error().Err(err).Msg("Failed to delete thumbnail from Storage")
		return model.ErrCommon500
	}

	return nil
}

// Index вносит записанный файл в медиа-индекс: меряет его, строит превью и сохраняет запись.
// Повторное событие для уже проиндексированного файла ничего не делает
func (g GalleryService) Index(ctx context.Context, ev model.ScanEvent) error {
	if ev.Key == "" {
		return fmt.Errorf("%w: empty key in scan event", model.ErrUnreadable)
	}

	_, err := g.repo.GetByFileKey(ctx, ev.Key)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, model.ErrImageNotFound):
		return fmt.Errorf("check media entry %q: %w", ev.Key, err)
	}

	// хранилище отдает новый поток на каждый Open - годится как повторно читаемый источник
	src := loader.SourceFunc(func() (io.ReadCloser, error) {
		rc, _, err := g.storage.Get(ctx, ev.Key)
		return rc, err
	})

	dims, format, err := loader.Probe(src)
	if err != nil {
		return fmt.Errorf("probe %q: %w", ev.Key, err)
	}

	rc, err := src.Open()
	if err != nil {
		return fmt.Errorf("%w: reopen %q: %w", model.ErrUnreadable, ev.Key, err)
	}
	thumb, err := imageproc.Thumbnailer(rc, imageproc.ThumbSide, imageproc.ThumbSide, imaging.JPEG)
	closeStream(ctx, rc, ev.Key)
	if err != nil {
		return fmt.Errorf("%w: thumbnail %q: %w", model.ErrUnreadable, ev.Key, err)
	}

	tKey := thumbKey(ev.Key)
	if err := g.storage.Put(ctx, tKey, int64(thumb.Len()), model.JPEG, thumb); err != nil {
		return fmt.Errorf("put thumbnail %q: %w", tKey, err)
	}

	mime := ev.MimeType
	if mime == "" {
		mime = mimeForFormat(format)
	}
	now := time.Now().UTC()
	entry := &model.MediaEntry{
		UID:       uuid.New(),
		FileKey:   ev.Key,
		ThumbKey:  tKey,
		Location:  ev.Location,
		MimeType:  mime,
		Width:     dims.Width,
		Height:    dims.Height,
		CreatedAt: &now,
	}
	if err := g.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("create media entry %q: %w", ev.Key, err)
	}

	logger := mwlogger.LoggerFromContext(ctx)
	logger.Info().Str("key", ev.Key).Str("uid", entry.UID.String()).Msg("Media indexed")
	return nil
}
