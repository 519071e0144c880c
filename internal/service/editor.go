package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/UnendingLoop/Imagen/internal/imageproc"
	"github.com/UnendingLoop/Imagen/internal/kafka"
	"github.com/UnendingLoop/Imagen/internal/loader"
	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/UnendingLoop/Imagen/internal/mwlogger"
	"github.com/UnendingLoop/Imagen/internal/session"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// WatermarkOpacity - прозрачность картинки-ватермарка
const WatermarkOpacity = 0.5

// EditorService - сессии редактора: загрузка с учетом бюджета экрана, наложение надписи, сохранение и шаринг
type EditorService struct {
	sessions *session.Store
	saver    ImageSaver
	scanPub  kafka.Sender
	sharePub kafka.Sender
	budget   model.Dimensions
	text     string
}

func NewEditorService(store *session.Store, saver ImageSaver, scanPub, sharePub kafka.Sender, budget model.Dimensions, text string) *EditorService {
	return &EditorService{
		sessions: store,
		saver:    saver,
		scanPub:  scanPub,
		sharePub: sharePub,
		budget:   budget,
		text:     text,
	}
}

func (e *EditorService) CreateSession(ctx context.Context) uuid.UUID {
	id := e.sessions.Create()
	logger := mwlogger.LoggerFromContext(ctx)
	logger.Info().Str("session", id.String()).Msg("Session created")
	return id
}

func (e *EditorService) CloseSession(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return model.ErrIncorrectID
	}
	return e.sessions.Close(uid)
}

// SweepIdle закрывает брошенные сессии и освобождает их картинки
func (e *EditorService) SweepIdle(ctx context.Context, maxIdle time.Duration) {
	if n := e.sessions.Sweep(maxIdle); n > 0 {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Info().Int("closed", n).Msg("Idle sessions swept")
	}
}

func (e *EditorService) state(id string) (uuid.UUID, *session.State, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, nil, model.ErrIncorrectID
	}
	st, err := e.sessions.Get(uid)
	return uid, st, err
}

// LoadImage декодирует картинку в пределах бюджета, рисует надпись и делает ее текущей в сессии.
// При любой ошибке текущая картинка сессии остается прежней
func (e *EditorService) LoadImage(ctx context.Context, id string, req *model.LoadRequest) (*model.LoadResult, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	uid, st, err := e.state(id)
	if err != nil {
		return nil, err
	}
	if len(req.Image) == 0 {
		return nil, model.ErrEmptySource
	}

	// ватермарк-картинку проверяем до тяжелого декодирования основы
	var wm image.Image
	if len(req.WMImg) > 0 {
		if req.WMContentType != model.PNG {
			return nil, model.ErrUnsupportedWMFormat
		}
		wm, err = imaging.Decode(bytes.NewReader(req.WMImg))
		if err != nil {
			return nil, fmt.Errorf("%w: watermark: %w", model.ErrUnreadable, err)
		}
	}

	budget := resolveBudget(e.budget, req.Width, req.Height)
	img, err := loader.Load(loader.BytesSource(req.Image), budget)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load image")
		return nil, err
	}

	text := e.text
	if req.Text != nil {
		text = *req.Text
	}
	if err := imageproc.TextWatermark(img.Image(), text); err != nil {
		img.Release()
		logger.Error().Err(err).Msg("Failed to draw text watermark")
		return nil, model.ErrCommon500
	}
	if wm != nil {
		if err := imageproc.ImageWatermark(img.Image(), wm, WatermarkOpacity); err != nil {
			img.Release()
			logger.Error().Err(err).Msg("Failed to apply image watermark")
			return nil, model.ErrCommon500
		}
	}

	res := &model.LoadResult{
		SessionID: uid,
		Native:    img.Native(),
		Decoded:   img.Size(),
		Sample:    img.Sample(),
	}
	if err := st.Replace(img, e.sessions.Now()); err != nil {
		return nil, err
	}

	logger.Info().
		Int("native_w", res.Native.Width).
		Int("native_h", res.Native.Height).
		Int("sample", res.Sample).
		Msg("Image loaded into session")
	return res, nil
}

// Render отдает текущую картинку сессии в PNG
func (e *EditorService) Render(ctx context.Context, id string) (*bytes.Buffer, string, error) {
	_, st, err := e.state(id)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	err = st.View(func(img *image.NRGBA) error {
		return imaging.Encode(&buf, img, imaging.PNG)
	})
	if err != nil {
		if errors.Is(err, model.ErrNoImage) || errors.Is(err, model.ErrSessionNotFound) {
			return nil, "", err
		}
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Error().Err(err).Msg("Failed to encode session image")
		return nil, "", model.ErrCommon500
	}
	return &buf, model.PNG, nil
}

// SaveAndShare пишет текущую картинку в JPEG, просит обновить медиа-индекс и отдает send-действие.
// Если запись не удалась, ни индекс, ни шаринг не трогаются
func (e *EditorService) SaveAndShare(ctx context.Context, id string) (*model.SaveResult, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	_, st, err := e.state(id)
	if err != nil {
		return nil, err
	}

	var saved *model.SavedImage
	err = st.View(func(img *image.NRGBA) error {
		var sErr error
		saved, sErr = e.saver.Save(ctx, img)
		return sErr
	})
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNoImage), errors.Is(err, model.ErrSessionNotFound):
		return nil, err
	default:
		logger.Error().Err(err).Msg("Failed to save image")
		return nil, model.ErrWriteFailed
	}
	logger.Info().Str("key", saved.Key).Str("location", saved.Location).Msg("Image saved")

	// файл уже записан: сбой индексации только логируем
	scan := model.ScanEvent{Key: saved.Key, Location: saved.Location, MimeType: saved.MimeType}
	if err := kafka.PublishJSON(ctx, e.scanPub, saved.Key, scan); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to publish media-scan for %q", saved.Key))
	}

	share := model.ShareEvent{
		Action:   model.ActionSend,
		Title:    model.ShareTitle,
		MimeType: model.JPEG,
		Location: saved.Location,
	}
	if err := kafka.PublishJSON(ctx, e.sharePub, saved.Key, share); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to publish share for %q", saved.Key))
	}

	return &model.SaveResult{Saved: *saved, Share: share}, nil
}
