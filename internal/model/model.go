// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Dimensions - пара ширина/высота в пикселях
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both sides are positive
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

//---------------------

// LoadResult - то, что видит клиент после загрузки картинки в сессию
type LoadResult struct {
	SessionID uuid.UUID  `json:"session_id"`
	Native    Dimensions `json:"native"`
	Decoded   Dimensions `json:"decoded"`
	Sample    int        `json:"sample"`
}

// LoadRequest - выбранная пользователем картинка, уже целиком в памяти (источник должен перечитываться)
type LoadRequest struct {
	Width         *int
	Height        *int
	Text          *string
	Image         []byte
	WMImg         []byte
	WMContentType string
}

//---------------------

type SavedImage struct {
	Key      string    `json:"key"`
	Location string    `json:"location"`
	MimeType string    `json:"mime_type"`
	Size     int64     `json:"size"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	SavedAt  time.Time `json:"saved_at"`
}

// ScanEvent - запрос на обновление медиа-индекса после записи файла
type ScanEvent struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	MimeType string `json:"mime_type"`
}

// ShareEvent - "send"-действие с приложенным файлом
type ShareEvent struct {
	Action   string `json:"action"`
	Title    string `json:"title"`
	MimeType string `json:"mime_type"`
	Location string `json:"location"`
}

const (
	ActionSend = "send"
	ShareTitle = "Share using..."
)

type SaveResult struct {
	Saved SavedImage `json:"saved"`
	Share ShareEvent `json:"share"`
}

//---------------------

// MediaEntry - запись медиа-индекса
type MediaEntry struct {
	UID       uuid.UUID  `json:"uid"`
	FileKey   string     `json:"-"`
	ThumbKey  string     `json:"-"`
	Location  string     `json:"location"`
	MimeType  string     `json:"mime_type"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

//-------------------

type ListRequest struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Sort  string `form:"sort"`
	Order string `form:"order"`
}

const (
	ByUUID    = "uid"
	ByCreated = "created"
	OrderASC  = "ascend"
	OrderDESC = "descend"
)

// ------------------

var (
	ErrCommon500           error = errors.New("something went wrong. Try again later")     // 500
	ErrIncorrectQuery      error = errors.New("incorrect query parameters")                // 400
	ErrIncorrectID         error = errors.New("incorrect UUID")                            // 400
	ErrImageNotFound       error = errors.New("specified image UUID doesn't exist")        // 404
	ErrSessionNotFound     error = errors.New("specified session doesn't exist")           // 404
	ErrNoImage             error = errors.New("no image loaded in session")                // 404
	ErrEmptySource         error = errors.New("empty/incorrect source image provided")     // 400
	ErrTooLarge            error = errors.New("uploaded file is too large")                // 413
	ErrUnsupportedWMFormat error = errors.New("unsupported watermark-image format")        // 400
	ErrInvalidBudget       error = errors.New("display budget must be positive")           // 400
	ErrUnreadable          error = errors.New("image source is unreadable")                // 422
	ErrWriteFailed         error = errors.New("failed to write image to pictures storage") // 500
)

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	GIF  = "image/gif"
)

var GetImageFileExt = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	GIF:  ".gif",
}

var GetCType = map[imaging.Format]string{
	imaging.JPEG: JPEG,
	imaging.GIF:  GIF,
	imaging.PNG:  PNG,
}
