package transport

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strconv"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/wb-go/wbf/ginext"
)

// MaxUploadSize - предел для одного загружаемого файла
var MaxUploadSize int64 = 32 << 20

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrCommon500),
		errors.Is(err, model.ErrWriteFailed):
		return 500
	case errors.Is(err, model.ErrImageNotFound),
		errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrNoImage):
		return 404
	case errors.Is(err, model.ErrUnreadable):
		return 422
	case errors.Is(err, model.ErrTooLarge):
		return 413
	case errors.Is(err, model.ErrIncorrectQuery),
		errors.Is(err, model.ErrIncorrectID),
		errors.Is(err, model.ErrEmptySource),
		errors.Is(err, model.ErrInvalidBudget),
		errors.Is(err, model.ErrUnsupportedWMFormat):
		return 400
	default:
		return 500
	}
}

// errorBody - наружу уходит только текст сентинела, без подробностей обертки
func errorBody(err error) map[string]string {
	for _, known := range []error{
		model.ErrInvalidBudget,
		model.ErrUnreadable,
		model.ErrWriteFailed,
		model.ErrTooLarge,
	} {
		if errors.Is(err, known) {
			return map[string]string{"error": known.Error()}
		}
	}
	return map[string]string{"error": err.Error()}
}

func respondError(ctx *ginext.Context, err error) {
	ctx.JSON(errorCodeDefiner(err), errorBody(err))
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		log.Println("Handler failed to close fileflow:", err)
	}
}

// optionalInt - пустое поле дает nil, мусор - ErrIncorrectQuery
func optionalInt(ctx *ginext.Context, field string) (*int, error) {
	raw, ok := ctx.GetPostForm(field)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", model.ErrIncorrectQuery, field, raw)
	}
	return &v, nil
}

// readFormFile вычитывает файл целиком: загрузчик читает источник дважды, а тело запроса - одноразовое
func readFormFile(f multipart.File) ([]byte, error) {
	defer closeFileFlow(f)

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", model.ErrTooLarge, MaxUploadSize)
	}
	return data, nil
}
