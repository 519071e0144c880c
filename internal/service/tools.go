package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/UnendingLoop/Imagen/internal/mwlogger"
	"github.com/disintegration/imaging"
)

func validateQueryParams(req *model.ListRequest) {
	// Обрабатываем пустые значения, присваиваем дефолты если надо
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 30
	}

	// Валидируем поле типа сортировки: в запрос попадает только одно из известных имен колонок
	sort := strings.TrimSpace(strings.ToLower(req.Sort))
	switch {
	case strings.Contains(sort, model.ByUUID):
		req.Sort = "entry_uid"
	case strings.Contains(sort, model.ByCreated):
		req.Sort = "created_at"
	default:
		req.Sort = "created_at" // по дефолту ставим сортировку по времени создания
	}

	// Валадируем порядок
	order := strings.TrimSpace(strings.ToLower(req.Order))
	switch {
	case strings.Contains(order, model.OrderASC):
		req.Order = "ASC"
	case strings.Contains(order, model.OrderDESC):
		req.Order = "DESC"
	default:
		req.Order = "DESC" // по дефолту ставим сортировку "новое-выше"
	}
}

// resolveBudget накладывает переданные клиентом оси на бюджет по умолчанию
func resolveBudget(def model.Dimensions, width, height *int) model.Dimensions {
	budget := def
	if width != nil {
		budget.Width = *width
	}
	if height != nil {
		budget.Height = *height
	}
	return budget
}

func thumbKey(fileKey string) string {
	return thumbPrefix + fileKey
}

// mimeForFormat - content-type по имени формата из пробы заголовка
func mimeForFormat(format string) string {
	if f, err := imaging.FormatFromExtension(format); err == nil {
		if ct, ok := model.GetCType[f]; ok {
			return ct
		}
	}
	return "image/" + format
}

func closeStream(ctx context.Context, rc io.Closer, key string) {
	if err := rc.Close(); err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Warn().Err(err).Msg(fmt.Sprintf("Failed to close stream of %q", key))
	}
}
