// Package mwlogger attaches a request-scoped logger to every incoming request
// and hands it to the service layer through the context.
package mwlogger

import (
	"context"
	"net/http"

	"github.com/wb-go/wbf/helpers"
	"github.com/wb-go/wbf/zlog"
)

// RequestIDHeader - входящий id запроса переиспользуется, иначе генерится новый
const RequestIDHeader = "X-Request-Id"

type ctxLoggerKey struct{}

// NewMWLogger оборачивает next: каждому запросу - свой request_id в логах и в заголовке ответа
func NewMWLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = helpers.CreateUUID()
		}
		w.Header().Set(RequestIDHeader, reqID)

		logger := zlog.Logger.With().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
	})
}

// WithLogger кладет logger в ctx; воркер так помечает логи оффсетом сообщения
func WithLogger(ctx context.Context, logger zlog.Zerolog) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// LoggerFromContext extracts logger from context - used in service-layer
func LoggerFromContext(ctx context.Context) zlog.Zerolog {
	if l, ok := ctx.Value(ctxLoggerKey{}).(zlog.Zerolog); ok {
		return l
	}
	return zlog.Logger
}
