// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"tienda/internal/tracing"
)

// Init 配置全局 zerolog，所有日志都带上 service 字段。
func Init(serviceName, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	zlog.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()
}

// Ctx 返回 context 中的 logger；context 里没有时退回全局 logger。
func Ctx(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l == zerolog.DefaultContextLogger || l.GetLevel() == zerolog.Disabled {
		return &zlog.Logger
	}
	return l
}

// Middleware 先提取 trace 上下文，再把带 trace_id 的 logger 注入 context。
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		l := zlog.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		if traceID := tracing.GetTraceIDFromContext(ctx); traceID != "" {
			l = l.With().Str("trace_id", traceID).Logger()
		}
		if reqID := r.Header.Get("X-Request-ID"); reqID != "" {
			l = l.With().Str("request_id", reqID).Logger()
		}

		next.ServeHTTP(w, r.WithContext(l.WithContext(ctx)))
	})
}
