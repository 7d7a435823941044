// internal/pkg/middleware/middleware.go
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"tienda/internal/pkg/jsonapi"
	"tienda/internal/pkg/logger"
)

// 文档相关路径不需要 API Key
var apiKeyExemptPrefixes = []string{
	"/swagger-ui",
	"/v3/api-docs",
	"/api-docs",
	"/swagger-resources",
}

const invalidAPIKeyBody = `{"errors":[{"status":"401","detail":"API Key inválida"}]}`

// APIKey 校验 /api/ 下所有请求的 X-API-KEY 头。
func APIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresAPIKey(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if r.Header.Get("X-API-KEY") != apiKey {
				logger.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("rejected request with invalid API key")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(invalidAPIKeyBody))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requiresAPIKey(path string) bool {
	for _, p := range apiKeyExemptPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return strings.HasPrefix(path, "/api/")
}

// Recovery 把 handler 中的 panic 转换成 500 错误文档，进程不退出。
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Ctx(r.Context()).Error().
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("recovered from panic")
				jsonapi.WriteError(w, http.StatusInternalServerError, "Error interno del servidor", fmt.Sprint(rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestID 保证每个请求都有 X-Request-ID，并回写到响应头。
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// Chain 按书写顺序包装中间件，第一个在最外层。
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
