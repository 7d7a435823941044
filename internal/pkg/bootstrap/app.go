// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"tienda/internal/pkg/config"
	"tienda/internal/pkg/logger"
	"tienda/internal/pkg/metrics"
	"tienda/internal/pkg/middleware"
	"tienda/internal/pkg/nacos"
	"tienda/internal/tracing"
)

var (
	currentConfig config.Config
	configMu      sync.RWMutex
)

// GetCurrentConfig 返回 Init 加载的配置。
func GetCurrentConfig() config.Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return currentConfig
}

// AppCtx 是注册路由时可用的依赖。
type AppCtx struct {
	Mux      *http.ServeMux
	Config   config.Config
	Nacos    *nacos.Client // 未开启 Nacos 时为 nil
	Tracer   trace.Tracer
	Registry prometheus.Registerer

	cleanups *[]cleanup
}

type cleanup struct {
	name string
	fn   func(ctx context.Context) error
}

// OnShutdown 注册一个在关停时执行的清理函数，按注册的逆序执行。
func (a AppCtx) OnShutdown(name string, fn func(ctx context.Context) error) {
	*a.cleanups = append(*a.cleanups, cleanup{name: name, fn: fn})
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName string
	// RegisterHandlers 允许每个服务组装依赖并注册自己的 HTTP 路由
	RegisterHandlers func(appCtx AppCtx) error
}

// Init 加载配置并初始化日志，必须在 StartService 之前调用。
// 配置文件路径取 CONFIG_FILE，默认 configs/<service>.yaml。
func Init(serviceName string) {
	path := getEnv("CONFIG_FILE", "configs/"+serviceName+".yaml")
	cfg, err := config.Load(serviceName, path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to load configuration")
	}

	configMu.Lock()
	currentConfig = cfg
	configMu.Unlock()

	logger.Init(serviceName, cfg.App.LogLevel)
}

// StartService 封装了所有微服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	cfg := GetCurrentConfig()

	// 1. Tracer
	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	// 2. Nacos（可选）
	var namingClient *nacos.Client
	var ip string
	if cfg.Infra.Nacos.Enabled {
		namingClient, err = nacos.NewNacosClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize nacos client")
		}
		ip, err = GetOutboundIP()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get outbound IP address")
		}
		if err := namingClient.RegisterServiceInstance(info.ServiceName, ip, cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	// 3. 路由
	var cleanups []cleanup
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("GET /metrics", promhttp.Handler())

	appCtx := AppCtx{
		Mux:      mux,
		Config:   cfg,
		Nacos:    namingClient,
		Tracer:   otel.Tracer(info.ServiceName),
		Registry: prometheus.DefaultRegisterer,
		cleanups: &cleanups,
	}
	if info.RegisterHandlers != nil {
		if err := info.RegisterHandlers(appCtx); err != nil {
			log.Fatal().Err(err).Msg("failed to wire service dependencies")
		}
	}

	// metrics 中间件必须直接包在 mux 外面，才能拿到匹配到的 pattern
	handler := middleware.Chain(
		metrics.NewHTTP(prometheus.DefaultRegisterer, info.ServiceName).Middleware(mux),
		middleware.Recovery,
		middleware.RequestID,
		logger.Middleware,
		middleware.APIKey(cfg.Auth.APIKey),
	)

	server := &http.Server{Addr: ":" + strconv.Itoa(cfg.Server.Port), Handler: handler}
	go func() {
		log.Info().Str("addr", server.Addr).Msgf("%s listening", info.ServiceName)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("addr", server.Addr).Msg("could not listen")
		}
	}()

	// 4. 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msgf("Shutting down service %s...", info.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// a. 从 Nacos 注销服务，先摘流量
	if namingClient != nil {
		if err := namingClient.DeregisterServiceInstance(info.ServiceName, ip, cfg.Server.Port); err != nil {
			log.Error().Err(err).Msg("Error deregistering from Nacos")
		}
		namingClient.Close()
	}

	// b. 关闭 HTTP 服务器，等待在途请求结束
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down http server")
	} else {
		log.Info().Msg("HTTP server shut down.")
	}

	// c. 服务自己注册的清理函数（后进先出）
	for i := len(cleanups) - 1; i >= 0; i-- {
		if err := cleanups[i].fn(ctx); err != nil {
			log.Error().Err(err).Str("resource", cleanups[i].name).Msg("cleanup failed")
		}
	}

	// d. 关闭 Tracer Provider，确保所有缓冲的 trace 都被发送出去
	if err := tp.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down tracer provider")
	}

	log.Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
}

// GetOutboundIP 返回本机对外通信使用的 IP，用于服务注册。
func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
