// cmd/inventory-service/main.go
package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"tienda/internal/pkg/bootstrap"
	"tienda/internal/pkg/database"
	"tienda/internal/pkg/httpclient"
	"tienda/internal/pkg/metrics"
	"tienda/internal/pkg/mq"
	"tienda/internal/pkg/nacos"
	"tienda/internal/service/inventory/application"
	"tienda/internal/service/inventory/domain"
	"tienda/internal/service/inventory/domain/port"
	"tienda/internal/service/inventory/infrastructure"
	"tienda/internal/service/inventory/infrastructure/adapter"
	"tienda/internal/service/inventory/interfaces"
)

const serviceName = "inventory-service"

// main 是应用的组装根：创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			repo, err := newStockRepository(appCtx)
			if err != nil {
				return err
			}
			oracle, err := newProductOracle(appCtx)
			if err != nil {
				return err
			}
			events := newStockEventPublisher(appCtx)

			svc := application.NewInventoryService(repo, oracle, events, metrics.NewInventory(appCtx.Registry), appCtx.Tracer)
			interfaces.NewInventoryHandler(svc, appCtx.Tracer).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}

func newStockRepository(appCtx bootstrap.AppCtx) (domain.StockRepository, error) {
	cfg := appCtx.Config
	if cfg.Storage.Driver != "mysql" {
		log.Warn().Msg("using in-memory stock repository")
		return infrastructure.NewMemoryStockRepository(), nil
	}

	db, err := database.OpenMySQL(cfg.Infra.MySQL)
	if err != nil {
		return nil, err
	}
	appCtx.OnShutdown("mysql", func(context.Context) error { return database.Close(db) })

	repo := infrastructure.NewGormStockRepository(db)
	if cfg.Infra.MySQL.AutoMigrate {
		if err := repo.AutoMigrate(); err != nil {
			return nil, errors.Wrap(err, "migrate inventarios")
		}
	}
	return repo, nil
}

// newProductOracle 优先使用固定地址；未配置地址且开启 Nacos 时按服务名发现。
func newProductOracle(appCtx bootstrap.AppCtx) (port.ProductOracle, error) {
	cfg := appCtx.Config.ProductService

	var resolver adapter.BaseURLResolver
	switch {
	case cfg.BaseURL != "":
		resolver = adapter.StaticBaseURL(cfg.BaseURL)
	case appCtx.Nacos != nil:
		resolver = adapter.NewNacosBaseURL(appCtx.Nacos, cfg.ServiceName, nacos.DefaultContextPath)
	default:
		return nil, errors.New("product service base url is not configured and nacos is disabled")
	}

	client := httpclient.NewClient(appCtx.Tracer)
	return adapter.NewProductHTTPAdapter(client, resolver, adapter.ProductServiceConfig{
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	}), nil
}

func newStockEventPublisher(appCtx bootstrap.AppCtx) port.StockEventPublisher {
	kafkaCfg := appCtx.Config.Infra.Kafka
	if len(kafkaCfg.Brokers) == 0 {
		log.Info().Msg("no kafka brokers configured, stock events are dropped")
		return adapter.NoopStockEventPublisher{}
	}

	writer := mq.NewWriter(kafkaCfg.Brokers, kafkaCfg.StockTopic)
	appCtx.OnShutdown("kafka-writer", func(context.Context) error { return writer.Close() })
	return adapter.NewStockEventKafkaAdapter(writer)
}
