// cmd/product-service/main.go
package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"tienda/internal/pkg/bootstrap"
	"tienda/internal/pkg/database"
	"tienda/internal/service/product/application"
	"tienda/internal/service/product/domain"
	"tienda/internal/service/product/infrastructure"
	"tienda/internal/service/product/interfaces"
)

const serviceName = "product-service"

// main 是应用的组装根：创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			repo, err := newProductRepository(appCtx)
			if err != nil {
				return err
			}
			svc := application.NewProductService(repo, appCtx.Tracer)
			interfaces.NewProductHandler(svc, appCtx.Tracer).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}

func newProductRepository(appCtx bootstrap.AppCtx) (domain.ProductRepository, error) {
	cfg := appCtx.Config

	var repo domain.ProductRepository
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := database.OpenMySQL(cfg.Infra.MySQL)
		if err != nil {
			return nil, err
		}
		appCtx.OnShutdown("mysql", func(context.Context) error { return database.Close(db) })

		gormRepo := infrastructure.NewGormProductRepository(db)
		if cfg.Infra.MySQL.AutoMigrate {
			if err := gormRepo.AutoMigrate(); err != nil {
				return nil, errors.Wrap(err, "migrate productos")
			}
		}
		repo = gormRepo
	default:
		repo = infrastructure.NewMemoryProductRepository()
	}

	// 配置了 Redis 才启用读缓存
	if cfg.Infra.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Infra.Redis.Addr,
			Password: cfg.Infra.Redis.Password,
			DB:       cfg.Infra.Redis.DB,
		})
		appCtx.OnShutdown("redis", func(context.Context) error { return rdb.Close() })
		log.Info().Str("addr", cfg.Infra.Redis.Addr).Dur("ttl", cfg.Infra.Redis.TTL).Msg("product cache enabled")
		repo = infrastructure.NewCachedProductRepository(repo, rdb, cfg.Infra.Redis.TTL)
	}
	return repo, nil
}
