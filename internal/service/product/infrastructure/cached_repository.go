package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"tienda/internal/pkg/logger"
	"tienda/internal/service/product/domain"
)

// CachedProductRepository 在 FindByID 上做 cache-aside，其它方法直接委托。
// Redis 出错时降级为直接读底层仓储；商品不存在不缓存。
type CachedProductRepository struct {
	inner domain.ProductRepository
	cache redis.Cmdable
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedProductRepository(inner domain.ProductRepository, cache redis.Cmdable, ttl time.Duration) *CachedProductRepository {
	return &CachedProductRepository{inner: inner, cache: cache, ttl: ttl}
}

func productCacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// cachedProduct 是写入 Redis 的 JSON 结构
type cachedProduct struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

func (r *CachedProductRepository) Save(ctx context.Context, p *domain.Product) error {
	return r.inner.Save(ctx, p)
}

func (r *CachedProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.inner.FindAll(ctx)
}

func (r *CachedProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	key := productCacheKey(id)
	if p, ok := r.lookup(ctx, key); ok {
		return p, nil
	}

	// 并发未命中合并为一次底层查询
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		p, err := r.inner.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p := *v.(*domain.Product)
	return &p, nil
}

func (r *CachedProductRepository) lookup(ctx context.Context, key string) (*domain.Product, bool) {
	raw, err := r.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("product cache read failed")
		}
		return nil, false
	}

	var c cachedProduct
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("discarding corrupt product cache entry")
		return nil, false
	}
	p, err := c.toDomain()
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("discarding corrupt product cache entry")
		return nil, false
	}
	return p, true
}

func (r *CachedProductRepository) store(ctx context.Context, key string, p *domain.Product) {
	payload, err := json.Marshal(cachedProduct{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price.String()})
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, string(payload), r.ttl).Err(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("product cache write failed")
	}
}
