package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tienda/internal/pkg/httpclient"
	"tienda/internal/pkg/logger"
	"tienda/internal/service/inventory/domain"
)

// ProductServiceConfig 是商品服务适配器的显式配置，不依赖任何全局状态。
type ProductServiceConfig struct {
	APIKey  string
	Timeout time.Duration
}

// ProductHTTPAdapter 实现了 port.ProductOracle 接口。
type ProductHTTPAdapter struct {
	client   *httpclient.Client
	resolver BaseURLResolver
	cfg      ProductServiceConfig
}

// NewProductHTTPAdapter 创建一个新的商品服务适配器。
func NewProductHTTPAdapter(client *httpclient.Client, resolver BaseURLResolver, cfg ProductServiceConfig) *ProductHTTPAdapter {
	return &ProductHTTPAdapter{client: client, resolver: resolver, cfg: cfg}
}

// Validate 调用 GET {baseUrl}/productos/{id}，每次调用只发一次请求，不缓存不重试。
func (a *ProductHTTPAdapter) Validate(ctx context.Context, productID int64) domain.ValidationOutcome {
	log := logger.Ctx(ctx)

	baseURL, err := a.resolver.BaseURL(ctx)
	if err != nil {
		log.Error().Err(err).Int64("product_id", productID).Msg("failed to resolve product service address")
		return domain.Failed(domain.NewUpstreamUnreachable(err))
	}

	target := fmt.Sprintf("%s/productos/%d", strings.TrimRight(baseURL, "/"), productID)
	if u, err := url.Parse(target); err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("product service url %q is not absolute", target)
		}
		log.Error().Err(err).Str("url", target).Msg("invalid product service url")
		return domain.Failed(domain.NewUpstreamUnexpected(err))
	}

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	header := http.Header{}
	header.Set("X-API-KEY", a.cfg.APIKey)

	log.Info().Str("url", target).Msg("checking product existence")
	resp, err := a.client.Get(ctx, target, header)
	if err != nil {
		if isConnectivityError(err) {
			log.Error().Err(err).Int64("product_id", productID).Msg("could not reach product service")
			return domain.Failed(domain.NewUpstreamUnreachable(err))
		}
		log.Error().Err(err).Int64("product_id", productID).Msg("unexpected error while validating product")
		return domain.Failed(domain.NewUpstreamUnexpected(err))
	}

	return classify(ctx, productID, resp)
}

func classify(ctx context.Context, productID int64, resp *httpclient.Response) domain.ValidationOutcome {
	log := logger.Ctx(ctx)
	body := string(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		log.Info().Int64("product_id", productID).Msg("product found")
		return domain.Found(domain.ProductRef{Body: resp.Body})
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		e := domain.NewUpstreamClientError(resp.StatusCode, body)
		log.Error().Int("status", resp.StatusCode).Int64("product_id", productID).Msg(e.Detail)
		return domain.Failed(e)
	case resp.StatusCode >= 500:
		e := domain.NewUpstreamServerError(resp.StatusCode, body)
		log.Error().Int("status", resp.StatusCode).Int64("product_id", productID).Msg(e.Detail)
		return domain.Failed(e)
	default:
		log.Warn().Int("status", resp.StatusCode).Int64("product_id", productID).Msg("product service answered with unexpected non-2xx status")
		return domain.Failed(domain.NewUpstreamUnexpectedStatus(productID, resp.StatusCode, body))
	}
}

// isConnectivityError 判断是否为网络层失败（连接、超时、DNS）。
func isConnectivityError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
