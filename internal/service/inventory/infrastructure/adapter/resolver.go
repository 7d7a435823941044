package adapter

import (
	"context"
	"errors"
	"fmt"

	"tienda/internal/pkg/nacos"
)

// BaseURLResolver 给出商品服务的 base URL（包含 /api 前缀）。
type BaseURLResolver interface {
	BaseURL(ctx context.Context) (string, error)
}

// StaticBaseURL 使用配置中的固定地址。
type StaticBaseURL string

func (s StaticBaseURL) BaseURL(context.Context) (string, error) {
	if s == "" {
		return "", errors.New("product service base url is not configured")
	}
	return string(s), nil
}

// ServiceDiscoverer 是 nacos.Client 的最小接口。
type ServiceDiscoverer interface {
	DiscoverServiceInstance(serviceName string) (nacos.ServiceInstance, error)
}

// NacosBaseURL 每次调用时从 Nacos 选一个健康实例。
// 路径前缀取实例元数据里的 context_path，没有时用 defaultPrefix。
type NacosBaseURL struct {
	discoverer    ServiceDiscoverer
	serviceName   string
	defaultPrefix string
}

func NewNacosBaseURL(discoverer ServiceDiscoverer, serviceName, defaultPrefix string) *NacosBaseURL {
	return &NacosBaseURL{discoverer: discoverer, serviceName: serviceName, defaultPrefix: defaultPrefix}
}

func (n *NacosBaseURL) BaseURL(context.Context) (string, error) {
	inst, err := n.discoverer.DiscoverServiceInstance(n.serviceName)
	if err != nil {
		return "", err
	}
	prefix := inst.ContextPath()
	if prefix == "" {
		prefix = n.defaultPrefix
	}
	return fmt.Sprintf("http://%s:%d%s", inst.IP, inst.Port, prefix), nil
}
