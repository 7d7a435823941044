// internal/pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 是两个服务共享的配置结构，YAML 文件 + 环境变量覆盖。
type Config struct {
	App            AppConfig            `yaml:"app"`
	Server         ServerConfig         `yaml:"server"`
	Auth           AuthConfig           `yaml:"auth"`
	Storage        StorageConfig        `yaml:"storage"`
	ProductService ProductServiceConfig `yaml:"product_service"`
	Infra          InfraConfig          `yaml:"infra"`
}

type AppConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig 是入站请求的 API Key。
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// StorageConfig 决定仓储实现: "mysql" 或 "memory"。
type StorageConfig struct {
	Driver string `yaml:"driver"`
}

// ProductServiceConfig 是库存服务调用商品服务所需的配置。
// BaseURL 为空且开启了 Nacos 时，通过服务发现拼接地址。
type ProductServiceConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	ServiceName string        `yaml:"service_name"`
	Timeout     time.Duration `yaml:"timeout"`
}

type InfraConfig struct {
	MySQL  MySQLConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Jaeger JaegerConfig `yaml:"jaeger"`
	Nacos  NacosConfig  `yaml:"nacos"`
}

type MySQLConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	StockTopic string   `yaml:"stock_topic"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type NacosConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServerAddrs string `yaml:"server_addrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

// Default 返回本地开发用的默认配置。
func Default(serviceName string) Config {
	return Config{
		App:     AppConfig{Name: serviceName, LogLevel: "info"},
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: 10 * time.Second},
		Storage: StorageConfig{Driver: "memory"},
		ProductService: ProductServiceConfig{
			ServiceName: "product-service",
			Timeout:     5 * time.Second,
		},
		Infra: InfraConfig{
			MySQL: MySQLConfig{
				MaxOpenConns:    20,
				MaxIdleConns:    10,
				ConnMaxLifetime: time.Hour,
				AutoMigrate:     true,
			},
			Redis: RedisConfig{TTL: 5 * time.Minute},
			Kafka: KafkaConfig{StockTopic: "inventory.stock-changed"},
			Nacos: NacosConfig{ServerAddrs: "localhost:8848", Group: "DEFAULT_GROUP"},
		},
	}
}

// Load 读取 YAML 配置文件（path 为空或文件不存在时跳过），再用环境变量覆盖。
func Load(serviceName, path string) (Config, error) {
	cfg := Default(serviceName)

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, errors.Wrapf(err, "parse config file %s", path)
			}
		case os.IsNotExist(err):
		default:
			return Config{}, errors.Wrapf(err, "read config file %s", path)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.App.LogLevel, "LOG_LEVEL")
	setInt(&cfg.Server.Port, "HTTP_PORT")
	setString(&cfg.Auth.APIKey, "API_KEY")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.ProductService.BaseURL, "PRODUCTOS_API_URL")
	setString(&cfg.ProductService.APIKey, "PRODUCTOS_API_KEY")
	setString(&cfg.Infra.MySQL.DSN, "MYSQL_DSN")
	setString(&cfg.Infra.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Infra.Jaeger.Endpoint, "JAEGER_ENDPOINT")
	setString(&cfg.Infra.Nacos.ServerAddrs, "NACOS_SERVER_ADDRS")
	setString(&cfg.Infra.Nacos.Namespace, "NACOS_NAMESPACE")
	setString(&cfg.Infra.Nacos.Group, "NACOS_GROUP")
	if v, ok := os.LookupEnv("NACOS_ENABLED"); ok {
		cfg.Infra.Nacos.Enabled, _ = strconv.ParseBool(v)
	}
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok && v != "" {
		cfg.Infra.Kafka.Brokers = strings.Split(v, ",")
	}
}

// Validate 检查启动所必需的配置项。
func (c Config) Validate() error {
	if c.Auth.APIKey == "" {
		return errors.New("auth.api_key (API_KEY) must be set")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Storage.Driver {
	case "memory":
	case "mysql":
		if c.Infra.MySQL.DSN == "" {
			return errors.New("storage driver mysql requires infra.mysql.dsn (MYSQL_DSN)")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
