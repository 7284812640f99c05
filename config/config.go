package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config содержит все настройки сервиса
type Config struct {
	AppName  string
	Version  string
	LogLevel string
	ENV      string

	Server struct {
		Host            string
		Port            int
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		RequestTimeout  time.Duration
		BodyLimit       int // максимальный размер запроса в МБ
	}

	Postgres struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
		SSLMode  string
		Timeout  time.Duration
		PoolSize int // размер пула соединений
	}

	Redis struct {
		Host         string
		Port         int
		Password     string
		DB           int
		PoolSize     int
		MinIdleConns int
		DialTimeout  time.Duration
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		MaxRetries   int
	}

	Kafka struct {
		Enabled         bool     `mapstructure:"enabled"`
		Brokers         []string `mapstructure:"brokers"`
		GroupID         string   `mapstructure:"group_id"`
		EventsTopic     string   `mapstructure:"events_topic"`
		AutoOffsetReset string   `mapstructure:"auto_offset_reset"`
		CompressionType string   `mapstructure:"compression_type"`
	}

	// CatalogAPI внешний REST бэкенд с товарами, категориями, брендами и заказами
	CatalogAPI struct {
		BaseURL  string        `mapstructure:"base_url"`
		Timeout  time.Duration `mapstructure:"timeout"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
		Token    string        `mapstructure:"token"`
	} `mapstructure:"catalog_api"`

	// S3 объектное хранилище медиа-галереи
	S3 struct {
		Endpoint       string        `mapstructure:"endpoint"`
		Region         string        `mapstructure:"region"`
		Bucket         string        `mapstructure:"bucket"`
		AccessKey      string        `mapstructure:"access_key"`
		SecretKey      string        `mapstructure:"secret_key"`
		UsePathStyle   bool          `mapstructure:"use_path_style"`
		PresignExpires time.Duration `mapstructure:"presign_expires"`
		URLCacheTTL    time.Duration `mapstructure:"url_cache_ttl"`
	}

	Filters struct {
		TTL             time.Duration // время жизни состояния фильтра страницы
		CleanupInterval time.Duration
	}

	// Worker фоновая обработка событий и очистка брошенных сессий
	Worker struct {
		PurgeInterval time.Duration `mapstructure:"purge_interval"`
		SessionMaxAge time.Duration `mapstructure:"session_max_age"`
	}

	Metrics struct {
		Enabled  bool
		Endpoint string
		Port     int `mapstructure:"port"`
	}

	Security struct {
		JWTSecret        string
		JWTExpirationMin time.Duration
		JWTIssuer        string
		CORSAllowOrigins []string
		UniqueCheckDelay time.Duration // задержка проверки уникальности названий в админке
	}

	Keycloak KeycloakConfig
}

// ErrMissingCatalogURL возвращается, если не задан адрес внешнего API
var ErrMissingCatalogURL = errors.New("catalog api base url is empty")

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("../config")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		// Файла нет - работаем на значениях по умолчанию и переменных окружения
	}

	setDefaults(v)
	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка десериализации конфигурации: %w", err)
	}

	if cfg.CatalogAPI.BaseURL == "" {
		return nil, ErrMissingCatalogURL
	}

	return &cfg, nil
}

// IsProduction сообщает, что сервис запущен в production окружении
func (c *Config) IsProduction() bool {
	return c.ENV == "production"
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	v.SetDefault("appName", "storefront")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("logLevel", "info")
	v.SetDefault("env", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.shutdownTimeout", "5s")
	v.SetDefault("server.requestTimeout", "30s")
	v.SetDefault("server.bodyLimit", 10) // 10 МБ

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.dbname", "storefront")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.timeout", "5s")
	v.SetDefault("postgres.poolSize", 10)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("redis.minIdleConns", 2)
	v.SetDefault("redis.dialTimeout", "3s")
	v.SetDefault("redis.readTimeout", "2s")
	v.SetDefault("redis.writeTimeout", "2s")
	v.SetDefault("redis.maxRetries", 3)

	v.SetDefault("kafka.enabled", true)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.group_id", "storefront")
	v.SetDefault("kafka.events_topic", "storefront-events")
	v.SetDefault("kafka.auto_offset_reset", "latest")
	v.SetDefault("kafka.compression_type", "snappy")

	v.SetDefault("catalog_api.timeout", "15s")
	v.SetDefault("catalog_api.cache_ttl", "5m")

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.use_path_style", true)
	v.SetDefault("s3.presign_expires", "1h")
	v.SetDefault("s3.url_cache_ttl", "50m")

	v.SetDefault("filters.ttl", "30m")
	v.SetDefault("filters.cleanupInterval", "5m")

	v.SetDefault("worker.purge_interval", "1h")
	v.SetDefault("worker.session_max_age", "720h")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.endpoint", "/metrics")
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("security.jwtSecret", "change-me")
	v.SetDefault("security.jwtExpirationMin", "60m")
	v.SetDefault("security.jwtIssuer", "storefront")
	v.SetDefault("security.corsAllowOrigins", []string{"*"})
	v.SetDefault("security.uniqueCheckDelay", "300ms")

	v.SetDefault("keycloak.enabled", false)
}

// bindEnvVariables привязывает переменные окружения к конфигурации
func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("appName", "APP_NAME")
	_ = v.BindEnv("version", "APP_VERSION")
	_ = v.BindEnv("logLevel", "LOG_LEVEL")
	_ = v.BindEnv("env", "APP_ENV")

	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.readTimeout", "SERVER_READ_TIMEOUT")
	_ = v.BindEnv("server.writeTimeout", "SERVER_WRITE_TIMEOUT")
	_ = v.BindEnv("server.shutdownTimeout", "SERVER_SHUTDOWN_TIMEOUT")
	_ = v.BindEnv("server.bodyLimit", "SERVER_BODY_LIMIT")

	_ = v.BindEnv("postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("postgres.dbname", "POSTGRES_DBNAME")
	_ = v.BindEnv("postgres.sslmode", "POSTGRES_SSLMODE")
	_ = v.BindEnv("postgres.poolSize", "POSTGRES_POOL_SIZE")

	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	_ = v.BindEnv("kafka.enabled", "KAFKA_ENABLED")
	_ = v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	_ = v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	_ = v.BindEnv("kafka.events_topic", "KAFKA_EVENTS_TOPIC")

	_ = v.BindEnv("catalog_api.base_url", "CATALOG_API_BASE_URL")
	_ = v.BindEnv("catalog_api.timeout", "CATALOG_API_TIMEOUT")
	_ = v.BindEnv("catalog_api.token", "CATALOG_API_TOKEN")

	_ = v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	_ = v.BindEnv("s3.region", "S3_REGION")
	_ = v.BindEnv("s3.bucket", "S3_BUCKET")
	_ = v.BindEnv("s3.access_key", "S3_ACCESS_KEY")
	_ = v.BindEnv("s3.secret_key", "S3_SECRET_KEY")

	_ = v.BindEnv("worker.purge_interval", "WORKER_PURGE_INTERVAL")
	_ = v.BindEnv("worker.session_max_age", "WORKER_SESSION_MAX_AGE")

	_ = v.BindEnv("metrics.enabled", "METRICS_ENABLED")
	_ = v.BindEnv("metrics.port", "METRICS_PORT")

	_ = v.BindEnv("security.jwtSecret", "JWT_SECRET")
	_ = v.BindEnv("security.jwtExpirationMin", "JWT_EXPIRATION_MIN")
	_ = v.BindEnv("security.corsAllowOrigins", "CORS_ALLOW_ORIGINS")

	_ = v.BindEnv("keycloak.enabled", "KEYCLOAK_ENABLED")
	_ = v.BindEnv("keycloak.server_url", "KEYCLOAK_SERVER_URL")
	_ = v.BindEnv("keycloak.realm", "KEYCLOAK_REALM")
	_ = v.BindEnv("keycloak.client_id", "KEYCLOAK_CLIENT_ID")
	_ = v.BindEnv("keycloak.client_secret", "KEYCLOAK_CLIENT_SECRET")
}
