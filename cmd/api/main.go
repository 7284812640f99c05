package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sobirov-market/storefront/config"
	"github.com/sobirov-market/storefront/internal/adapters/cache"
	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/adapters/logger"
	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/sobirov-market/storefront/internal/adapters/objectstore"
	"github.com/sobirov-market/storefront/internal/adapters/storage"
	"github.com/sobirov-market/storefront/internal/api"
	"github.com/sobirov-market/storefront/internal/api/handlers"
	"github.com/sobirov-market/storefront/internal/domain/filter"
	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/internal/infrastructure/postgres"
	"github.com/sobirov-market/storefront/internal/security"
	"github.com/sobirov-market/storefront/pkg/auth"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/sobirov-market/storefront/pkg/tx"

	_ "github.com/sobirov-market/storefront/docs"
)

// @title           Sobirov Market Storefront API
// @version         1.0
// @description     BFF витрины и админки Sobirov Market
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	configPath := flag.String("config", "", "путь к файлу конфигурации")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := logger.NewZapLogger(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Инициализация сервиса",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	// Клиентское хранилище: PostgreSQL, без него память процесса
	var (
		clientStorage interfaces.StoragePort
		txManager     = tx.NewNopManager()
	)
	pool, err := postgres.NewPool(ctx, postgres.Options{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
		SSLMode:  cfg.Postgres.SSLMode,
		Timeout:  cfg.Postgres.Timeout,
		PoolSize: cfg.Postgres.PoolSize,
	})
	if err == nil {
		var pgStorage *storage.ClientStorage
		pgStorage, err = storage.NewClientStorage(ctx, pool)
		if err == nil {
			clientStorage = pgStorage
			txManager = tx.NewManager(pool, log)
			log.Info("Клиентское хранилище PostgreSQL инициализировано")
		} else {
			pool.Close()
		}
	}
	if clientStorage == nil {
		if cfg.IsProduction() {
			log.Fatal("Ошибка инициализации хранилища", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		log.Warn("PostgreSQL недоступен, клиентские данные хранятся в памяти",
			interfaces.LogField{Key: "error", Value: err.Error()})
		clientStorage = storage.NewMemoryClientStorage(cfg.Filters.TTL * 48)
	}
	defer clientStorage.Close()

	// Кэш каталога: Redis, без него память процесса
	cacheClient, err := cache.NewRedisCache(ctx, cache.RedisOptions{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		Prefix:       cfg.AppName,
	})
	if err == nil {
		testCtx, testCancel := context.WithTimeout(ctx, 5*time.Second)
		err = checkRedisConnection(testCtx, cacheClient)
		testCancel()
		if err != nil {
			cacheClient.Close()
		}
	}
	if err != nil {
		log.Warn("Redis недоступен, используется кэш в памяти",
			interfaces.LogField{Key: "error", Value: err.Error()})
		cacheClient = cache.NewMemoryCache(cfg.CatalogAPI.CacheTTL, cfg.Filters.CleanupInterval)
	} else {
		log.Info("Кэш Redis инициализирован")
	}
	defer cacheClient.Close()

	// События витрины
	var messagingClient interfaces.MessagingPort = messaging.NewNoopMessaging(log)
	if cfg.Kafka.Enabled {
		kafkaClient, err := messaging.NewKafkaMessaging(messaging.KafkaOptions{
			Brokers:         cfg.Kafka.Brokers,
			GroupID:         cfg.Kafka.GroupID,
			ClientID:        cfg.AppName + "-api",
			AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
			CompressionType: cfg.Kafka.CompressionType,
		}, log)
		if err != nil {
			log.Warn("Kafka недоступна, события не публикуются",
				interfaces.LogField{Key: "error", Value: err.Error()})
		} else {
			messagingClient = kafkaClient
			log.Info("Система обмена сообщениями инициализирована")
		}
	}
	defer messagingClient.Close()
	publisher := messaging.NewEventPublisher(messagingClient, cfg.Kafka.EventsTopic, log)

	catalogClient := catalogapi.NewDefault(cfg.CatalogAPI.BaseURL, cfg.CatalogAPI.Token, cfg.CatalogAPI.Timeout)

	// Медиа-галерея
	var (
		gallery  *services.GalleryService
		resolver services.ImageResolver
	)
	objects, err := objectstore.NewS3Store(ctx, objectstore.Options{
		Endpoint:     cfg.S3.Endpoint,
		Region:       cfg.S3.Region,
		Bucket:       cfg.S3.Bucket,
		AccessKey:    cfg.S3.AccessKey,
		SecretKey:    cfg.S3.SecretKey,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
	if err != nil {
		log.Warn("S3 не настроен, медиа-галерея отключена",
			interfaces.LogField{Key: "error", Value: err.Error()})
	} else {
		gallery = services.NewGalleryService(objects, cacheClient, publisher, services.GalleryOptions{
			MaxUploadSize:  int64(cfg.Server.BodyLimit) << 20,
			PresignExpires: cfg.S3.PresignExpires,
			URLCacheTTL:    cfg.S3.URLCacheTTL,
		}, log)
		resolver = gallery
	}

	loader := filter.NewLoader(catalogClient, cacheClient, cfg.CatalogAPI.CacheTTL, log)
	catalogService := services.NewCatalogService(catalogClient, loader, cacheClient, cfg.CatalogAPI.CacheTTL, resolver, log)
	filterService := services.NewFilterService(loader, catalogService, cfg.Filters.TTL, cfg.Filters.CleanupInterval, log)
	cartService := services.NewCartService(clientStorage, publisher, log)
	checkoutService := services.NewCheckoutService(clientStorage, catalogClient, txManager, publisher, log)
	adminService := services.NewAdminService(catalogClient, cfg.Security.UniqueCheckDelay, publisher, catalogService.Invalidate, log)
	log.Info("Сервисы инициализированы")

	jwtManager, err := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpirationMin, cfg.Security.JWTIssuer)
	if err != nil {
		log.Fatal("Ошибка инициализации JWT", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	authService := security.NewAuthService(catalogClient, jwtManager)
	verifier := auth.ChainVerifier{jwtManager}

	var oauthProvider handlers.OAuthProvider
	if cfg.Keycloak.Enabled {
		keycloakClient, err := auth.NewKeycloakClient(ctx, cfg.Keycloak.GetKeycloakConfig())
		if err != nil {
			log.Fatal("Ошибка инициализации Keycloak", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		verifier = append(verifier, keycloakClient)
		oauthProvider = keycloakClient
		log.Info("Вход через Keycloak включен")
	}

	h := api.Handlers{
		Catalog:  handlers.NewCatalogHandler(catalogService, log),
		Filters:  handlers.NewFilterHandler(filterService, log),
		Cart:     handlers.NewCartHandler(cartService, log),
		Checkout: handlers.NewCheckoutHandler(checkoutService, log),
		Admin:    handlers.NewAdminHandler(adminService, authService, oauthProvider, log),
	}
	if gallery != nil {
		h.Gallery = handlers.NewGalleryHandler(gallery, log)
	}

	router := api.SetupRouter(h, verifier, log, api.RouterOptions{
		CORSAllowedOrigins: cfg.Security.CORSAllowOrigins,
		RequestTimeout:     cfg.Server.RequestTimeout,
		BodyLimit:          int64(cfg.Server.BodyLimit) << 20,
		ExposeMetrics:      cfg.Metrics.Enabled,
	})
	log.Info("Маршрутизатор настроен")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Сервер запущен", interfaces.LogField{Key: "address", Value: server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка запуска сервера", interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}()

	go func() {
		<-quit
		log.Info("Получен сигнал завершения, выполняется graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Ошибка при graceful shutdown", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		log.Info("HTTP сервер остановлен")

		cancel()
		close(done)
	}()

	<-done
	log.Info("Сервер корректно завершил работу")
}

// checkRedisConnection проверяет запись и чтение тестового ключа
func checkRedisConnection(ctx context.Context, cacheClient interfaces.CachePort) error {
	testKey := "test:connection"
	testValue := []byte("test-value")

	if err := cacheClient.Set(ctx, testKey, testValue, 10*time.Second); err != nil {
		return fmt.Errorf("ошибка записи в Redis: %w", err)
	}

	value, err := cacheClient.Get(ctx, testKey)
	if err != nil {
		return fmt.Errorf("ошибка чтения из Redis: %w", err)
	}
	if string(value) != string(testValue) {
		return fmt.Errorf("некорректное значение из Redis: получено %s, ожидалось %s",
			string(value), string(testValue))
	}

	if err := cacheClient.Delete(ctx, testKey); err != nil {
		return fmt.Errorf("ошибка удаления из Redis: %w", err)
	}
	return nil
}
