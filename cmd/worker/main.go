package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sobirov-market/storefront/config"
	"github.com/sobirov-market/storefront/internal/adapters/cache"
	"github.com/sobirov-market/storefront/internal/adapters/logger"
	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/sobirov-market/storefront/internal/adapters/storage"
	"github.com/sobirov-market/storefront/internal/infrastructure/postgres"
	"github.com/sobirov-market/storefront/internal/worker"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

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
	log.Info("Инициализация воркера",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName + "-worker"},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	// HTTP сервер для метрик
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Endpoint, promhttp.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		metricsServer = &http.Server{Addr: fmt.Sprintf(":%d", cfg.Metrics.Port), Handler: mux}

		go func() {
			log.Info("Запуск HTTP сервера для метрик",
				interfaces.LogField{Key: "addr", Value: metricsServer.Addr})
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Ошибка запуска HTTP сервера для метрик",
					interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}()
	}

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
	if err != nil {
		log.Fatal("Ошибка инициализации кэша",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer cacheClient.Close()
	log.Info("Кэш инициализирован")

	var wg sync.WaitGroup

	// Очистка брошенных сессий работает только с PostgreSQL
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
	if err != nil {
		log.Warn("PostgreSQL недоступен, очистка сессий отключена",
			interfaces.LogField{Key: "error", Value: err.Error()})
	} else {
		clientStorage, err := storage.NewClientStorage(ctx, pool)
		if err != nil {
			log.Fatal("Ошибка инициализации хранилища",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		defer clientStorage.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.RunPurge(ctx, clientStorage, cfg.Worker.PurgeInterval, cfg.Worker.SessionMaxAge, log)
		}()
		log.Info("Очистка устаревших сессий запущена",
			interfaces.LogField{Key: "interval", Value: cfg.Worker.PurgeInterval.String()})
	}

	if cfg.Kafka.Enabled {
		messagingClient, err := messaging.NewKafkaMessaging(messaging.KafkaOptions{
			Brokers:         cfg.Kafka.Brokers,
			GroupID:         cfg.Kafka.GroupID,
			ClientID:        cfg.AppName + "-worker",
			AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
			CompressionType: cfg.Kafka.CompressionType,
		}, log)
		if err != nil {
			log.Fatal("Ошибка инициализации системы обмена сообщениями",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		defer messagingClient.Close()

		if err := messagingClient.EnsureTopic(ctx, cfg.Kafka.EventsTopic, 3, 1); err != nil {
			log.Warn("Не удалось создать топик событий",
				interfaces.LogField{Key: "topic", Value: cfg.Kafka.EventsTopic},
				interfaces.LogField{Key: "error", Value: err.Error()})
		}

		handler := worker.NewEventHandler(cacheClient, log)
		wg.Add(1)
		go func() {
			defer wg.Done()

			unsubscribe, err := messagingClient.Subscribe(ctx, cfg.Kafka.EventsTopic, handler.Handle)
			if err != nil {
				log.Error("Ошибка подписки на события витрины",
					interfaces.LogField{Key: "error", Value: err.Error()})
				return
			}
			defer unsubscribe()

			log.Info("Подписка на события витрины установлена",
				interfaces.LogField{Key: "topic", Value: cfg.Kafka.EventsTopic})

			<-ctx.Done()
			log.Info("Отмена подписки на события витрины")
		}()
	} else {
		log.Warn("Kafka отключена, события витрины не обрабатываются")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Воркер запущен")
	<-quit
	log.Info("Получен сигнал завершения, выполняется graceful shutdown...")

	cancel()
	wg.Wait()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Ошибка остановки сервера метрик",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}

	log.Info("Воркер корректно завершил работу")
}
