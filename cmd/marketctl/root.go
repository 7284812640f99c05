package main

import (
	"fmt"

	"github.com/sobirov-market/storefront/config"
	"github.com/sobirov-market/storefront/internal/adapters/cache"
	"github.com/sobirov-market/storefront/internal/adapters/catalogapi"
	"github.com/sobirov-market/storefront/internal/adapters/logger"
	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/sobirov-market/storefront/internal/adapters/objectstore"
	"github.com/sobirov-market/storefront/internal/domain/filter"
	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/pkg/interfaces"
	"github.com/spf13/cobra"
)

// app зависимости, общие для всех команд
type app struct {
	cfg       *config.Config
	log       interfaces.LoggerPort
	messaging interfaces.MessagingPort
	catalog   *catalogapi.Client
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		a          = &app{}
	)

	root := &cobra.Command{
		Use:           "marketctl",
		Short:         "Утилита администратора Sobirov Market",
		Long:          "marketctl работает с медиа-галереей и каталогом напрямую, с теми же настройками, что и API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			log, err := logger.NewZapLogger(level, false)
			if err != nil {
				return fmt.Errorf("ошибка инициализации логгера: %w", err)
			}

			a.cfg = cfg
			a.log = log
			a.catalog = catalogapi.NewDefault(cfg.CatalogAPI.BaseURL, cfg.CatalogAPI.Token, cfg.CatalogAPI.Timeout)
			a.messaging = messaging.NewNoopMessaging(log)
			if cfg.Kafka.Enabled {
				kafkaClient, err := messaging.NewKafkaMessaging(messaging.KafkaOptions{
					Brokers:         cfg.Kafka.Brokers,
					GroupID:         cfg.Kafka.GroupID,
					ClientID:        cfg.AppName + "-marketctl",
					CompressionType: cfg.Kafka.CompressionType,
				}, log)
				if err == nil {
					a.messaging = kafkaClient
				} else {
					log.Warn("Kafka недоступна, события не публикуются",
						interfaces.LogField{Key: "error", Value: err.Error()})
				}
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.messaging != nil {
				_ = a.messaging.Close()
			}
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "путь к файлу конфигурации")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробный лог")

	root.AddCommand(newGalleryCmd(a), newCategoriesCmd(a))
	return root
}

// gallery собирает сервис галереи поверх S3 из конфигурации
func (a *app) gallery(cmd *cobra.Command) (*services.GalleryService, error) {
	objects, err := objectstore.NewS3Store(cmd.Context(), objectstore.Options{
		Endpoint:     a.cfg.S3.Endpoint,
		Region:       a.cfg.S3.Region,
		Bucket:       a.cfg.S3.Bucket,
		AccessKey:    a.cfg.S3.AccessKey,
		SecretKey:    a.cfg.S3.SecretKey,
		UsePathStyle: a.cfg.S3.UsePathStyle,
	})
	if err != nil {
		return nil, err
	}
	publisher := messaging.NewEventPublisher(a.messaging, a.cfg.Kafka.EventsTopic, a.log)
	return services.NewGalleryService(objects, nil, publisher, services.GalleryOptions{
		MaxUploadSize:  int64(a.cfg.Server.BodyLimit) << 20,
		PresignExpires: a.cfg.S3.PresignExpires,
	}, a.log), nil
}

func (a *app) loader() *filter.Loader {
	return filter.NewLoader(a.catalog, cache.NewMemoryCache(a.cfg.CatalogAPI.CacheTTL, 0), a.cfg.CatalogAPI.CacheTTL, a.log)
}
