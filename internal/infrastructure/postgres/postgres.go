package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sobirov-market/storefront/internal/utils"
)

// Options параметры подключения к PostgreSQL
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Timeout  time.Duration
	PoolSize int
}

// NewPool создает пул соединений и проверяет доступность базы
func NewPool(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	connStr, err := utils.GenerateConnectionString(
		opts.Host, opts.User, opts.Password, opts.DBName, opts.SSLMode,
		opts.Port, opts.PoolSize, opts.Timeout,
	)
	if err != nil {
		return nil, fmt.Errorf("некорректные параметры подключения к PostgreSQL: %w", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора строки подключения: %w", err)
	}
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	pingCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return pool, nil
}
