package worker

import (
	"context"
	"time"

	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// StalePurger удаляет клиентские данные сессий, к которым давно не обращались
type StalePurger interface {
	PurgeStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// RunPurge запускает очистку каждые interval до отмены ctx
func RunPurge(ctx context.Context, purger StalePurger, interval, maxAge time.Duration, logger interfaces.LoggerPort) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgeOnce(ctx, purger, maxAge, logger)
		}
	}
}

func purgeOnce(ctx context.Context, purger StalePurger, maxAge time.Duration, logger interfaces.LoggerPort) {
	n, err := purger.PurgeStale(ctx, maxAge)
	if err != nil {
		logger.ErrorWithContext(ctx, "Ошибка очистки устаревших сессий",
			interfaces.LogField{Key: "error", Value: err.Error()})
		return
	}
	if n > 0 {
		logger.InfoWithContext(ctx, "Удалены устаревшие клиентские данные",
			interfaces.LogField{Key: "rows", Value: n})
	}
}
