package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sobirov-market/storefront/internal/adapters/messaging"
	"github.com/sobirov-market/storefront/internal/domain/services"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

var (
	messagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_worker_messages_processed_total",
		Help: "Общее количество обработанных событий",
	}, []string{"type", "status"})

	messageProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_worker_message_processing_duration_seconds",
		Help:    "Длительность обработки событий",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})

	ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Заказы, оформленные через витрину",
	})
)

// EventHandler обрабатывает события витрины из топика событий
type EventHandler struct {
	cache  interfaces.CachePort
	logger interfaces.LoggerPort
}

func NewEventHandler(cache interfaces.CachePort, logger interfaces.LoggerPort) *EventHandler {
	return &EventHandler{cache: cache, logger: logger}
}

// Handle реализует interfaces.MessageHandler. Ошибка возвращается только
// когда повторная доставка может помочь, битые сообщения пропускаются.
func (h *EventHandler) Handle(ctx context.Context, msg *interfaces.Message) error {
	startTime := time.Now()

	ev, err := messaging.DecodeEvent(msg)
	if err != nil {
		h.logger.ErrorWithContext(ctx, "Ошибка декодирования события",
			interfaces.LogField{Key: "error", Value: err.Error()},
			interfaces.LogField{Key: "message_id", Value: msg.ID})
		messagesProcessed.WithLabelValues("unknown", "malformed").Inc()
		return nil
	}

	if ev.SessionID != "" {
		ctx = interfaces.ContextWithValue(ctx, interfaces.SessionIDKey, ev.SessionID)
	}

	switch ev.Type {
	case messaging.CatalogChangedEvent:
		err = h.cache.DeleteByPattern(ctx, services.CatalogPattern)
		if err == nil {
			h.logger.InfoWithContext(ctx, "Кэш каталога сброшен",
				interfaces.LogField{Key: "resource", Value: ev.Resource},
				interfaces.LogField{Key: "resource_id", Value: ev.ResourceID})
		}

	case messaging.MediaDeletedEvent:
		err = h.cache.Delete(ctx, services.MediaURLCacheKey(ev.ResourceID))

	case messaging.OrderPlacedEvent:
		ordersPlaced.Inc()
		h.logger.InfoWithContext(ctx, "Оформлен заказ",
			interfaces.LogField{Key: "payload", Value: string(ev.Payload)})

	case messaging.MediaUploadedEvent,
		messaging.CartItemAddedEvent,
		messaging.CartItemRemovedEvent,
		messaging.FavoriteAddedEvent,
		messaging.FavoriteRemovedEvent:
		h.logger.DebugWithContext(ctx, "Событие витрины",
			interfaces.LogField{Key: "event_type", Value: ev.Type},
			interfaces.LogField{Key: "resource_id", Value: ev.ResourceID})

	default:
		h.logger.WarnWithContext(ctx, "Неизвестный тип события",
			interfaces.LogField{Key: "event_type", Value: ev.Type})
		messagesProcessed.WithLabelValues(ev.Type, "unknown").Inc()
		return nil
	}

	if err != nil {
		h.logger.ErrorWithContext(ctx, "Ошибка обработки события",
			interfaces.LogField{Key: "event_type", Value: ev.Type},
			interfaces.LogField{Key: "error", Value: err.Error()})
		messagesProcessed.WithLabelValues(ev.Type, "error").Inc()
		return fmt.Errorf("событие %s: %w", ev.Type, err)
	}

	messageProcessingDuration.WithLabelValues(ev.Type).Observe(time.Since(startTime).Seconds())
	messagesProcessed.WithLabelValues(ev.Type, "success").Inc()
	return nil
}
