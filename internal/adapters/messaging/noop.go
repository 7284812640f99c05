package messaging

import (
	"context"

	"github.com/sobirov-market/storefront/pkg/interfaces"
)

// NoopMessaging используется при kafka.enabled=false: события только пишутся в debug-лог
type NoopMessaging struct {
	logger interfaces.LoggerPort
}

func NewNoopMessaging(logger interfaces.LoggerPort) *NoopMessaging {
	return &NoopMessaging{logger: logger}
}

func (n *NoopMessaging) Publish(ctx context.Context, topic, key string, message []byte) error {
	n.logger.DebugWithContext(ctx, "Kafka отключена, событие не отправлено",
		interfaces.LogField{Key: "topic", Value: topic},
		interfaces.LogField{Key: "key", Value: key},
	)
	return nil
}

func (n *NoopMessaging) Subscribe(_ context.Context, _ string, _ interfaces.MessageHandler) (func() error, error) {
	return func() error { return nil }, nil
}

func (n *NoopMessaging) Close() error { return nil }
