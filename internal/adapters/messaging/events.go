package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sobirov-market/storefront/pkg/interfaces"
)

type EventType = string

const (
	CatalogChangedEvent  EventType = "catalog_changed"
	MediaUploadedEvent   EventType = "media_uploaded"
	MediaDeletedEvent    EventType = "media_deleted"
	CartItemAddedEvent   EventType = "cart_item_added"
	CartItemRemovedEvent EventType = "cart_item_removed"
	FavoriteAddedEvent   EventType = "favorite_added"
	FavoriteRemovedEvent EventType = "favorite_removed"
	OrderPlacedEvent     EventType = "order_placed"
)

// Event конверт события витрины в топике storefront-events
type Event struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	SessionID  string          `json:"session_id,omitempty"`
	Resource   string          `json:"resource,omitempty"`
	ResourceID string          `json:"resource_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// DecodeEvent разбирает событие из сообщения
func DecodeEvent(msg *interfaces.Message) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return nil, fmt.Errorf("ошибка разбора события %s: %w", msg.ID, err)
	}
	if ev.SessionID == "" {
		ev.SessionID = msg.SessionID
	}
	return &ev, nil
}

// EventPublisher публикует события витрины в один топик
type EventPublisher struct {
	messaging interfaces.MessagingPort
	topic     string
	logger    interfaces.LoggerPort
}

func NewEventPublisher(messaging interfaces.MessagingPort, topic string, logger interfaces.LoggerPort) *EventPublisher {
	return &EventPublisher{messaging: messaging, topic: topic, logger: logger}
}

// Publish отправляет событие. Ключом партиционирования служит ресурс, чтобы события
// одной сущности обрабатывались по порядку.
func (p *EventPublisher) Publish(ctx context.Context, eventType EventType, resource, resourceID string, payload interface{}) error {
	ev := Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		SessionID:  interfaces.StringFromContext(ctx, interfaces.SessionIDKey),
		Resource:   resource,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("ошибка сериализации события %s: %w", eventType, err)
		}
		ev.Payload = raw
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события %s: %w", eventType, err)
	}

	key := resource
	if key == "" {
		key = eventType
	}
	return p.messaging.Publish(ctx, p.topic, key, body)
}

// PublishQuietly публикует событие и только логирует ошибку
func (p *EventPublisher) PublishQuietly(ctx context.Context, eventType EventType, resource, resourceID string, payload interface{}) {
	if err := p.Publish(ctx, eventType, resource, resourceID, payload); err != nil {
		p.logger.WarnWithContext(ctx, "Не удалось опубликовать событие",
			interfaces.LogField{Key: "type", Value: eventType},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}
}
