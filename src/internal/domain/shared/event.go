package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent 領域事件基礎介面
type DomainEvent interface {
	EventID() string       // 事件唯一標識
	EventType() string     // 事件類型
	OccurredAt() time.Time // 發生時間
	AggregateID() string   // 聚合根 ID
}

// EventPublisher 事件發布器介面
// 由 Infrastructure 實作（日誌、指標）
type EventPublisher interface {
	Publish(event DomainEvent) error
	PublishBatch(events []DomainEvent) error
}

// EventRecorder 聚合根共用的事件暫存
//
// 嵌入到聚合根中，命令方法呼叫 Record，
// Use Case 在交易提交後呼叫 PullEvents 發布。
type EventRecorder struct {
	events []DomainEvent
}

// Record 記錄一個待發布事件
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// PullEvents 取出並清空待發布事件
func (r *EventRecorder) PullEvents() []DomainEvent {
	events := r.events
	r.events = nil
	return events
}

// BaseEvent 事件共用欄位
type BaseEvent struct {
	eventID     string
	eventType   string
	aggregateID string
	occurredAt  time.Time
}

// NewBaseEvent 建立事件共用欄位
func NewBaseEvent(eventType, aggregateID string, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		eventID:     uuid.New().String(),
		eventType:   eventType,
		aggregateID: aggregateID,
		occurredAt:  occurredAt,
	}
}

// EventID 實現 DomainEvent 介面
func (e BaseEvent) EventID() string { return e.eventID }

// EventType 實現 DomainEvent 介面
func (e BaseEvent) EventType() string { return e.eventType }

// OccurredAt 實現 DomainEvent 介面
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }

// AggregateID 實現 DomainEvent 介面
func (e BaseEvent) AggregateID() string { return e.aggregateID }

// NopPublisher 丟棄所有事件
type NopPublisher struct{}

// Publish 實現 EventPublisher
func (NopPublisher) Publish(DomainEvent) error { return nil }

// PublishBatch 實現 EventPublisher
func (NopPublisher) PublishBatch([]DomainEvent) error { return nil }
