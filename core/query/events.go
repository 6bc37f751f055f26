package query

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QueryEventType is the type of event emitted by an Engine.
type QueryEventType string

// Event types emitted while a query runs.
const (
	QueryStart   QueryEventType = "query:start"
	QueryStep    QueryEventType = "query:step"
	QuerySuccess QueryEventType = "query:success"
	QueryFailed  QueryEventType = "query:failed"
)

// QueryEvent describes one moment in the life of a query.
type QueryEvent struct {
	Type      QueryEventType `json:"type"`
	QueryID   string         `json:"queryId"`
	Timestamp int64          `json:"timestamp"`          // Unix milliseconds.
	Kind      Kind           `json:"kind,omitempty"`     // Set on step events.
	Input     int            `json:"input"`              // Number of records entering the query or step.
	Output    int            `json:"output"`             // Number of records leaving it.
	Error     *string        `json:"error,omitempty"`    // Set on failed events.
	Duration  *int64         `json:"duration,omitempty"` // Milliseconds since the query started.
}

// EventCallbackFunction receives events for a subscription.
type EventCallbackFunction func(ctx context.Context, event QueryEvent) error

// RegisterSubscriptionOptions defines options for registering a subscription.
type RegisterSubscriptionOptions struct {
	Event       QueryEventType `json:"event"`
	Label       *string        `json:"label,omitempty"`
	Description *string        `json:"description,omitempty"`
	Callback    EventCallbackFunction
}

// SubscriptionInfo describes a registered subscription.
type SubscriptionInfo struct {
	ID          string         `json:"id"`
	Event       QueryEventType `json:"event"`
	Label       *string        `json:"label,omitempty"`
	Description *string        `json:"description,omitempty"`
	unsubscribe func()
}

func newQueryEvent(eventType QueryEventType, queryID string, startTime time.Time) QueryEvent {
	var duration *int64
	if !startTime.IsZero() {
		d := time.Since(startTime).Milliseconds()
		duration = &d
	}
	return QueryEvent{
		Type:      eventType,
		QueryID:   queryID,
		Timestamp: time.Now().UnixMilli(),
		Duration:  duration,
	}
}

// emit publishes an event on the engine's bus, if it has one.
func (e *Engine) emit(event QueryEvent) {
	if e.bus != nil {
		e.bus.Emit(string(event.Type), event)
	}
}

// RegisterSubscription subscribes a callback to one event type and returns
// the subscription id. It returns an empty id when events are disabled.
func (e *Engine) RegisterSubscription(options RegisterSubscriptionOptions) string {
	if e.bus == nil {
		e.logger.Warn("Events are disabled, subscription ignored")
		return ""
	}

	e.subMu.Lock()
	defer e.subMu.Unlock()

	unsubscribe := e.bus.Subscribe(string(options.Event), options.Callback)
	id := uuid.New().String()
	e.subscriptions[id] = &SubscriptionInfo{
		ID:          id,
		Event:       options.Event,
		Label:       options.Label,
		Description: options.Description,
		unsubscribe: unsubscribe,
	}
	return id
}

// UnregisterSubscription removes a subscription. Unknown ids are ignored.
func (e *Engine) UnregisterSubscription(id string) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	info := e.subscriptions[id]
	if info != nil {
		info.unsubscribe()
		delete(e.subscriptions, id)
	}
}

// Subscriptions returns every registered subscription.
func (e *Engine) Subscriptions() []SubscriptionInfo {
	e.subMu.RLock()
	defer e.subMu.RUnlock()
	out := make([]SubscriptionInfo, 0, len(e.subscriptions))
	for _, info := range e.subscriptions {
		out = append(out, *info)
	}
	return out
}
