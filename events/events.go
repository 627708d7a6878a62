package events

import (
	"context"
	"sync"

	"wingo/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeResultCreated EventType = "result_created"
	EventTypeBetPlaced     EventType = "bet_placed"
	EventTypeBetSettled    EventType = "bet_settled"
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeConfigChange  EventType = "config_change"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// ResultCreatedEvent represents the authoritative outcome recorded for a
// closed period. Settlement publishes it before the bet and balance events
// of the same period, so observers never see a settled bet without its result.
type ResultCreatedEvent struct {
	Result *models.Result
}

func (e ResultCreatedEvent) Type() EventType {
	return EventTypeResultCreated
}

// BetPlacedEvent represents a new pending bet
type BetPlacedEvent struct {
	UserID   int64
	BetID    int64
	Mode     models.GameMode
	PeriodID string
	Amount   float64
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BetSettledEvent represents a bet reaching its terminal state
type BetSettledEvent struct {
	UserID   int64
	BetID    int64
	Mode     models.GameMode
	PeriodID string
	Status   models.BetStatus
	Payout   float64
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	OldBalance      float64
	NewBalance      float64
	TransactionType models.TransactionType
	ChangeAmount    float64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// ConfigChangeEvent represents an operator write to the game config row
type ConfigChangeEvent struct {
	EmergencyStop bool
}

func (e ConfigChangeEvent) Type() EventType {
	return EventTypeConfigChange
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking settlement
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits the stashed events in publish order. Called after a
// successful DB commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the transaction that produced them
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
