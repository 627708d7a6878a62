package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"wingo/models"

	"github.com/stretchr/testify/assert"
)

func TestTransactionalBusFlushDeliversInOrder(t *testing.T) {
	mainBus := NewBus()
	txBus := NewTransactionalBus(mainBus)

	var mu sync.Mutex
	var received []EventType
	var wg sync.WaitGroup
	wg.Add(2)

	record := func(ctx context.Context, event Event) {
		mu.Lock()
		received = append(received, event.Type())
		mu.Unlock()
		wg.Done()
	}
	mainBus.Subscribe(EventTypeResultCreated, record)
	mainBus.Subscribe(EventTypeBetSettled, record)

	txBus.Publish(ResultCreatedEvent{
		Result: models.NewResult(models.Mode30s, "30s-100", 5, time.Now()),
	})
	txBus.Publish(BetSettledEvent{
		UserID:   1,
		BetID:    10,
		Mode:     models.Mode30s,
		PeriodID: "30s-100",
		Status:   models.BetStatusWin,
		Payout:   900,
	})

	assert.NoError(t, txBus.Flush(context.Background()))
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, received, 2)
}

func TestTransactionalBusDiscard(t *testing.T) {
	mainBus := NewBus()
	txBus := NewTransactionalBus(mainBus)

	delivered := make(chan Event, 1)
	mainBus.Subscribe(EventTypeBetPlaced, func(ctx context.Context, event Event) {
		delivered <- event
	})

	txBus.Publish(BetPlacedEvent{UserID: 1, BetID: 2, Mode: models.Mode1m, PeriodID: "1m-5", Amount: 50})
	txBus.Discard()
	assert.NoError(t, txBus.Flush(context.Background()))

	select {
	case <-delivered:
		t.Fatal("discarded event must not be delivered")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusHandlerPanicDoesNotAffectOthers(t *testing.T) {
	bus := NewBus()

	done := make(chan struct{})
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		panic("handler bug")
	})
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		close(done)
	})

	bus.Emit(context.Background(), BalanceChangeEvent{UserID: 7, ChangeAmount: 100})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second handler never ran")
	}
}
