package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"wingo/events"
	"wingo/models"

	log "github.com/sirupsen/logrus"
)

type resolverService struct {
	uowFactory UnitOfWorkFactory
	draw       func() int
	now        func() time.Time
}

// NewResolverService creates the outcome resolver. The drawn digit comes
// from server-side randomness generated at resolve time, never derivable
// from the period id.
func NewResolverService(uowFactory UnitOfWorkFactory) ResolverService {
	return &resolverService{
		uowFactory: uowFactory,
		draw:       func() int { return rand.Intn(10) },
		now:        time.Now,
	}
}

func (s *resolverService) Resolve(ctx context.Context, mode models.GameMode, periodID string) (*models.Result, error) {
	if !mode.IsDiscrete() {
		return nil, fmt.Errorf("mode %q has no scheduled periods to resolve", mode)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Already resolved: return the stored outcome without touching the
	// override, which belongs to the next close.
	existing, err := uow.ResultRepository().GetByPeriod(ctx, mode, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing result: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	// The config row lock taken here serializes concurrent resolvers for
	// the override read-and-clear.
	override, err := uow.ConfigRepository().ConsumeOverride(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to consume override: %w", err)
	}

	var number int
	if override != nil {
		number = *override
		log.WithFields(log.Fields{
			"mode":     mode,
			"periodId": periodID,
			"number":   number,
		}).Info("Applying operator override to period outcome")
	} else {
		number = s.draw()
	}

	result := models.NewResult(mode, periodID, number, s.now().UTC())

	stored, created, err := uow.ResultRepository().CreateOnce(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("failed to persist result: %w", err)
	}
	if !created {
		// Another resolver won the race after our existence check; roll
		// back so the override (if any) stays pending.
		uow.Rollback()
		return stored, nil
	}

	uow.EventBus().Publish(events.ResultCreatedEvent{Result: stored})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stored, nil
}
