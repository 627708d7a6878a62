package service

import (
	"context"
	"sync"
	"time"

	"wingo/clock"
	"wingo/models"

	log "github.com/sirupsen/logrus"
)

// RoundScheduler drives the round lifecycle: one timed loop per discrete
// mode, each closing its period on the boundary second, resolving the
// outcome and settling the pending bets exactly once per period.
type RoundScheduler struct {
	resolver   ResolverService
	settler    SettlementService
	configRepo ConfigRepository
	modes      []models.GameMode
	tick       time.Duration
	now        func() time.Time

	mu        sync.Mutex
	processed map[models.GameMode]int64 // highest settled period index per mode
}

// NewRoundScheduler creates a scheduler for the given modes. Config is
// read through the injected repository on every close, so operator writes
// (emergency stop, overrides) take effect without a restart.
func NewRoundScheduler(resolver ResolverService, settler SettlementService, configRepo ConfigRepository, modes []models.GameMode) *RoundScheduler {
	return &RoundScheduler{
		resolver:   resolver,
		settler:    settler,
		configRepo: configRepo,
		modes:      modes,
		tick:       time.Second,
		now:        time.Now,
		processed:  make(map[models.GameMode]int64),
	}
}

// Start launches one loop per mode and returns a stop function. Stopping
// is safe between ticks: settlement is transactional per period, so a
// shutdown mid-pass leaves the period fully pending and a later scheduler
// run settles it.
func (s *RoundScheduler) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	for _, mode := range s.modes {
		go s.runMode(ctx, stopChan, mode)
	}

	return func() {
		close(stopChan)
	}
}

func (s *RoundScheduler) runMode(ctx context.Context, stopChan <-chan struct{}, mode models.GameMode) {
	log.WithField("mode", mode).Info("Round scheduler started")

	// Periods closed before startup are not backfilled: a period only
	// settles off a live tick, so bets on skipped periods stay pending.
	s.markProcessed(mode, clock.Previous(mode, s.now()).Index)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.WithField("mode", mode).Info("Round scheduler shutting down (context cancelled)")
			return
		case <-stopChan:
			log.WithField("mode", mode).Info("Round scheduler shutting down (stop requested)")
			return
		case <-ticker.C:
			s.tickMode(ctx, mode)
		}
	}
}

// tickMode closes the most recently elapsed period if it has not been
// processed yet. Any failure leaves the processed marker untouched so the
// next tick retries; one mode's failure never delays the others, since
// each mode runs its own loop against its own marker.
func (s *RoundScheduler) tickMode(ctx context.Context, mode models.GameMode) {
	prev := clock.Previous(mode, s.now())

	if s.alreadyProcessed(mode, prev.Index) {
		return
	}

	stopped, err := s.configRepo.IsEmergencyStopped(ctx)
	if err != nil {
		log.WithFields(log.Fields{
			"mode":  mode,
			"error": err,
		}).Error("Failed to read emergency stop flag, retrying next tick")
		return
	}
	if stopped {
		// Circuit breaker: the open period simply never closes until the
		// flag clears. Nothing is marked processed.
		log.WithField("mode", mode).Debug("Emergency stop active, holding period close")
		return
	}

	result, err := s.resolver.Resolve(ctx, mode, prev.PeriodID)
	if err != nil {
		log.WithFields(log.Fields{
			"mode":     mode,
			"periodId": prev.PeriodID,
			"error":    err,
		}).Error("Failed to resolve period, retrying next tick")
		return
	}

	if _, err := s.settler.Settle(ctx, result); err != nil {
		// The result is durable; settlement re-runs idempotently on the
		// next tick once storage recovers.
		log.WithFields(log.Fields{
			"mode":     mode,
			"periodId": prev.PeriodID,
			"error":    err,
		}).Error("Failed to settle period, retrying next tick")
		return
	}

	s.markProcessed(mode, prev.Index)
}

func (s *RoundScheduler) alreadyProcessed(mode models.GameMode, index int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed[mode] >= index
}

func (s *RoundScheduler) markProcessed(mode models.GameMode, index int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index > s.processed[mode] {
		s.processed[mode] = index
	}
}
