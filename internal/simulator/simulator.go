// Package simulator drives the fleet lifecycle on a fixed interval.
package simulator

import (
	"context"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"warehouse-ops-backend/config"
	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/notification"
	"warehouse-ops-backend/internal/store"
)

// Ticker advances the fleet by one step and reports the transitions.
type Ticker interface {
	Tick(ctx context.Context) ([]fleet.Transition, error)
}

// Service runs the tick loop and hands transitions to the notification pool.
type Service struct {
	cfg        config.SimulatorConfig
	state      Ticker
	workerPool *notification.WorkerPool
	log        zerolog.Logger
}

// NewService creates the simulator and its notification worker pool.
func NewService(cfg *config.Config, state Ticker, s store.Store, feed *notification.Feed, log zerolog.Logger) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, s, &webpushOptions, feed, log)

	return &Service{
		cfg:        cfg.Simulator,
		state:      state,
		workerPool: workerPool,
		log:        log.With().Str("component", "simulator").Logger(),
	}
}

// Run ticks until ctx is cancelled. It returns after the loop and the
// notification workers have stopped.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info().Msg("simulator is disabled, not starting")
		return
	}
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	s.log.Info().Dur("interval", interval).Msg("starting simulator")

	s.workerPool.Start(ctx)
	defer s.workerPool.Wait()

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("simulator shutting down")
			return
		case <-timer.C:
			s.TickOnce(ctx)
			timer.Reset(interval)
		}
	}
}

// TickOnce performs a single simulation step and dispatches its transitions.
func (s *Service) TickOnce(ctx context.Context) {
	transitions, err := s.state.Tick(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("tick failed, fleet left unchanged")
		return
	}

	for _, tr := range transitions {
		s.log.Info().Str("bot_id", tr.BotID).Str("kind", string(tr.Kind)).Int("battery", tr.Battery).Msg(tr.Event)
		s.workerPool.Dispatch(tr)
	}
}
