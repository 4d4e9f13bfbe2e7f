package simulator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"warehouse-ops-backend/config"
	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/notification"
)

// mockTicker is a mock implementation of the Ticker interface.
type mockTicker struct {
	TickFunc func(ctx context.Context) ([]fleet.Transition, error)
	calls    atomic.Int32
}

func (m *mockTicker) Tick(ctx context.Context) ([]fleet.Transition, error) {
	m.calls.Add(1)
	return m.TickFunc(ctx)
}

func testConfig(interval time.Duration) *config.Config {
	return &config.Config{
		Simulator:  config.SimulatorConfig{Enabled: true, Interval: interval},
		WorkerPool: config.WorkerPoolConfig{Size: 1, QueueSize: 4},
	}
}

func TestService_TickOnceDispatchesTransitions(t *testing.T) {
	ticker := &mockTicker{TickFunc: func(context.Context) ([]fleet.Transition, error) {
		return []fleet.Transition{{BotID: "BOT-03", Kind: fleet.TransitionFullyCharged, To: fleet.StatusIdle}}, nil
	}}
	service := NewService(testConfig(time.Second), ticker, nil, nil, zerolog.Nop())

	// Replace the real worker pool with one nobody consumes from.
	mockWorkerPool := notification.NewWorkerPool(1, 1, nil, nil, nil, zerolog.Nop())
	service.workerPool = mockWorkerPool

	service.TickOnce(context.Background())

	select {
	case tr := <-mockWorkerPool.Jobs():
		assert.Equal(t, "BOT-03", tr.BotID)
	case <-time.After(time.Second):
		t.Fatal("transition was not dispatched")
	}
}

func TestService_TickErrorDispatchesNothing(t *testing.T) {
	ticker := &mockTicker{TickFunc: func(context.Context) ([]fleet.Transition, error) {
		return nil, errors.New("database is locked")
	}}
	service := NewService(testConfig(time.Second), ticker, nil, nil, zerolog.Nop())

	service.TickOnce(context.Background())
	assert.Empty(t, service.workerPool.Jobs())
}

func TestService_RunTicksUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	feed := notification.NewFeed(10)
	ticker := &mockTicker{TickFunc: func(context.Context) ([]fleet.Transition, error) {
		return []fleet.Transition{{BotID: "BOT-01", Kind: fleet.TransitionLowBattery, Battery: 19}}, nil
	}}
	service := NewService(testConfig(5*time.Millisecond), ticker, nil, feed, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		service.Run(ctx)
	}()

	require.Eventually(t, func() bool { return ticker.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(feed.Recent(0)) > 0 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	wg.Wait()

	calls := ticker.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, ticker.calls.Load(), "no tick after Run returned")
}

func TestService_DisabledReturnsImmediately(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := testConfig(time.Millisecond)
	cfg.Simulator.Enabled = false
	ticker := &mockTicker{TickFunc: func(context.Context) ([]fleet.Transition, error) { return nil, nil }}

	NewService(cfg, ticker, nil, nil, zerolog.Nop()).Run(context.Background())
	assert.Zero(t, ticker.calls.Load())
}
