package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Payload is the JSON body delivered to the browser.
type Payload struct {
	Title string               `json:"title"`
	Body  string               `json:"body"`
	BotID string               `json:"botId"`
	Kind  fleet.TransitionKind `json:"kind"`
}

// WorkerPool manages a pool of workers that record bot transitions in the
// live feed and push them to subscribers.
type WorkerPool struct {
	size    int
	jobs    chan fleet.Transition
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
	feed    *Feed
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool. Push delivery is skipped when
// webpushOptions carries no keys; the feed is still updated.
func NewWorkerPool(size, queueSize int, s store.Store, webpushOptions *webpush.Options, feed *Feed, log zerolog.Logger) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize < size {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan fleet.Transition, queueSize),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		feed:    feed,
		log:     log.With().Str("component", "notification").Logger(),
	}
}

// Start launches the worker goroutines. They stop when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log := wp.log.With().Int("worker", id).Logger()
	log.Debug().Msg("worker started")
	for {
		select {
		case tr := <-wp.jobs:
			log.Debug().Str("bot_id", tr.BotID).Str("kind", string(tr.Kind)).Msg("processing transition")
			wp.handle(ctx, tr)
		case <-ctx.Done():
			log.Debug().Msg("worker shutting down")
			return
		}
	}
}

// Dispatch queues a transition without blocking. It reports false and drops
// the job when the queue is full.
func (wp *WorkerPool) Dispatch(tr fleet.Transition) bool {
	select {
	case wp.jobs <- tr:
		return true
	default:
		wp.log.Warn().Str("bot_id", tr.BotID).Str("kind", string(tr.Kind)).Msg("notification queue full, dropping transition")
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan fleet.Transition {
	return wp.jobs
}

func (wp *WorkerPool) handle(ctx context.Context, tr fleet.Transition) {
	if wp.feed != nil {
		wp.feed.Add(EntryFromTransition(tr))
	}
	if wp.webpush == nil || wp.webpush.VAPIDPublicKey == "" || wp.webpush.VAPIDPrivateKey == "" {
		return
	}
	wp.sendNotificationsForBot(ctx, tr)
}

func (wp *WorkerPool) sendNotificationsForBot(ctx context.Context, tr fleet.Transition) {
	subscriptions, err := wp.store.SubscriptionsForBot(ctx, tr.BotID)
	if err != nil {
		wp.log.Error().Err(err).Str("bot_id", tr.BotID).Msg("failed to fetch subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(Payload{
		Title: fmt.Sprintf("%s is now %s", tr.BotID, tr.To),
		Body:  tr.Event,
		BotID: tr.BotID,
		Kind:  tr.Kind,
	})
	if err != nil {
		wp.log.Error().Err(err).Msg("failed to encode notification payload")
		return
	}

	wp.log.Info().Int("subscriptions", len(subscriptions)).Str("bot_id", tr.BotID).Msg("sending notifications")
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification and removes the
// subscription when the push service reports it gone.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub store.Subscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("failed to send notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		wp.log.Info().Str("endpoint", sub.Endpoint).Msg("subscription expired, deleting")
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Error().Err(err).Str("endpoint", sub.Endpoint).Msg("failed to delete expired subscription")
		}
	}
}
