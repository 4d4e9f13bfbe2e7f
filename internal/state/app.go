// Package state owns the live inventory, fleet and AI result slots. All
// mutation goes through App's methods; each one is a single critical section
// that persists its change before publishing it.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"warehouse-ops-backend/internal/ai"
	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
	"warehouse-ops-backend/internal/notification"
	"warehouse-ops-backend/internal/store"
)

// reorderFlagsKey is the settings key holding the flagged product ids.
const reorderFlagsKey = "reorderFlags"

var (
	ErrSuggestionNotFound = errors.New("suggestion not found")
	ErrNotActionable      = errors.New("suggestion has no actionable steps")
	ErrNoDelegation       = errors.New("no delegation pending")
)

// App is the application state shared by the API and the simulator.
type App struct {
	mu       sync.RWMutex
	store    store.Store
	log      zerolog.Logger
	clock    func() time.Time
	products []inventory.Product
	bots     []fleet.Bot
	reorder  []string
	feed     *notification.Feed

	suggestions ai.Slot[[]ai.Suggestion]
	delegation  ai.Slot[ai.Delegation]
}

// Option customises an App.
type Option func(*App)

// WithClock replaces time.Now, for tests.
func WithClock(fn func() time.Time) Option {
	return func(a *App) { a.clock = fn }
}

// WithFeed records operator changes and stock alerts in f.
func WithFeed(f *notification.Feed) Option {
	return func(a *App) { a.feed = f }
}

// New creates an empty App backed by s. Call Load before serving.
func New(s store.Store, log zerolog.Logger, opts ...Option) *App {
	a := &App{
		store: s,
		log:   log.With().Str("component", "state").Logger(),
		clock: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load reads products, bots and reorder flags from the store. With seed set,
// an empty database is first filled with the starting inventory and fleet.
func (a *App) Load(ctx context.Context, seed bool) error {
	if seed {
		seeded, err := a.store.Seed(ctx, inventory.SeedProducts(), fleet.SeedBots(a.clock()))
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if seeded {
			a.log.Info().Msg("seeded empty database with starting inventory and fleet")
		}
	}

	products, err := a.store.LoadProducts(ctx)
	if err != nil {
		return err
	}
	bots, err := a.store.LoadBots(ctx)
	if err != nil {
		return err
	}

	var flags []string
	raw, err := a.store.GetSetting(ctx, reorderFlagsKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return err
	default:
		if err := json.Unmarshal([]byte(raw), &flags); err != nil {
			a.log.Warn().Err(err).Msg("ignoring malformed reorder flags")
			flags = nil
		}
	}

	a.mu.Lock()
	a.products = products
	a.bots = bots
	a.reorder = flags
	a.mu.Unlock()

	a.log.Info().Int("products", len(products)).Int("bots", len(bots)).Msg("state loaded")
	return nil
}

// Products returns a snapshot of the inventory.
func (a *App) Products() []inventory.Product {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]inventory.Product(nil), a.products...)
}

// Product returns one product by id.
func (a *App) Product(id string) (inventory.Product, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, p := range a.products {
		if p.ID == id {
			return p, nil
		}
	}
	return inventory.Product{}, fmt.Errorf("%w: %s", inventory.ErrProductNotFound, id)
}

// AddProduct validates in, allocates the next id and stores the product.
func (a *App) AddProduct(ctx context.Context, in inventory.ProductInput) (inventory.Product, error) {
	if err := in.Validate(); err != nil {
		return inventory.Product{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock()
	p := inventory.NewProduct(inventory.NextID(a.products), in, now)
	if err := a.store.SaveProduct(ctx, p); err != nil {
		return inventory.Product{}, err
	}
	a.products = append(append([]inventory.Product(nil), a.products...), p)
	if e, ok := notification.EntryForStock(p, now); ok {
		a.publish(e)
	}
	return p, nil
}

// UpdateProduct replaces the editable fields of an existing product.
func (a *App) UpdateProduct(ctx context.Context, id string, in inventory.ProductInput) (inventory.Product, error) {
	if err := in.Validate(); err != nil {
		return inventory.Product{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	idx := -1
	for i := range a.products {
		if a.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return inventory.Product{}, fmt.Errorf("%w: %s", inventory.ErrProductNotFound, id)
	}

	p := a.products[idx].Update(in)
	if err := a.store.SaveProduct(ctx, p); err != nil {
		return inventory.Product{}, err
	}
	old := a.products[idx]
	next := append([]inventory.Product(nil), a.products...)
	next[idx] = p
	a.products = next
	if p.Status != old.Status {
		if e, ok := notification.EntryForStock(p, a.clock()); ok {
			a.publish(e)
		}
	}
	return p, nil
}

// Bots returns a deep copy of the fleet.
func (a *App) Bots() []fleet.Bot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return cloneBots(a.bots)
}

// Bot returns a deep copy of one bot.
func (a *App) Bot(id string) (fleet.Bot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	i := fleet.Find(a.bots, id)
	if i < 0 {
		return fleet.Bot{}, fmt.Errorf("%w: %s", fleet.ErrBotNotFound, id)
	}
	return a.bots[i].Clone(), nil
}

// AssignTask applies a task to one bot.
func (a *App) AssignTask(ctx context.Context, botID, description, details string) (fleet.Bot, error) {
	return a.mutateBot(ctx, botID, func(b fleet.Bot, now time.Time) (fleet.Bot, *notification.Entry, error) {
		b, err := fleet.AssignTask(b, description, details, now)
		e := notification.EntryForTask(b, now)
		return b, &e, err
	})
}

// ApplyAction performs a direct operator action on one bot.
func (a *App) ApplyAction(ctx context.Context, botID string, action fleet.Action) (fleet.Bot, error) {
	return a.mutateBot(ctx, botID, func(b fleet.Bot, now time.Time) (fleet.Bot, *notification.Entry, error) {
		b, err := fleet.ApplyAction(b, action, now)
		e := notification.EntryForAction(b, action, now)
		return b, &e, err
	})
}

// mutateBot applies fn to one bot, persists the result and publishes the
// feed entry fn describes it with.
func (a *App) mutateBot(ctx context.Context, botID string, fn func(fleet.Bot, time.Time) (fleet.Bot, *notification.Entry, error)) (fleet.Bot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := fleet.Find(a.bots, botID)
	if i < 0 {
		return fleet.Bot{}, fmt.Errorf("%w: %s", fleet.ErrBotNotFound, botID)
	}
	old := a.bots[i]
	updated, entry, err := fn(old, a.clock())
	if err != nil {
		return fleet.Bot{}, err
	}

	change := store.BotChange{Bot: updated, Appended: len(updated.History) - len(old.History)}
	if err := a.store.SaveBots(ctx, []store.BotChange{change}); err != nil {
		return fleet.Bot{}, err
	}

	next := append([]fleet.Bot(nil), a.bots...)
	next[i] = updated
	a.bots = next
	if entry != nil {
		a.publish(*entry)
	}
	return updated.Clone(), nil
}

// Tick advances every bot by one simulation step and publishes the new fleet.
// The fleet is left as it was when the change cannot be persisted.
func (a *App) Tick(ctx context.Context) ([]fleet.Transition, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, transitions := fleet.AdvanceAll(a.bots, a.clock())

	var changes []store.BotChange
	for i := range next {
		if botChanged(a.bots[i], next[i]) {
			changes = append(changes, store.BotChange{
				Bot:      next[i],
				Appended: len(next[i].History) - len(a.bots[i].History),
			})
		}
	}
	if err := a.store.SaveBots(ctx, changes); err != nil {
		return nil, err
	}

	a.bots = next
	return transitions, nil
}

func botChanged(old, updated fleet.Bot) bool {
	return old.Status != updated.Status ||
		old.Battery != updated.Battery ||
		old.CurrentTask != updated.CurrentTask ||
		old.Location != updated.Location ||
		len(old.History) != len(updated.History)
}

// ReorderFlags returns the ids of products flagged for reorder.
func (a *App) ReorderFlags() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string{}, a.reorder...)
}

// FlagReorder adds ids to the reorder set and returns the ids that were not
// already flagged. Unknown product ids are rejected.
func (a *App) FlagReorder(ctx context.Context, ids []string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, added, err := a.withFlags(a.reorder, ids)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return added, nil
	}
	if err := a.saveFlags(ctx, next); err != nil {
		return nil, err
	}
	a.reorder = next
	return added, nil
}

func (a *App) withFlags(current, ids []string) ([]string, []string, error) {
	next := append([]string(nil), current...)
	added := []string{}
	seen := make(map[string]bool, len(current))
	for _, id := range current {
		seen[id] = true
	}
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		if !a.hasProduct(id) {
			return nil, nil, fmt.Errorf("%w: %s", inventory.ErrProductNotFound, id)
		}
		seen[id] = true
		next = append(next, id)
		added = append(added, id)
	}
	return next, added, nil
}

func (a *App) hasProduct(id string) bool {
	for _, p := range a.products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (a *App) saveFlags(ctx context.Context, flags []string) error {
	raw, err := json.Marshal(flags)
	if err != nil {
		return err
	}
	return a.store.PutSetting(ctx, reorderFlagsKey, string(raw))
}

func (a *App) publish(e notification.Entry) {
	if a.feed != nil {
		a.feed.Add(e)
	}
}

func cloneBots(bots []fleet.Bot) []fleet.Bot {
	out := make([]fleet.Bot, len(bots))
	for i, b := range bots {
		out[i] = b.Clone()
	}
	return out
}
