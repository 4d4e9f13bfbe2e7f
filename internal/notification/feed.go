package notification

import (
	"fmt"
	"sync"
	"time"

	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
)

// Level classifies a feed entry for display.
type Level string

const (
	LevelAlert   Level = "alert"
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
)

// Entry is one line of the live operations feed.
type Entry struct {
	Level Level     `json:"type"`
	Text  string    `json:"text"`
	BotID     string    `json:"botId,omitempty"`
	ProductID string    `json:"productId,omitempty"`
	At        time.Time `json:"time"`
}

// EntryFromTransition renders an automatic bot transition for the feed.
func EntryFromTransition(tr fleet.Transition) Entry {
	e := Entry{BotID: tr.BotID, At: tr.At}
	switch tr.Kind {
	case fleet.TransitionLowBattery:
		e.Level = LevelAlert
		e.Text = fmt.Sprintf("Bot '%s' is low on battery (%d%%) and is heading to charge.", tr.BotID, tr.Battery)
	case fleet.TransitionFullyCharged:
		e.Level = LevelSuccess
		e.Text = fmt.Sprintf("Bot '%s' is fully charged and idle.", tr.BotID)
	default:
		e.Level = LevelInfo
		e.Text = fmt.Sprintf("Bot '%s': %s", tr.BotID, tr.Event)
	}
	return e
}

// EntryForTask renders a task assignment. A charging task reads as the start
// of a charging cycle.
func EntryForTask(b fleet.Bot, at time.Time) Entry {
	e := Entry{Level: LevelInfo, BotID: b.ID, At: at}
	if b.Status == fleet.StatusCharging {
		e.Text = fmt.Sprintf("Bot '%s' has started its charging cycle.", b.ID)
	} else {
		e.Text = fmt.Sprintf("Task '%s' assigned to %s.", b.CurrentTask, b.ID)
	}
	return e
}

// EntryForAction renders a direct operator action.
func EntryForAction(b fleet.Bot, action fleet.Action, at time.Time) Entry {
	e := Entry{Level: LevelInfo, BotID: b.ID, At: at}
	switch action {
	case fleet.ActionCharge:
		e.Text = fmt.Sprintf("Bot '%s' has started its charging cycle.", b.ID)
	case fleet.ActionMaintenance:
		e.Level = LevelAlert
		e.Text = fmt.Sprintf("Bot '%s' was sent to maintenance.", b.ID)
	default:
		e.Text = fmt.Sprintf("Bot '%s' was paused by the operator.", b.ID)
	}
	return e
}

// EntryForStock renders a stock alert for p. It reports false when p is in
// stock.
func EntryForStock(p inventory.Product, at time.Time) (Entry, bool) {
	e := Entry{Level: LevelAlert, ProductID: p.ID, At: at}
	switch p.Status {
	case inventory.StatusLowStock:
		e.Text = fmt.Sprintf("Item '%s' is low on stock. Only %d units left.", p.ID, p.Quantity)
	case inventory.StatusOutOfStock:
		e.Text = fmt.Sprintf("Item '%s' is out of stock.", p.ID)
	default:
		return Entry{}, false
	}
	return e, true
}

// EntryForPlan renders an executed co-pilot plan.
func EntryForPlan(title string, at time.Time) Entry {
	return Entry{Level: LevelSuccess, Text: fmt.Sprintf("Co-pilot plan '%s' executed.", title), At: at}
}

// Feed keeps the most recent entries, newest first.
type Feed struct {
	mu      sync.Mutex
	max     int
	entries []Entry
}

// NewFeed creates a feed holding at most max entries.
func NewFeed(max int) *Feed {
	if max <= 0 {
		max = 50
	}
	return &Feed{max: max}
}

// Add prepends e, evicting the oldest entry when full.
func (f *Feed) Add(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append([]Entry{e}, f.entries...)
	if len(f.entries) > f.max {
		f.entries = f.entries[:f.max]
	}
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (f *Feed) Recent(limit int) []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit > len(f.entries) {
		limit = len(f.entries)
	}
	return append([]Entry{}, f.entries[:limit]...)
}
