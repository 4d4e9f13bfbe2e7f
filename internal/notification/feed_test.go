package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
)

func TestFeed_KeepsNewestFirstAndCaps(t *testing.T) {
	f := NewFeed(2)
	f.Add(Entry{Text: "one"})
	f.Add(Entry{Text: "two"})
	f.Add(Entry{Text: "three"})

	got := f.Recent(0)
	assert.Len(t, got, 2)
	assert.Equal(t, "three", got[0].Text)
	assert.Equal(t, "two", got[1].Text)
	assert.Len(t, f.Recent(1), 1)
}

func TestEntryFromTransition(t *testing.T) {
	e := EntryFromTransition(lowBattery("BOT-04"))
	assert.Equal(t, LevelAlert, e.Level)
	assert.Contains(t, e.Text, "19%")

	e = EntryFromTransition(fleet.Transition{BotID: "BOT-08", Kind: fleet.TransitionFullyCharged})
	assert.Equal(t, LevelSuccess, e.Level)
	assert.Equal(t, "Bot 'BOT-08' is fully charged and idle.", e.Text)
}

func TestEntriesForOperatorChanges(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	e := EntryForTask(fleet.Bot{ID: "BOT-03", Status: fleet.StatusCharging, CurrentTask: "Go to charger"}, at)
	assert.Equal(t, "Bot 'BOT-03' has started its charging cycle.", e.Text)
	assert.Equal(t, LevelInfo, e.Level)
	assert.Equal(t, at, e.At)

	e = EntryForTask(fleet.Bot{ID: "BOT-01", Status: fleet.StatusActive, CurrentTask: "Deliver Item - PID-004"}, at)
	assert.Equal(t, "Task 'Deliver Item - PID-004' assigned to BOT-01.", e.Text)

	e = EntryForAction(fleet.Bot{ID: "BOT-05"}, fleet.ActionMaintenance, at)
	assert.Equal(t, LevelAlert, e.Level)
	e = EntryForAction(fleet.Bot{ID: "BOT-05"}, fleet.ActionPause, at)
	assert.Equal(t, LevelInfo, e.Level)
	assert.Equal(t, "BOT-05", e.BotID)

	e, ok := EntryForStock(inventory.Product{ID: "PID-006", Quantity: 15, Status: inventory.StatusLowStock}, at)
	assert.True(t, ok)
	assert.Equal(t, "Item 'PID-006' is low on stock. Only 15 units left.", e.Text)
	assert.Equal(t, "PID-006", e.ProductID)

	e, ok = EntryForStock(inventory.Product{ID: "PID-002", Status: inventory.StatusOutOfStock}, at)
	assert.True(t, ok)
	assert.Equal(t, LevelAlert, e.Level)

	_, ok = EntryForStock(inventory.Product{ID: "PID-001", Quantity: 200, Status: inventory.StatusInStock}, at)
	assert.False(t, ok)

	assert.Equal(t, LevelSuccess, EntryForPlan("Restock", at).Level)
}
