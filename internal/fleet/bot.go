// Package fleet holds the delivery bot model and the rules that move a bot
// between states: the periodic battery simulation, operator task assignment
// and direct operator actions. Everything here is pure; callers own storage
// and scheduling.
package fleet

import (
	"errors"
	"time"
)

// Status is the operating state of a bot.
type Status string

const (
	StatusActive      Status = "Active"
	StatusIdle        Status = "Idle"
	StatusCharging    Status = "Charging"
	StatusMaintenance Status = "Maintenance"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusIdle, StatusCharging, StatusMaintenance:
		return true
	}
	return false
}

const (
	MinBattery = 0
	MaxBattery = 100
)

var (
	ErrBotNotFound     = errors.New("bot not found")
	ErrDetailsRequired = errors.New("task details are required")
	ErrEmptyTask       = errors.New("task description is required")
	ErrUnknownAction   = errors.New("unknown bot action")
)

// HistoryEntry is one line of a bot's event log.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
}

// Bot is a simulated warehouse robot. History is ordered newest first.
type Bot struct {
	ID             string         `json:"id"`
	Status         Status         `json:"status"`
	Battery        int            `json:"battery"`
	TasksCompleted int            `json:"tasksCompleted"`
	Location       string         `json:"location"`
	CurrentTask    string         `json:"currentTask,omitempty"`
	History        []HistoryEntry `json:"history"`
}

// Clone returns a copy of b that shares no memory with it.
func (b Bot) Clone() Bot {
	b.History = append([]HistoryEntry(nil), b.History...)
	return b
}

// record prepends an event to the history. A new backing array is always
// allocated so earlier copies of the bot keep their own history.
func (b *Bot) record(now time.Time, event string) {
	h := make([]HistoryEntry, 0, len(b.History)+1)
	h = append(h, HistoryEntry{Timestamp: now, Event: event})
	b.History = append(h, b.History...)
}

func clampBattery(v int) int {
	if v < MinBattery {
		return MinBattery
	}
	if v > MaxBattery {
		return MaxBattery
	}
	return v
}

// Find returns the index of the bot with the given id, or -1.
func Find(bots []Bot, id string) int {
	for i := range bots {
		if bots[i].ID == id {
			return i
		}
	}
	return -1
}

// CountByStatus tallies bots per status.
func CountByStatus(bots []Bot) map[Status]int {
	counts := make(map[Status]int, 4)
	for _, b := range bots {
		counts[b.Status]++
	}
	return counts
}
