package store

import (
	"errors"
	"time"

	"warehouse-ops-backend/internal/fleet"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("record not found")

// BotChange is a bot whose state changed during a mutation. Appended counts
// the entries at the front of Bot.History that have not been persisted yet.
type BotChange struct {
	Bot      fleet.Bot
	Appended int
}

// Subscription is a browser push endpoint. An empty BotIDs list means the
// subscriber wants alerts for every bot.
type Subscription struct {
	Endpoint  string
	P256DH    string
	Auth      string
	BotIDs    []string
	CreatedAt time.Time
}
