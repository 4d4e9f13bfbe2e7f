package fleet

import (
	"strings"
	"time"
)

const (
	// LowBatteryThreshold is the battery reading at or below which an active
	// bot is routed to a charger. The reading is the one taken at the start
	// of the tick.
	LowBatteryThreshold = 20

	DrainPerTick  = 1
	ChargePerTick = 2

	LowBatteryTask  = "Go to charger (Low Battery)"
	EventLowBattery = "Low battery. Automatically routing to charge."
	EventCharged    = "Fully charged. Status changed to Idle."
)

// TransitionKind names an automatic state change.
type TransitionKind string

const (
	TransitionLowBattery   TransitionKind = "low_battery"
	TransitionFullyCharged TransitionKind = "fully_charged"
)

// Transition describes an automatic state change produced by a tick.
type Transition struct {
	BotID   string         `json:"botId"`
	Kind    TransitionKind `json:"kind"`
	From    Status         `json:"from"`
	To      Status         `json:"to"`
	Battery int            `json:"battery"`
	Event   string         `json:"event"`
	At      time.Time      `json:"at"`
}

// Advance applies one simulation tick to b and returns the updated bot. The
// returned transition is nil when only the battery moved. Bots in maintenance
// are returned unchanged.
func Advance(b Bot, now time.Time) (Bot, *Transition) {
	if b.Status == StatusMaintenance {
		return b, nil
	}

	startBattery := b.Battery
	switch b.Status {
	case StatusActive:
		b.Battery = clampBattery(b.Battery - DrainPerTick)
	case StatusCharging:
		b.Battery = clampBattery(b.Battery + ChargePerTick)
	}

	from := b.Status
	switch {
	case b.Status == StatusActive && startBattery <= LowBatteryThreshold && !referencesCharging(b.CurrentTask):
		b.Status = StatusCharging
		b.CurrentTask = LowBatteryTask
		b.record(now, EventLowBattery)
		return b, &Transition{BotID: b.ID, Kind: TransitionLowBattery, From: from, To: b.Status, Battery: b.Battery, Event: EventLowBattery, At: now}
	case b.Status == StatusCharging && b.Battery >= MaxBattery:
		b.Status = StatusIdle
		b.CurrentTask = ""
		b.record(now, EventCharged)
		return b, &Transition{BotID: b.ID, Kind: TransitionFullyCharged, From: from, To: b.Status, Battery: b.Battery, Event: EventCharged, At: now}
	}
	return b, nil
}

// AdvanceAll applies one tick to every bot. The input slice is not modified.
func AdvanceAll(bots []Bot, now time.Time) ([]Bot, []Transition) {
	next := make([]Bot, len(bots))
	var transitions []Transition
	for i, b := range bots {
		nb, tr := Advance(b, now)
		next[i] = nb
		if tr != nil {
			transitions = append(transitions, *tr)
		}
	}
	return next, transitions
}

func referencesCharging(task string) bool {
	return strings.Contains(strings.ToLower(task), "charg")
}
