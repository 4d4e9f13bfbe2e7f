package fleet

import (
	"fmt"
	"strings"
	"time"
)

// Task kinds offered to operators. A description starts with the kind,
// optionally followed by " - " and the details.
const (
	TaskPickItem      = "Pick Item"
	TaskDeliverItem   = "Deliver Item"
	TaskScanShelf     = "Scan Shelf"
	TaskChargeBattery = "Charge Battery"
)

const (
	ChargingStation = "Charging Station"
	MaintenanceBay  = "Maintenance Bay"
	RetrievingItem  = "Retrieving Item..."
	ChargerTask     = "Go to charger"
)

// TaskKinds lists the kinds in the order they are offered.
var TaskKinds = []string{TaskPickItem, TaskDeliverItem, TaskScanShelf, TaskChargeBattery}

// RequiresDetails reports whether a description of this kind needs details
// (an item id, a destination or an aisle).
func RequiresDetails(description string) bool {
	for _, k := range []string{TaskDeliverItem, TaskScanShelf, TaskPickItem} {
		if strings.HasPrefix(description, k) {
			return true
		}
	}
	return false
}

// IsChargingTask reports whether the description sends a bot to charge.
func IsChargingTask(description string) bool {
	return strings.Contains(strings.ToLower(description), "charge")
}

// AssignTask applies an operator or AI chosen task to b. Nothing is changed
// when validation fails.
func AssignTask(b Bot, description, details string, now time.Time) (Bot, error) {
	description = strings.TrimSpace(description)
	details = strings.TrimSpace(details)
	if description == "" {
		return b, ErrEmptyTask
	}
	if RequiresDetails(description) && details == "" {
		return b, fmt.Errorf("%w for %q", ErrDetailsRequired, description)
	}

	if IsChargingTask(description) {
		b.Status = StatusCharging
		b.Location = ChargingStation
	} else {
		b.Status = StatusActive
		switch {
		case strings.HasPrefix(description, TaskDeliverItem):
			b.Location = details
		case strings.HasPrefix(description, TaskScanShelf):
			b.Location = "Scanning in " + details
		case strings.HasPrefix(description, TaskPickItem):
			b.Location = RetrievingItem
		}
	}
	b.CurrentTask = description
	b.record(now, "Task assigned: "+description)
	return b, nil
}

// Action is a direct operator command on a bot.
type Action string

const (
	ActionPause       Action = "pause"
	ActionCharge      Action = "charge"
	ActionMaintenance Action = "maintenance"
)

// ApplyAction performs a direct operator action. These bypass task details
// validation.
func ApplyAction(b Bot, action Action, now time.Time) (Bot, error) {
	switch action {
	case ActionPause:
		b.Status = StatusIdle
		b.CurrentTask = ""
		b.record(now, "Paused by operator.")
	case ActionCharge:
		b.Status = StatusCharging
		b.Location = ChargingStation
		b.CurrentTask = ChargerTask
		b.record(now, "Sent to charging station by operator.")
	case ActionMaintenance:
		b.Status = StatusMaintenance
		b.Location = MaintenanceBay
		b.CurrentTask = ""
		b.record(now, "Moved to maintenance by operator.")
	default:
		return b, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return b, nil
}

// DescribeTask builds the description an operator form would submit for a
// kind and its details.
func DescribeTask(kind, details string) string {
	if kind == TaskChargeBattery {
		return ChargerTask
	}
	details = strings.TrimSpace(details)
	if details == "" {
		return kind
	}
	return kind + " - " + details
}
