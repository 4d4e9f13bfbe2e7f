package fleet

import "time"

// SeedBots returns the starting fleet. History timestamps are relative to now.
func SeedBots(now time.Time) []Bot {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	entry := func(d time.Duration, event string) HistoryEntry {
		return HistoryEntry{Timestamp: ago(d), Event: event}
	}

	return []Bot{
		{ID: "BOT-01", Status: StatusActive, Battery: 88, TasksCompleted: 142, Location: "Aisle 7", History: []HistoryEntry{
			entry(time.Hour, "Task completed: Pick Item - PID-004"),
			entry(2*time.Hour, "Status changed to Active."),
		}},
		{ID: "BOT-02", Status: StatusIdle, Battery: 95, TasksCompleted: 110, Location: "Docking Bay", History: []HistoryEntry{
			entry(30*time.Minute, "Returned to Docking Bay."),
			entry(150*time.Minute, "System restart initiated."),
		}},
		{ID: "BOT-03", Status: StatusCharging, Battery: 23, TasksCompleted: 98, Location: "Charging Station 2", History: []HistoryEntry{
			entry(10*time.Minute, "Low battery detected. Moving to charge."),
			entry(80*time.Minute, "Task completed: Deliver Item - Packing Area"),
		}},
		{ID: "BOT-04", Status: StatusActive, Battery: 76, TasksCompleted: 158, Location: "Aisle 3", History: []HistoryEntry{
			entry(40*time.Minute, "Task assigned: Scan Shelf - Aisle 3"),
			entry(90*time.Minute, "Activated from Idle state."),
		}},
		{ID: "BOT-05", Status: StatusMaintenance, Battery: 100, TasksCompleted: 55, Location: MaintenanceBay, History: []HistoryEntry{
			entry(24*time.Hour, "Scheduled maintenance started."),
			entry(24*time.Hour+time.Minute, "Sensor calibration failed diagnostics."),
		}},
		{ID: "BOT-06", Status: StatusActive, Battery: 91, TasksCompleted: 130, Location: "Packing Area", History: []HistoryEntry{
			entry(20*time.Minute, "Delivered Item PID-001 to Packing Area."),
			entry(50*time.Minute, "Task assigned: Deliver Item - Packing Area"),
		}},
		{ID: "BOT-07", Status: StatusIdle, Battery: 98, TasksCompleted: 102, Location: "Docking Bay", History: []HistoryEntry{
			entry(2*time.Hour, "Task queue empty. Returning to base."),
		}},
		{ID: "BOT-08", Status: StatusCharging, Battery: 45, TasksCompleted: 121, Location: "Charging Station 1", History: []HistoryEntry{
			entry(30*time.Minute, "Battery level at 20%. Initiating charge cycle."),
		}},
	}
}
