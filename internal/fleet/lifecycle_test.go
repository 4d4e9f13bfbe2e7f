package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tickTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestAdvance(t *testing.T) {
	testCases := []struct {
		name           string
		bot            Bot
		expectedStatus Status
		expectedBatt   int
		expectedTask   string
		expectedKind   TransitionKind
	}{
		{
			name:           "active bot drains without transition",
			bot:            Bot{ID: "B", Status: StatusActive, Battery: 50, CurrentTask: "Pick Item - PID-001"},
			expectedStatus: StatusActive,
			expectedBatt:   49,
			expectedTask:   "Pick Item - PID-001",
		},
		{
			name:           "active bot starting at 21 stays active",
			bot:            Bot{ID: "B", Status: StatusActive, Battery: 21},
			expectedStatus: StatusActive,
			expectedBatt:   20,
		},
		{
			name:           "active bot starting at 20 routes to charge",
			bot:            Bot{ID: "B", Status: StatusActive, Battery: 20},
			expectedStatus: StatusCharging,
			expectedBatt:   19,
			expectedTask:   LowBatteryTask,
			expectedKind:   TransitionLowBattery,
		},
		{
			name:           "active bot already heading to charger is left alone",
			bot:            Bot{ID: "B", Status: StatusActive, Battery: 10, CurrentTask: "Go to charger"},
			expectedStatus: StatusActive,
			expectedBatt:   9,
			expectedTask:   "Go to charger",
		},
		{
			name:           "empty battery stays at zero",
			bot:            Bot{ID: "B", Status: StatusActive, Battery: 0, CurrentTask: LowBatteryTask},
			expectedStatus: StatusActive,
			expectedBatt:   0,
			expectedTask:   LowBatteryTask,
		},
		{
			name:           "charging bot gains two",
			bot:            Bot{ID: "B", Status: StatusCharging, Battery: 45, CurrentTask: ChargerTask},
			expectedStatus: StatusCharging,
			expectedBatt:   47,
			expectedTask:   ChargerTask,
		},
		{
			name:           "charging bot at 99 becomes idle",
			bot:            Bot{ID: "B", Status: StatusCharging, Battery: 99, CurrentTask: ChargerTask},
			expectedStatus: StatusIdle,
			expectedBatt:   100,
			expectedKind:   TransitionFullyCharged,
		},
		{
			name:           "idle bot is unchanged",
			bot:            Bot{ID: "B", Status: StatusIdle, Battery: 70},
			expectedStatus: StatusIdle,
			expectedBatt:   70,
		},
		{
			name:           "maintenance bot is unchanged",
			bot:            Bot{ID: "B", Status: StatusMaintenance, Battery: 100},
			expectedStatus: StatusMaintenance,
			expectedBatt:   100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := len(tc.bot.History)
			got, tr := Advance(tc.bot, tickTime)

			assert.Equal(t, tc.expectedStatus, got.Status)
			assert.Equal(t, tc.expectedBatt, got.Battery)
			assert.Equal(t, tc.expectedTask, got.CurrentTask)

			if tc.expectedKind == "" {
				assert.Nil(t, tr)
				assert.Len(t, got.History, before, "no history without a transition")
				return
			}
			require.NotNil(t, tr)
			assert.Equal(t, tc.expectedKind, tr.Kind)
			assert.Equal(t, got.Status, tr.To)
			require.Len(t, got.History, before+1)
			assert.Equal(t, tr.Event, got.History[0].Event)
			assert.Equal(t, tickTime, got.History[0].Timestamp)
		})
	}
}

func TestAdvance_LowBatteryBoundaryAcrossTicks(t *testing.T) {
	b := Bot{ID: "BOT-09", Status: StatusActive, Battery: 21}

	b, tr := Advance(b, tickTime)
	assert.Nil(t, tr)
	assert.Equal(t, StatusActive, b.Status)
	assert.Equal(t, 20, b.Battery)

	b, tr = Advance(b, tickTime.Add(3*time.Second))
	require.NotNil(t, tr)
	assert.Equal(t, StatusCharging, b.Status)
	assert.Equal(t, 19, b.Battery)
	assert.Equal(t, EventLowBattery, b.History[0].Event)
}

func TestAdvance_BatteryStaysInRange(t *testing.T) {
	bots := SeedBots(tickTime)
	bots = append(bots,
		Bot{ID: "EDGE-1", Status: StatusActive, Battery: 1, CurrentTask: "Go to charger"},
		Bot{ID: "EDGE-2", Status: StatusCharging, Battery: 100},
	)

	now := tickTime
	for i := 0; i < 400; i++ {
		now = now.Add(3 * time.Second)
		bots, _ = AdvanceAll(bots, now)
		for _, b := range bots {
			require.GreaterOrEqual(t, b.Battery, MinBattery, b.ID)
			require.LessOrEqual(t, b.Battery, MaxBattery, b.ID)
		}
	}
}

func TestAdvanceAll_DoesNotMutateInput(t *testing.T) {
	bots := []Bot{{ID: "A", Status: StatusCharging, Battery: 99}}
	next, transitions := AdvanceAll(bots, tickTime)

	assert.Equal(t, 99, bots[0].Battery)
	assert.Empty(t, bots[0].History)
	assert.Equal(t, 100, next[0].Battery)
	require.Len(t, transitions, 1)
	assert.Equal(t, "A", transitions[0].BotID)
}

func TestHistoryIsPrepended(t *testing.T) {
	b := Bot{ID: "BOT-10", Status: StatusIdle, Battery: 90}
	events := []string{}

	var err error
	b, err = AssignTask(b, "Pick Item - PID-002", "PID-002", tickTime)
	require.NoError(t, err)
	events = append(events, "Task assigned: Pick Item - PID-002")

	b, err = ApplyAction(b, ActionPause, tickTime.Add(time.Second))
	require.NoError(t, err)
	events = append(events, "Paused by operator.")

	b, err = AssignTask(b, "Scan Shelf - Aisle 4", "Aisle 4", tickTime.Add(2*time.Second))
	require.NoError(t, err)
	events = append(events, "Task assigned: Scan Shelf - Aisle 4")

	require.Len(t, b.History, len(events))
	for i, e := range events {
		assert.Equal(t, e, b.History[len(events)-1-i].Event)
	}
	assert.Equal(t, "Task assigned: Scan Shelf - Aisle 4", b.History[0].Event)
}
