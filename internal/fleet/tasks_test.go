package fleet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignTask(t *testing.T) {
	base := Bot{ID: "BOT-01", Status: StatusIdle, Battery: 80, Location: "Docking Bay"}

	testCases := []struct {
		name             string
		description      string
		details          string
		expectedStatus   Status
		expectedLocation string
	}{
		{"deliver item moves to destination", "Deliver Item - Packing Area", "Packing Area", StatusActive, "Packing Area"},
		{"scan shelf scans the aisle", "Scan Shelf - Aisle 7", "Aisle 7", StatusActive, "Scanning in Aisle 7"},
		{"pick item starts retrieval", "Pick Item - PID-001", "PID-001", StatusActive, RetrievingItem},
		{"charger task goes to station", "Go to charger", "", StatusCharging, ChargingStation},
		{"charge in any case wins over prefix", "Deliver Item - RECHARGE dock", "Dock 2", StatusCharging, ChargingStation},
		{"free text keeps location", "Inspect conveyor belt", "", StatusActive, "Docking Bay"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AssignTask(base, tc.description, tc.details, tickTime)
			require.NoError(t, err)

			assert.Equal(t, tc.expectedStatus, got.Status)
			assert.Equal(t, tc.expectedLocation, got.Location)
			assert.Equal(t, tc.description, got.CurrentTask)
			require.Len(t, got.History, 1)
			assert.Equal(t, "Task assigned: "+tc.description, got.History[0].Event)
		})
	}
}

func TestAssignTask_RequiresDetails(t *testing.T) {
	base := Bot{ID: "BOT-02", Status: StatusIdle, Battery: 90, Location: "Docking Bay"}

	for _, kind := range []string{TaskDeliverItem, TaskScanShelf, TaskPickItem} {
		t.Run(kind, func(t *testing.T) {
			got, err := AssignTask(base, kind+" - ", "   ", tickTime)
			assert.True(t, errors.Is(err, ErrDetailsRequired))
			assert.Equal(t, base, got, "bot must be untouched on validation failure")
		})
	}

	_, err := AssignTask(base, "  ", "", tickTime)
	assert.True(t, errors.Is(err, ErrEmptyTask))
}

func TestApplyAction(t *testing.T) {
	base := Bot{ID: "BOT-03", Status: StatusActive, Battery: 60, Location: "Aisle 2", CurrentTask: "Pick Item - PID-003"}

	t.Run("pause", func(t *testing.T) {
		got, err := ApplyAction(base, ActionPause, tickTime)
		require.NoError(t, err)
		assert.Equal(t, StatusIdle, got.Status)
		assert.Empty(t, got.CurrentTask)
		assert.Equal(t, "Aisle 2", got.Location)
		assert.Equal(t, "Paused by operator.", got.History[0].Event)
	})

	t.Run("charge", func(t *testing.T) {
		got, err := ApplyAction(base, ActionCharge, tickTime)
		require.NoError(t, err)
		assert.Equal(t, StatusCharging, got.Status)
		assert.Equal(t, ChargingStation, got.Location)
		assert.Equal(t, ChargerTask, got.CurrentTask)
	})

	t.Run("maintenance", func(t *testing.T) {
		got, err := ApplyAction(base, ActionMaintenance, tickTime)
		require.NoError(t, err)
		assert.Equal(t, StatusMaintenance, got.Status)
		assert.Equal(t, MaintenanceBay, got.Location)

		ticked, tr := Advance(got, tickTime)
		assert.Nil(t, tr)
		assert.Equal(t, got, ticked)
	})

	t.Run("unknown", func(t *testing.T) {
		got, err := ApplyAction(base, Action("reboot"), tickTime)
		assert.True(t, errors.Is(err, ErrUnknownAction))
		assert.Equal(t, base, got)
	})
}

func TestDescribeTask(t *testing.T) {
	assert.Equal(t, "Deliver Item - Packing Area", DescribeTask(TaskDeliverItem, " Packing Area "))
	assert.Equal(t, ChargerTask, DescribeTask(TaskChargeBattery, "ignored"))
	assert.Equal(t, "Pick Item", DescribeTask(TaskPickItem, ""))
}
