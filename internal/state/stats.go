package state

import (
	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
)

// Stats are the dashboard KPI counts.
type Stats struct {
	TotalProducts int `json:"totalProducts"`
	InStock       int `json:"inStock"`
	LowStock      int `json:"lowStock"`
	OutOfStock    int `json:"outOfStock"`
	TotalBots     int `json:"totalBots"`
	ActiveBots    int `json:"activeBots"`
	IdleBots      int `json:"idleBots"`
	ChargingBots  int `json:"chargingBots"`
	Maintenance   int `json:"maintenanceBots"`
	ReorderFlags  int `json:"reorderFlags"`
}

// Stats computes KPI counts from one consistent snapshot.
func (a *App) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	products := inventory.Counts(a.products)
	bots := fleet.CountByStatus(a.bots)
	return Stats{
		TotalProducts: len(a.products),
		InStock:       products[inventory.StatusInStock],
		LowStock:      products[inventory.StatusLowStock],
		OutOfStock:    products[inventory.StatusOutOfStock],
		TotalBots:     len(a.bots),
		ActiveBots:    bots[fleet.StatusActive],
		IdleBots:      bots[fleet.StatusIdle],
		ChargingBots:  bots[fleet.StatusCharging],
		Maintenance:   bots[fleet.StatusMaintenance],
		ReorderFlags:  len(a.reorder),
	}
}
