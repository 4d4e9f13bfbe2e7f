// Package report renders the inventory and fleet tables for download.
package report

import (
	"errors"
	"fmt"
	"strconv"

	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
)

// ErrUnknownReport is returned for a report name that does not exist.
var ErrUnknownReport = errors.New("unknown report")

// Kind names a report.
type Kind string

const (
	KindInventory      Kind = "inventory"
	KindBotPerformance Kind = "bot-performance"
)

// ParseKind maps the name used in URLs to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindInventory, KindBotPerformance:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReport, s)
}

// Title is the human readable report name.
func (k Kind) Title() string {
	if k == KindBotPerformance {
		return "Bot Performance"
	}
	return "Inventory"
}

// Table is a report's header row and data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

var (
	inventoryHeaders = []string{"ID", "Name", "Category", "Quantity", "Price (INR)", "Supplier", "Status"}
	botHeaders       = []string{"ID", "Status", "Battery (%)", "Tasks Completed", "Location", "Current Task"}
)

// InventoryTable lists every product.
func InventoryTable(products []inventory.Product) Table {
	t := Table{Headers: inventoryHeaders, Rows: make([][]string, 0, len(products))}
	for _, p := range products {
		t.Rows = append(t.Rows, []string{
			p.ID,
			p.Name,
			p.Category,
			strconv.Itoa(p.Quantity),
			p.Price.String(),
			p.Supplier,
			string(p.Status),
		})
	}
	return t
}

// BotTable lists every bot. A bot without a task shows N/A.
func BotTable(bots []fleet.Bot) Table {
	t := Table{Headers: botHeaders, Rows: make([][]string, 0, len(bots))}
	for _, b := range bots {
		task := b.CurrentTask
		if task == "" {
			task = "N/A"
		}
		t.Rows = append(t.Rows, []string{
			b.ID,
			string(b.Status),
			strconv.Itoa(b.Battery),
			strconv.Itoa(b.TasksCompleted),
			b.Location,
			task,
		})
	}
	return t
}

// Build returns the table for kind.
func Build(kind Kind, products []inventory.Product, bots []fleet.Bot) Table {
	if kind == KindBotPerformance {
		return BotTable(bots)
	}
	return InventoryTable(products)
}
