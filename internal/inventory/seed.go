package inventory

import "github.com/shopspring/decimal"

// SeedProducts returns the catalogue loaded into an empty database.
func SeedProducts() []Product {
	seed := []struct {
		id, name, category string
		quantity           int
		price              string
		supplier, date     string
	}{
		{"PID-001", "Quantum Processor", "Electronics", 120, "250.00", "SynthCore", "2023-10-15"},
		{"PID-002", "Hydrogel Packs", "Medical", 45, "30.50", "BioGen", "2023-11-02"},
		{"PID-003", "Carbon Nanotubes", "Materials", 0, "1200.00", "NanoWorks", "2023-09-20"},
		{"PID-004", "Ionic Power Cells", "Energy", 200, "150.75", "Voltacorp", "2023-11-10"},
		{"PID-005", "Data Crystal Shards", "Electronics", 500, "75.00", "SynthCore", "2023-08-01"},
		{"PID-006", "Auto-Suture Kits", "Medical", 15, "55.20", "BioGen", "2023-11-18"},
		{"PID-007", "Graphene Sheets", "Materials", 300, "800.00", "NanoWorks", "2023-10-05"},
	}

	products := make([]Product, 0, len(seed))
	for _, s := range seed {
		products = append(products, Product{
			ID:        s.id,
			Name:      s.name,
			Category:  s.category,
			Quantity:  s.quantity,
			Price:     decimal.RequireFromString(s.price),
			Supplier:  s.supplier,
			Status:    DeriveStatus(s.quantity),
			DateAdded: s.date,
		})
	}
	return products
}
