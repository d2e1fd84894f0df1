// Package catalog holds the fee catalog: the canonical, immutable set of
// payable items for the current period. The catalog is compiled in and loaded
// once; there is no mutation path at runtime.
package catalog

import (
	"time"

	"nacospay/internal/domain"
)

// KoboFactor converts whole-naira catalog amounts to the gateway's subunit.
const KoboFactor = 100

var items = []domain.FeeItem{
	{
		ID:          1,
		Name:        "Departmental Fee",
		Amount:      2500,
		Description: "Annual departmental fee for NACOS members",
		Deadline:    time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		Required:    true,
	},
	{
		ID:          2,
		Name:        "Department Week Fee",
		Amount:      3500,
		Description: "Fee for departmental week activities and events",
		Deadline:    time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		Required:    true,
	},
}

// List returns the catalog in stable order. Callers get a copy and may not
// mutate the catalog through it.
func List() []domain.FeeItem {
	out := make([]domain.FeeItem, len(items))
	copy(out, items)
	return out
}

func ItemByID(id int) (domain.FeeItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.FeeItem{}, false
}

// ItemByName resolves a ledger entry's payment type back to its catalog item.
// Names are unique within the catalog and must stay stable for the lifetime
// of any issued transaction record.
func ItemByName(name string) (domain.FeeItem, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return domain.FeeItem{}, false
}
