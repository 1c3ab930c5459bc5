// Package catalog holds the read-only list of items a session can burn.
package catalog

import (
	"fmt"
	"strings"
)

// Item is one selectable catalog entry. Price is the money saved by not
// buying one unit.
type Item struct {
	ID    string
	Name  string
	Price float64
}

// DefaultID is the item selected when none is configured.
const DefaultID = "classic"

var items = []Item{
	{ID: "classic", Name: "Classic Red", Price: 1.50},
	{ID: "menthol", Name: "Menthol Breeze", Price: 1.65},
	{ID: "slim", Name: "Slim Gold", Price: 1.80},
	{ID: "rolled", Name: "Hand Rolled", Price: 0.90},
	{ID: "cigar", Name: "Havana Cigar", Price: 12.00},
}

// All returns a copy of the catalog in display order.
func All() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Find looks up an item by ID, case-insensitively.
func Find(id string) (Item, error) {
	for _, it := range items {
		if strings.EqualFold(it.ID, id) {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("catalog: unknown item %q", id)
}

// Default returns the default item.
func Default() Item {
	it, _ := Find(DefaultID)
	return it
}
