// Package inventory holds the fixed, read-only catalog of travel experiences.
package inventory

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/tripfinder/internal/domain/trip"
)

// Inventory is an immutable item list with id indexes computed once.
type Inventory struct {
	items []trip.Item
	byID  map[int]trip.Item
}

// New validates items and builds the indexes. Order of items is preserved.
func New(items []trip.Item) (*Inventory, error) {
	if len(items) == 0 {
		return nil, errors.New("inventory must not be empty")
	}

	inv := &Inventory{
		items: make([]trip.Item, 0, len(items)),
		byID:  make(map[int]trip.Item, len(items)),
	}
	for _, it := range items {
		if it.ID <= 0 {
			return nil, fmt.Errorf("item %q: id must be positive, got %d", it.Title, it.ID)
		}
		if _, dup := inv.byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %d", it.ID)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("item %d: price must be non-negative", it.ID)
		}
		for _, t := range it.Tags {
			if !t.IsValid() {
				return nil, fmt.Errorf("item %d: unknown tag %q", it.ID, t)
			}
		}
		c := it.Clone()
		inv.items = append(inv.items, c)
		inv.byID[c.ID] = c
	}
	return inv, nil
}

// MustNew is New that panics on invalid input. For static tables only.
func MustNew(items []trip.Item) *Inventory {
	inv, err := New(items)
	if err != nil {
		panic(err)
	}
	return inv
}

// Items returns a copy of all items in inventory order.
func (inv *Inventory) Items() []trip.Item {
	out := make([]trip.Item, len(inv.items))
	for i, it := range inv.items {
		out[i] = it.Clone()
	}
	return out
}

// Get looks up an item by id.
func (inv *Inventory) Get(id int) (trip.Item, bool) {
	it, ok := inv.byID[id]
	if !ok {
		return trip.Item{}, false
	}
	return it.Clone(), true
}

// Has reports whether id is a known item id.
func (inv *Inventory) Has(id int) bool {
	_, ok := inv.byID[id]
	return ok
}

// Price returns the authoritative price for id.
func (inv *Inventory) Price(id int) (int, bool) {
	it, ok := inv.byID[id]
	return it.Price, ok
}

// IDs returns all item ids in inventory order.
func (inv *Inventory) IDs() []int {
	ids := make([]int, len(inv.items))
	for i, it := range inv.items {
		ids[i] = it.ID
	}
	return ids
}

// Len returns the number of items.
func (inv *Inventory) Len() int { return len(inv.items) }

// Cheapest returns the lowest price in the inventory.
func (inv *Inventory) Cheapest() int {
	lowest := inv.items[0].Price
	for _, it := range inv.items[1:] {
		if it.Price < lowest {
			lowest = it.Price
		}
	}
	return lowest
}

// Priciest returns the highest price in the inventory.
func (inv *Inventory) Priciest() int {
	highest := inv.items[0].Price
	for _, it := range inv.items[1:] {
		if it.Price > highest {
			highest = it.Price
		}
	}
	return highest
}

// Count returns how many items satisfy keep.
func (inv *Inventory) Count(keep func(trip.Item) bool) int {
	n := 0
	for _, it := range inv.items {
		if keep(it) {
			n++
		}
	}
	return n
}
