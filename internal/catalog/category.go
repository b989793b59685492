package catalog

import (
	"fmt"

	"github.com/mesh-intelligence/jd/internal/layout"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// Category is a named bucket of up to a thousand items.
type Category struct {
	id    int
	name  string
	items [types.MaxItems]*types.Item
}

func newCategory(id int, name string) *Category {
	return &Category{id: id, name: name}
}

// ID returns the two-digit category number.
func (c *Category) ID() int { return c.id }

// Name returns the display name of the category.
func (c *Category) Name() string { return c.name }

// Item returns the item stored at slot n.
func (c *Category) Item(n int) (types.Item, bool) {
	if n < 0 || n >= types.MaxItems || c.items[n] == nil {
		return types.Item{}, false
	}
	return *c.items[n], true
}

// Items returns a snapshot of the occupied slots in ascending order.
func (c *Category) Items() []types.Item {
	var out []types.Item
	for _, it := range c.items {
		if it != nil {
			out = append(out, *it)
		}
	}
	return out
}

// allocate stores a new item named name. With explicit set, that exact slot
// is used; otherwise the lowest free slot from 1 upwards is taken.
func (c *Category) allocate(name string, explicit *int) (types.Item, error) {
	if err := layout.ValidName(name); err != nil {
		return types.Item{}, err
	}
	slot := -1
	if explicit != nil {
		n := *explicit
		if n < 0 || n >= types.MaxItems {
			return types.Item{}, fmt.Errorf("%w: item %d out of range", types.ErrInvalidID, n)
		}
		if c.items[n] != nil {
			return types.Item{}, fmt.Errorf("%w: %s", types.ErrSlotOccupied, c.items[n].ID)
		}
		slot = n
	} else {
		for n := 1; n < types.MaxItems; n++ {
			if c.items[n] == nil {
				slot = n
				break
			}
		}
		if slot < 0 {
			return types.Item{}, fmt.Errorf("%w: category %02d", types.ErrNoFreeSlot, c.id)
		}
	}

	item := types.Item{ID: types.ID{Category: c.id, Item: slot}, Name: name}
	c.items[slot] = &item
	return item, nil
}

// put inserts a fully formed item at its own slot.
func (c *Category) put(item types.Item) error {
	if err := item.ID.Validate(); err != nil {
		return err
	}
	if item.ID.Category != c.id {
		return fmt.Errorf("%w: item %s does not belong to category %02d", types.ErrValidation, item.ID, c.id)
	}
	if err := layout.ValidName(item.Name); err != nil {
		return fmt.Errorf("item %s: %w", item.ID, err)
	}
	if c.items[item.ID.Item] != nil {
		return fmt.Errorf("%w: %s", types.ErrSlotOccupied, item.ID)
	}
	c.items[item.ID.Item] = &item
	return nil
}

// remove empties slot n and returns what was there. Neighbouring items keep
// their numbers.
func (c *Category) remove(n int) (types.Item, bool) {
	if n < 0 || n >= types.MaxItems || c.items[n] == nil {
		return types.Item{}, false
	}
	it := *c.items[n]
	c.items[n] = nil
	return it, true
}
