package catalog

import (
	"fmt"

	"github.com/mesh-intelligence/jd/internal/layout"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// categorySlots is the number of categories in one area.
const categorySlots = 10

// Area is a block of ten consecutive categories sharing a name.
type Area struct {
	bounds     types.Bounds
	name       string
	categories [categorySlots]*Category
}

// Bounds returns the inclusive category range of the area.
func (a *Area) Bounds() types.Bounds { return a.bounds }

// Name returns the display name of the area.
func (a *Area) Name() string { return a.name }

// Category returns the category with the given id, if present.
func (a *Area) Category(id int) (*Category, bool) {
	if !a.bounds.Contains(id) {
		return nil, false
	}
	c := a.categories[id%categorySlots]
	return c, c != nil
}

// Categories returns the occupied category slots in ascending order.
func (a *Area) Categories() []*Category {
	var out []*Category
	for _, c := range a.categories {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (a *Area) createCategory(id int, name string) (*Category, error) {
	if !a.bounds.Contains(id) {
		return nil, fmt.Errorf("%w: category %02d outside area %s", types.ErrValidation, id, a.bounds)
	}
	if err := layout.ValidName(name); err != nil {
		return nil, fmt.Errorf("category %02d: %w", id, err)
	}
	slot := id % categorySlots
	if a.categories[slot] != nil {
		return nil, fmt.Errorf("%w: category %02d", types.ErrSlotOccupied, id)
	}
	c := newCategory(id, name)
	a.categories[slot] = c
	return c, nil
}
