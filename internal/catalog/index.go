package catalog

import (
	"fmt"

	"github.com/mesh-intelligence/jd/internal/layout"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// areaSlots is the number of areas in an index.
const areaSlots = 10

// Index is the root of the catalog.
type Index struct {
	areas [areaSlots]*Area
}

// AreaInfo is a read-only summary of an area.
type AreaInfo struct {
	Bounds types.Bounds
	Name   string
}

// CategoryInfo is a read-only summary of a category.
type CategoryInfo struct {
	ID   int
	Name string
	Area types.Bounds
}

// New returns an empty index.
func New() *Index {
	return &Index{}
}

// CreateArea adds an area. The bounds must cover exactly one block of ten
// categories and the block must be free.
func (idx *Index) CreateArea(bounds types.Bounds, name string) (*Area, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if err := layout.ValidName(name); err != nil {
		return nil, fmt.Errorf("area %s: %w", bounds, err)
	}
	slot := bounds.Slot()
	if idx.areas[slot] != nil {
		return nil, fmt.Errorf("%w: area %s", types.ErrSlotOccupied, bounds)
	}
	a := &Area{bounds: bounds, name: name}
	idx.areas[slot] = a
	return a, nil
}

// EnsureArea returns the area covering bounds, creating it with name when the
// slot is free. An existing area keeps its name.
func (idx *Index) EnsureArea(bounds types.Bounds, name string) (*Area, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if a := idx.areas[bounds.Slot()]; a != nil {
		return a, nil
	}
	return idx.CreateArea(bounds, name)
}

// EnsureCategory returns the category with the given id, creating it with
// name when its area has a free slot for it. An existing category keeps its
// name.
func (idx *Index) EnsureCategory(categoryID int, name string) (*Category, error) {
	a, err := idx.AreaForCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if c, ok := a.Category(categoryID); ok {
		return c, nil
	}
	return a.createCategory(categoryID, name)
}

// Area returns the area whose lower bound is low.
func (idx *Index) Area(low int) (*Area, error) {
	bounds := types.Bounds{Low: low, High: low + 9}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	a := idx.areas[bounds.Slot()]
	if a == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrAreaNotFound, bounds)
	}
	return a, nil
}

// AreaForCategory returns the area that owns categoryID.
func (idx *Index) AreaForCategory(categoryID int) (*Area, error) {
	if err := validateCategoryID(categoryID); err != nil {
		return nil, err
	}
	a := idx.areas[categoryID/10]
	if a == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrAreaNotFound, types.AreaBounds(categoryID))
	}
	return a, nil
}

// Category returns the category with the given id.
func (idx *Index) Category(categoryID int) (*Category, error) {
	a, err := idx.AreaForCategory(categoryID)
	if err != nil {
		return nil, err
	}
	c, ok := a.Category(categoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %02d", types.ErrCategoryNotFound, categoryID)
	}
	return c, nil
}

// CreateCategory adds a category to its owning area.
func (idx *Index) CreateCategory(categoryID int, name string) (*Category, error) {
	a, err := idx.AreaForCategory(categoryID)
	if err != nil {
		return nil, err
	}
	return a.createCategory(categoryID, name)
}

// RenameCategory changes the display name of a category.
func (idx *Index) RenameCategory(categoryID int, name string) error {
	c, err := idx.Category(categoryID)
	if err != nil {
		return err
	}
	if err := layout.ValidName(name); err != nil {
		return fmt.Errorf("category %02d: %w", categoryID, err)
	}
	c.name = name
	return nil
}

// AllocateItem stores a new item in a category. When explicit is nil the
// lowest free item number (starting at 1) is used.
func (idx *Index) AllocateItem(categoryID int, name string, explicit *int) (types.Item, error) {
	c, err := idx.Category(categoryID)
	if err != nil {
		return types.Item{}, err
	}
	return c.allocate(name, explicit)
}

// ImportItem inserts an already numbered item, as found while rebuilding the
// catalog from a backend.
func (idx *Index) ImportItem(item types.Item) error {
	if err := item.ID.Validate(); err != nil {
		return err
	}
	c, err := idx.Category(item.ID.Category)
	if err != nil {
		return err
	}
	return c.put(item)
}

// GetItem looks up an item. A missing area or category is an error; a free
// slot is reported with ok == false.
func (idx *Index) GetItem(id types.ID) (types.Item, bool, error) {
	if err := id.Validate(); err != nil {
		return types.Item{}, false, err
	}
	c, err := idx.Category(id.Category)
	if err != nil {
		return types.Item{}, false, err
	}
	it, ok := c.Item(id.Item)
	return it, ok, nil
}

// RemoveItem empties the slot of id and returns the removed item. Removing a
// free slot is not an error.
func (idx *Index) RemoveItem(id types.ID) (types.Item, bool, error) {
	if err := id.Validate(); err != nil {
		return types.Item{}, false, err
	}
	c, err := idx.Category(id.Category)
	if err != nil {
		return types.Item{}, false, err
	}
	it, ok := c.remove(id.Item)
	return it, ok, nil
}

// Areas returns the occupied area slots in ascending order.
func (idx *Index) Areas() []*Area {
	var out []*Area
	for _, a := range idx.areas {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// ListAreas returns a snapshot of every area in ascending order.
func (idx *Index) ListAreas() []AreaInfo {
	var out []AreaInfo
	for _, a := range idx.Areas() {
		out = append(out, AreaInfo{Bounds: a.bounds, Name: a.name})
	}
	return out
}

// ListCategories returns a snapshot of every category in ascending order.
func (idx *Index) ListCategories() []CategoryInfo {
	var out []CategoryInfo
	for _, a := range idx.Areas() {
		for _, c := range a.Categories() {
			out = append(out, CategoryInfo{ID: c.id, Name: c.name, Area: a.bounds})
		}
	}
	return out
}

// ListItems returns a snapshot of the items of one category in ascending
// order.
func (idx *Index) ListItems(categoryID int) ([]types.Item, error) {
	c, err := idx.Category(categoryID)
	if err != nil {
		return nil, err
	}
	return c.Items(), nil
}

func validateCategoryID(id int) error {
	if id < 0 || id >= types.MaxCategories {
		return fmt.Errorf("%w: category %d out of range", types.ErrInvalidID, id)
	}
	return nil
}
