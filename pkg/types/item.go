package types

import "fmt"

// Item is a named, numbered catalog entry.
type Item struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// String returns "CC.III Name", the same text used for item directories.
func (i Item) String() string {
	return fmt.Sprintf("%s %s", i.ID, i.Name)
}

// Bounds is the inclusive category range covered by an area.
type Bounds struct {
	Low  int
	High int
}

// AreaBounds returns the bounds of the area that owns categoryID.
func AreaBounds(categoryID int) Bounds {
	low := (categoryID / 10) * 10
	return Bounds{Low: low, High: low + 9}
}

// Validate checks that the bounds describe one block of ten categories.
func (b Bounds) Validate() error {
	if b.Low < 0 || b.Low >= MaxCategories || b.Low%10 != 0 || b.High != b.Low+9 {
		return fmt.Errorf("%w: %02d-%02d", ErrInvalidBounds, b.Low, b.High)
	}
	return nil
}

// Contains reports whether categoryID falls within the bounds.
func (b Bounds) Contains(categoryID int) bool {
	return categoryID >= b.Low && categoryID <= b.High
}

// Slot returns the position of the area in the index.
func (b Bounds) Slot() int {
	return b.Low / 10
}

// String returns the "LL-HH" form.
func (b Bounds) String() string {
	return fmt.Sprintf("%02d-%02d", b.Low, b.High)
}
