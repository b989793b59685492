package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/jd/pkg/types"
)

// JSON records for the persisted catalog. Tables are written at full length
// with null for free slots, so positions survive a reload unchanged.

type indexJSON struct {
	Areas []*areaJSON `json:"areas"`
}

type areaJSON struct {
	Bounds     [2]int          `json:"bounds"`
	Name       string          `json:"name"`
	Categories []*categoryJSON `json:"categories"`
}

type categoryJSON struct {
	ID    int           `json:"id"`
	Name  string        `json:"name"`
	Items []*types.Item `json:"items"`
}

// MarshalJSON implements json.Marshaler.
func (idx *Index) MarshalJSON() ([]byte, error) {
	rec := indexJSON{Areas: make([]*areaJSON, areaSlots)}
	for i, a := range idx.areas {
		if a == nil {
			continue
		}
		ar := &areaJSON{
			Bounds:     [2]int{a.bounds.Low, a.bounds.High},
			Name:       a.name,
			Categories: make([]*categoryJSON, categorySlots),
		}
		for j, c := range a.categories {
			if c == nil {
				continue
			}
			cr := &categoryJSON{ID: c.id, Name: c.name, Items: make([]*types.Item, types.MaxItems)}
			for k, it := range c.items {
				if it != nil {
					cp := *it
					cr.Items[k] = &cp
				}
			}
			ar.Categories[j] = cr
		}
		rec.Areas[i] = ar
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler. Every structural invariant is
// checked again, so a hand-edited file cannot smuggle an item into the wrong
// slot.
func (idx *Index) UnmarshalJSON(data []byte) error {
	var rec indexJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: decoding catalog: %w", types.ErrValidation, err)
	}
	if len(rec.Areas) != areaSlots {
		return fmt.Errorf("%w: catalog has %d area slots, want %d", types.ErrValidation, len(rec.Areas), areaSlots)
	}

	fresh := New()
	for i, ar := range rec.Areas {
		if ar == nil {
			continue
		}
		bounds := types.Bounds{Low: ar.Bounds[0], High: ar.Bounds[1]}
		if err := bounds.Validate(); err != nil {
			return err
		}
		if bounds.Slot() != i {
			return fmt.Errorf("%w: area %s stored in slot %d", types.ErrValidation, bounds, i)
		}
		if len(ar.Categories) != categorySlots {
			return fmt.Errorf("%w: area %s has %d category slots, want %d", types.ErrValidation, bounds, len(ar.Categories), categorySlots)
		}
		a, err := fresh.CreateArea(bounds, ar.Name)
		if err != nil {
			return err
		}
		for j, cr := range ar.Categories {
			if cr == nil {
				continue
			}
			if cr.ID%categorySlots != j {
				return fmt.Errorf("%w: category %02d stored in slot %d", types.ErrValidation, cr.ID, j)
			}
			c, err := a.createCategory(cr.ID, cr.Name)
			if err != nil {
				return err
			}
			if len(cr.Items) != types.MaxItems {
				return fmt.Errorf("%w: category %02d has %d item slots, want %d", types.ErrValidation, cr.ID, len(cr.Items), types.MaxItems)
			}
			for k, it := range cr.Items {
				if it == nil {
					continue
				}
				if it.ID.Item != k {
					return fmt.Errorf("%w: item %s stored in slot %d", types.ErrValidation, it.ID, k)
				}
				if err := c.put(*it); err != nil {
					return err
				}
			}
		}
	}

	*idx = *fresh
	return nil
}
