package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mesh-intelligence/jd/internal/catalog"
	"github.com/mesh-intelligence/jd/internal/layout"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// categoryView is the JSON shape of a category.
type categoryView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// itemView is the JSON shape of an item.
type itemView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CategoryName string       `json:"category_name"`
	Category     categoryView `json:"category"`
	Location     string       `json:"location,omitempty"`
}

// areaView is the JSON shape of an area listing.
type areaView struct {
	Bounds     string         `json:"bounds"`
	Name       string         `json:"name"`
	Categories []categoryView `json:"categories"`
}

func newItemView(item types.Item, idx *catalog.Index) (itemView, error) {
	cat, err := idx.Category(item.ID.Category)
	if err != nil {
		return itemView{}, err
	}
	return itemView{
		ID:           item.ID.String(),
		Name:         item.Name,
		CategoryName: layout.CategoryName(cat.ID(), cat.Name()),
		Category:     categoryView{ID: cat.ID(), Name: cat.Name()},
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printItem prints one item as text or JSON.
func printItem(w io.Writer, jsonMode bool, item types.Item, idx *catalog.Index) error {
	if !jsonMode {
		_, err := fmt.Fprintln(w, item)
		return err
	}
	v, err := newItemView(item, idx)
	if err != nil {
		return err
	}
	return writeJSON(w, v)
}

// printItems prints a list of items as text lines or a JSON array.
func printItems(w io.Writer, jsonMode bool, items []types.Item, idx *catalog.Index) error {
	if !jsonMode {
		for _, it := range items {
			if _, err := fmt.Fprintln(w, it); err != nil {
				return err
			}
		}
		return nil
	}
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		v, err := newItemView(it, idx)
		if err != nil {
			return err
		}
		views = append(views, v)
	}
	return writeJSON(w, views)
}

// parseCategory parses a category number.
func parseCategory(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= types.MaxCategories {
		return 0, fmt.Errorf("%w: category %q", types.ErrInvalidID, s)
	}
	return n, nil
}
