package catalog

import (
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/jd/pkg/types"
)

// Search returns every item whose name contains query, ignoring case. Areas
// and the categories inside each area are scanned in parallel; the order of
// the result is unspecified.
func (idx *Index) Search(query string) []types.Item {
	q := strings.ToLower(query)

	var partial [areaSlots][]types.Item
	var g errgroup.Group
	for slot, a := range idx.areas {
		if a == nil {
			continue
		}
		g.Go(func() error {
			partial[slot] = a.search(q)
			return nil
		})
	}
	_ = g.Wait()

	var out []types.Item
	for _, p := range partial {
		out = append(out, p...)
	}
	return out
}

func (a *Area) search(q string) []types.Item {
	var partial [categorySlots][]types.Item
	var g errgroup.Group
	for slot, c := range a.categories {
		if c == nil {
			continue
		}
		g.Go(func() error {
			partial[slot] = c.search(q)
			return nil
		})
	}
	_ = g.Wait()

	var out []types.Item
	for _, p := range partial {
		out = append(out, p...)
	}
	return out
}

func (c *Category) search(q string) []types.Item {
	var out []types.Item
	for _, it := range c.items {
		if it != nil && strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, *it)
		}
	}
	return out
}
