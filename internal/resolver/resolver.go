// Package resolver defines the contract between the catalog and the
// backends where item content physically lives, and the router that picks
// the backend responsible for a category.
package resolver

import (
	"github.com/mesh-intelligence/jd/internal/catalog"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// Resolver materializes catalog entries on one backend and answers where an
// item lives. Every method receives the current catalog so a backend can
// derive names (area, category) it does not store itself.
type Resolver interface {
	// Get returns the current location of item, or ok == false when the item
	// has not been materialized.
	Get(item types.Item, idx *catalog.Index) (loc types.Location, ok bool, err error)

	// Set materializes item at the location implied by its catalog position,
	// moving or copying the content found at src.
	Set(item types.Item, src types.Location, idx *catalog.Index) error

	// Remove deletes the materialization of item.
	Remove(item types.Item, idx *catalog.Index) error

	// Collect rescans the backend and adds the areas, categories and items
	// it finds to idx.
	Collect(idx *catalog.Index) error

	// RenameCategory relocates content to match a new category name. idx
	// still carries the old name when this is called.
	RenameCategory(categoryID int, newName string, idx *catalog.Index) error

	// RenameItem relocates the content of oldItem to match newItem.
	RenameItem(oldItem, newItem types.Item, idx *catalog.Index) error
}

// Exporter is implemented by resolvers whose locations cannot be handed to
// the operating system directly. Export copies the content of item into dir
// and returns the local path of the copy, or ok == false when the item has
// not been materialized.
type Exporter interface {
	Export(item types.Item, dir string) (path string, ok bool, err error)
}
