// Package github maps the categories of one area onto organizations of a
// source hosting service and items onto repositories:
// <base url>/<category name>/<item name>.
package github

import (
	"fmt"
	"net/url"

	"github.com/mesh-intelligence/jd/internal/catalog"
	"github.com/mesh-intelligence/jd/internal/resolver"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "https://github.com"

// Resolver answers for the categories of one area.
type Resolver struct {
	area    types.Bounds
	baseURL string
}

var _ resolver.Resolver = (*Resolver)(nil)

// New returns a resolver for the area containing category area. An empty
// baseURL selects DefaultBaseURL.
func New(area int, baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Resolver{area: types.AreaBounds(area), baseURL: baseURL}
}

// Get returns the repository URL of item. Every item in the area is assumed
// to exist remotely.
func (r *Resolver) Get(item types.Item, idx *catalog.Index) (types.Location, bool, error) {
	if !r.area.Contains(item.ID.Category) {
		return types.Location{}, false, fmt.Errorf("%w: category %02d is outside area %s", types.ErrValidation, item.ID.Category, r.area)
	}
	cat, err := idx.Category(item.ID.Category)
	if err != nil {
		return types.Location{}, false, err
	}
	u, err := url.JoinPath(r.baseURL, cat.Name(), item.Name)
	if err != nil {
		return types.Location{}, false, fmt.Errorf("%w: base url %q: %w", types.ErrInvalidConfig, r.baseURL, err)
	}
	return types.URL(u), true, nil
}

// Set does nothing; repositories are created on the host.
func (r *Resolver) Set(types.Item, types.Location, *catalog.Index) error { return nil }

// Remove does nothing; remote repositories are never deleted.
func (r *Resolver) Remove(types.Item, *catalog.Index) error { return nil }

// Collect does nothing; listing repositories needs the host API.
func (r *Resolver) Collect(*catalog.Index) error { return nil }

func (r *Resolver) RenameCategory(categoryID int, _ string, _ *catalog.Index) error {
	return fmt.Errorf("%w: renaming organization for category %02d", types.ErrUnsupported, categoryID)
}

func (r *Resolver) RenameItem(oldItem, _ types.Item, _ *catalog.Index) error {
	return fmt.Errorf("%w: renaming repository for %s", types.ErrUnsupported, oldItem.ID)
}
