package client

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/jd/internal/catalog"
	"github.com/mesh-intelligence/jd/internal/layout"
	"github.com/mesh-intelligence/jd/internal/resolver"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// CreateArea adds an area and persists the catalog.
func (c *Client) CreateArea(bounds types.Bounds, name string) error {
	if _, err := c.idx.CreateArea(bounds, name); err != nil {
		return err
	}
	c.log.Debug("area created", zap.Stringer("bounds", bounds), zap.String("name", name))
	return c.Save()
}

// CreateCategory adds a category and persists the catalog.
func (c *Client) CreateCategory(categoryID int, name string) error {
	if _, err := c.idx.CreateCategory(categoryID, name); err != nil {
		return err
	}
	c.log.Debug("category created", zap.Int("category", categoryID), zap.String("name", name))
	return c.Save()
}

// Allocate reserves an id in the catalog without touching any backend.
func (c *Client) Allocate(categoryID int, name string, explicit *int) (types.Item, error) {
	item, err := c.idx.AllocateItem(categoryID, name, explicit)
	if err != nil {
		return types.Item{}, err
	}
	c.log.Debug("item allocated", zap.Stringer("item", item))
	return item, c.Save()
}

// AddFromPath files the content at source under a new item named after the
// last element of source. The catalog is persisted before the content is
// moved.
func (c *Client) AddFromPath(categoryID int, source string, explicit *int) (types.Item, error) {
	res, err := c.route(categoryID)
	if err != nil {
		return types.Item{}, err
	}
	item, err := c.idx.AllocateItem(categoryID, filepath.Base(filepath.Clean(source)), explicit)
	if err != nil {
		return types.Item{}, err
	}
	if err := c.Save(); err != nil {
		return item, err
	}
	c.log.Debug("adding item", zap.Stringer("item", item), zap.String("source", source))
	if err := res.Set(item, types.Path(source), c.idx); err != nil {
		return item, fmt.Errorf("storing %s: %w", item.ID, err)
	}
	return item, nil
}

// AddURL records a remote item. The resolver is told about the URL before
// the catalog is persisted.
func (c *Client) AddURL(categoryID int, name, url string) (types.Item, error) {
	res, err := c.route(categoryID)
	if err != nil {
		return types.Item{}, err
	}
	item, err := c.idx.AllocateItem(categoryID, name, nil)
	if err != nil {
		return types.Item{}, err
	}
	if err := res.Set(item, types.URL(url), c.idx); err != nil {
		return item, fmt.Errorf("storing %s: %w", item.ID, err)
	}
	c.log.Debug("url item added", zap.Stringer("item", item), zap.String("url", url))
	return item, c.Save()
}

// Relocate moves an item to another category under a newly allocated id and
// moves its content with it. Content that was never materialized is not
// moved.
func (c *Client) Relocate(id types.ID, newCategory int) (types.Item, error) {
	if err := id.Validate(); err != nil {
		return types.Item{}, err
	}
	if newCategory == id.Category {
		return types.Item{}, fmt.Errorf("%w: %s is already in category %02d", types.ErrValidation, id, newCategory)
	}
	src, err := c.route(id.Category)
	if err != nil {
		return types.Item{}, err
	}
	dst, err := c.route(newCategory)
	if err != nil {
		return types.Item{}, err
	}
	if _, err := c.idx.Category(newCategory); err != nil {
		return types.Item{}, err
	}

	old, ok, err := c.idx.RemoveItem(id)
	if err != nil {
		return types.Item{}, err
	}
	if !ok {
		return types.Item{}, fmt.Errorf("%w: %s", types.ErrItemNotFound, id)
	}
	loc, found, err := src.Get(old, c.idx)
	if err != nil {
		return types.Item{}, err
	}
	item, err := c.idx.AllocateItem(newCategory, old.Name, nil)
	if err != nil {
		return types.Item{}, err
	}
	if found {
		c.log.Debug("relocating item", zap.Stringer("from", old), zap.Stringer("to", item), zap.Stringer("location", loc))
		if err := dst.Set(item, loc, c.idx); err != nil {
			return item, fmt.Errorf("relocating %s to %s: %w", old.ID, item.ID, err)
		}
	} else {
		c.log.Warn("item not materialized, catalog entry moved only", zap.Stringer("from", old), zap.Stringer("to", item))
	}
	return item, c.Save()
}

// Rename changes the name of an item, keeping its id, and renames its
// content. A category without a resolver has no content to rename.
func (c *Client) Rename(id types.ID, newName string) (types.Item, error) {
	if err := layout.ValidName(newName); err != nil {
		return types.Item{}, err
	}
	old, ok, err := c.idx.RemoveItem(id)
	if err != nil {
		return types.Item{}, err
	}
	if !ok {
		return types.Item{}, fmt.Errorf("%w: %s", types.ErrItemNotFound, id)
	}
	item, err := c.idx.AllocateItem(id.Category, newName, &id.Item)
	if err != nil {
		return types.Item{}, err
	}
	if res, found := c.router.Find(id.Category); found {
		if err := res.RenameItem(old, item, c.idx); err != nil {
			return item, fmt.Errorf("renaming %s: %w", id, err)
		}
	}
	c.log.Debug("item renamed", zap.Stringer("from", old), zap.Stringer("to", item))
	return item, c.Save()
}

// RenameCategory renames the content of a category before renaming the
// category itself, since resolvers compute the old location from the
// catalog.
func (c *Client) RenameCategory(categoryID int, newName string) error {
	if _, err := c.idx.Category(categoryID); err != nil {
		return err
	}
	if err := layout.ValidName(newName); err != nil {
		return err
	}
	if res, found := c.router.Find(categoryID); found {
		if err := res.RenameCategory(categoryID, newName, c.idx); err != nil {
			return fmt.Errorf("renaming category %02d: %w", categoryID, err)
		}
	}
	if err := c.idx.RenameCategory(categoryID, newName); err != nil {
		return err
	}
	c.log.Debug("category renamed", zap.Int("category", categoryID), zap.String("name", newName))
	return c.Save()
}

// Remove deletes an item from the catalog and its content from the backend.
// Removing an absent item does nothing.
func (c *Client) Remove(id types.ID) error {
	item, ok, err := c.idx.RemoveItem(id)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Debug("nothing to remove", zap.Stringer("id", id))
		return nil
	}
	if res, found := c.router.Find(id.Category); found {
		if err := res.Remove(item, c.idx); err != nil {
			return fmt.Errorf("removing %s: %w", id, err)
		}
	}
	c.log.Debug("item removed", zap.Stringer("item", item))
	return c.Save()
}

// Locate returns where the content of an item lives. ok is false when the
// item is not in the catalog or has not been materialized.
func (c *Client) Locate(id types.ID) (types.Location, bool, error) {
	res, err := c.route(id.Category)
	if err != nil {
		return types.Location{}, false, err
	}
	item, ok, err := c.idx.GetItem(id)
	if err != nil || !ok {
		return types.Location{}, false, err
	}
	return res.Get(item, c.idx)
}

// Fetch returns a location the operating system can open for the item.
// Backends that expose content through their own addressing export a copy
// under dir; the others return what Locate returns.
func (c *Client) Fetch(id types.ID, dir string) (types.Location, bool, error) {
	res, err := c.route(id.Category)
	if err != nil {
		return types.Location{}, false, err
	}
	item, ok, err := c.idx.GetItem(id)
	if err != nil || !ok {
		return types.Location{}, false, err
	}
	ex, isExporter := res.(resolver.Exporter)
	if !isExporter {
		return res.Get(item, c.idx)
	}
	p, ok, err := ex.Export(item, dir)
	if err != nil || !ok {
		return types.Location{}, false, err
	}
	c.log.Debug("item exported", zap.Stringer("item", item), zap.String("path", p))
	return types.Path(p), true, nil
}

// Rebuild discards the catalog and repopulates it from every resolver in
// configuration order, then persists it. On failure the previous catalog is
// kept in memory and on disk.
func (c *Client) Rebuild() error {
	fresh := catalog.New()
	for _, res := range c.router.Resolvers() {
		if err := res.Collect(fresh); err != nil {
			return fmt.Errorf("rebuilding: %w", err)
		}
	}
	c.idx = fresh
	c.log.Debug("catalog rebuilt", zap.Int("areas", len(fresh.ListAreas())))
	return c.Save()
}
