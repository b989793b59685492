// Package client composes catalog mutations with the physical side effects
// of the resolver responsible for each category. Every mutating operation
// persists the whole catalog; no operation is transactional and Rebuild is
// the way to reconcile the catalog with the backends after a failure.
package client

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jd/internal/catalog"
	store "github.com/mesh-intelligence/jd/internal/objstore"
	"github.com/mesh-intelligence/jd/internal/resolver"
	objresolver "github.com/mesh-intelligence/jd/internal/resolver/objstore"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// Client owns the catalog and the resolver router.
type Client struct {
	cfg       types.Config
	idx       *catalog.Index
	router    *resolver.Router
	fs        afero.Fs
	openStore objresolver.Opener
	closers   []io.Closer
	log       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client and its resolvers.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithFs sets the filesystem holding the catalog file, the disk resolver
// trees and upload sources.
func WithFs(fsys afero.Fs) Option {
	return func(c *Client) { c.fs = fsys }
}

// WithStoreOpener replaces how object store profiles are opened.
func WithStoreOpener(open objresolver.Opener) Option {
	return func(c *Client) { c.openStore = open }
}

// New validates cfg, loads the catalog from cfg.IndexPath and builds the
// resolvers. Overlapping resolver constraints are logged; the first entry
// wins for the shared categories.
func New(cfg types.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg: cfg,
		fs:  afero.NewOsFs(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.openStore == nil {
		c.openStore = c.defaultOpener
	}

	for _, o := range cfg.Overlaps() {
		c.log.Warn("resolver constraints overlap, first entry wins",
			zap.Int("first", o.First),
			zap.String("first_constraint", cfg.Resolvers[o.First].Constraint().String()),
			zap.Int("second", o.Second),
			zap.String("second_constraint", cfg.Resolvers[o.Second].Constraint().String()),
		)
	}

	router, err := c.buildRouter()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.router = router

	idx, err := catalog.Load(c.fs, cfg.IndexPath)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.idx = idx

	c.log.Debug("client ready",
		zap.String("index_path", cfg.IndexPath),
		zap.Int("routes", router.Len()),
	)
	return c, nil
}

// defaultOpener opens a profile from the object store configuration. A
// profile without an explicit path is <dir>/<profile>.db.
func (c *Client) defaultOpener(profile string) (objresolver.Store, error) {
	path := c.cfg.ObjectStore.Profiles[profile].Path
	if path == "" {
		if c.cfg.ObjectStore.Dir == "" {
			return nil, fmt.Errorf("%w: object store profile %q has no path", types.ErrInvalidConfig, profile)
		}
		path = filepath.Join(c.cfg.ObjectStore.Dir, profile+".db")
	}
	s, err := store.Open(path, profile)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the object stores opened by the client.
func (c *Client) Close() error {
	var errs []error
	for _, cl := range c.closers {
		errs = append(errs, cl.Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Index returns the in-memory catalog. Callers must not mutate it.
func (c *Client) Index() *catalog.Index { return c.idx }

// Save persists the catalog.
func (c *Client) Save() error {
	return c.idx.Save(c.fs, c.cfg.IndexPath)
}

// Search returns the items whose name contains q, in no particular order.
func (c *Client) Search(q string) []types.Item {
	return c.idx.Search(q)
}

// ListAreas lists the areas in slot order.
func (c *Client) ListAreas() []catalog.AreaInfo {
	return c.idx.ListAreas()
}

// ListCategories lists every category in id order.
func (c *Client) ListCategories() []catalog.CategoryInfo {
	return c.idx.ListCategories()
}

// ListItems lists the items of a category in slot order.
func (c *Client) ListItems(categoryID int) ([]types.Item, error) {
	return c.idx.ListItems(categoryID)
}

// route returns the resolver responsible for categoryID.
func (c *Client) route(categoryID int) (resolver.Resolver, error) {
	r, ok := c.router.Find(categoryID)
	if !ok {
		return nil, fmt.Errorf("%w: category %02d", types.ErrNoResolver, categoryID)
	}
	return r, nil
}
