// Package objstore materializes catalog items in an object store. Each item
// is a directory blob tagged jd_item; its descendants point back at the item
// through the jd_parent_id field.
package objstore

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jd/internal/catalog"
	"github.com/mesh-intelligence/jd/internal/layout"
	store "github.com/mesh-intelligence/jd/internal/objstore"
	"github.com/mesh-intelligence/jd/internal/resolver"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// Metadata keys and the item tag written on blobs.
const (
	MetaID           = "jd_id"
	MetaName         = "jd_name"
	MetaCategory     = "jd_category"
	MetaCategoryName = "jd_category_name"
	MetaAreaName     = "jd_area_name"
	MetaParentID     = "jd_parent_id"
	ItemTag          = "jd_item"
)

// DefaultWorkers bounds concurrent file uploads.
const DefaultWorkers = 8

// Store is the part of an object store the resolver needs.
type Store interface {
	CreateDirectory(meta store.Meta) (string, error)
	Push(meta store.Meta, r io.Reader) (string, error)
	Query(q store.Query) ([]store.Blob, error)
	UpdateMeta(id string, meta store.Meta) error
	Delete(id string) error
	Content(id string) ([]byte, error)
	URL(id string) string
}

// Opener opens the store for a named profile.
type Opener func(profile string) (Store, error)

// Resolver keeps items in a Store.
type Resolver struct {
	store   Store
	fs      afero.Fs
	workers int
	log     *zap.Logger
}

var (
	_ resolver.Resolver = (*Resolver)(nil)
	_ resolver.Exporter = (*Resolver)(nil)
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithFs sets the filesystem uploads are read from.
func WithFs(fsys afero.Fs) Option {
	return func(r *Resolver) { r.fs = fsys }
}

// WithWorkers sets the number of concurrent file uploads.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// New returns a resolver over s.
func New(s Store, opts ...Option) *Resolver {
	r := &Resolver{
		store:   s,
		fs:      afero.NewOsFs(),
		workers: DefaultWorkers,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(zap.String("resolver", "object_store"))
	return r
}

func (r *Resolver) root(id types.ID) (store.Blob, bool, error) {
	blobs, err := r.store.Query(store.Query{
		Kind:   store.KindDirectory,
		Fields: map[string]string{MetaID: id.String()},
		Tags:   []string{ItemTag},
		Limit:  1,
	})
	if err != nil {
		return store.Blob{}, false, err
	}
	if len(blobs) == 0 {
		return store.Blob{}, false, nil
	}
	return blobs[0], true, nil
}

// Get returns the URL of the item root blob.
func (r *Resolver) Get(item types.Item, _ *catalog.Index) (types.Location, bool, error) {
	b, ok, err := r.root(item.ID)
	if err != nil || !ok {
		return types.Location{}, false, err
	}
	return types.URL(r.store.URL(b.ID)), true, nil
}

// Set uploads the tree at src. A URL source is already remote and is left
// alone.
func (r *Resolver) Set(item types.Item, src types.Location, idx *catalog.Index) error {
	if src.IsURL() {
		r.log.Debug("url source, nothing to upload", zap.String("item", item.String()))
		return nil
	}
	if _, ok, err := r.root(item.ID); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: item %s already in object store", types.ErrTargetExists, item.ID)
	}
	meta, err := rootMeta(item, idx)
	if err != nil {
		return err
	}
	return r.upload(src.Value, item, meta)
}

func rootMeta(item types.Item, idx *catalog.Index) (store.Meta, error) {
	area, err := idx.AreaForCategory(item.ID.Category)
	if err != nil {
		return store.Meta{}, err
	}
	cat, err := idx.Category(item.ID.Category)
	if err != nil {
		return store.Meta{}, err
	}
	return store.Meta{
		Name: layout.ItemName(item),
		Fields: map[string]string{
			MetaID:           item.ID.String(),
			MetaName:         item.Name,
			MetaCategory:     fmt.Sprintf("%02d", item.ID.Category),
			MetaCategoryName: cat.Name(),
			MetaAreaName:     area.Name(),
		},
		Tags: []string{ItemTag},
	}, nil
}

// Remove deletes the item root and every descendant.
func (r *Resolver) Remove(item types.Item, _ *catalog.Index) error {
	var ids []string
	for _, key := range []string{MetaID, MetaParentID} {
		blobs, err := r.store.Query(store.Query{Fields: map[string]string{key: item.ID.String()}})
		if err != nil {
			return err
		}
		for _, b := range blobs {
			ids = append(ids, b.ID)
		}
	}
	r.log.Debug("removing item", zap.String("item", item.String()), zap.Int("blobs", len(ids)))
	for _, id := range ids {
		if err := r.store.Delete(id); err != nil {
			return err
		}
	}
	return nil
}

// Collect adds every stored item to idx, creating areas and categories from
// the names recorded on the root blobs when idx lacks them.
func (r *Resolver) Collect(idx *catalog.Index) error {
	roots, err := r.store.Query(store.Query{Kind: store.KindDirectory, Tags: []string{ItemTag}})
	if err != nil {
		return err
	}
	for _, b := range roots {
		id, err := types.ParseID(b.Meta.Fields[MetaID])
		if err != nil {
			return fmt.Errorf("blob %s: %w", b.ID, err)
		}
		if _, err := idx.EnsureArea(types.AreaBounds(id.Category), b.Meta.Fields[MetaAreaName]); err != nil {
			return fmt.Errorf("blob %s: %w", b.ID, err)
		}
		if _, err := idx.EnsureCategory(id.Category, b.Meta.Fields[MetaCategoryName]); err != nil {
			return fmt.Errorf("blob %s: %w", b.ID, err)
		}
		if err := idx.ImportItem(types.Item{ID: id, Name: b.Meta.Fields[MetaName]}); err != nil {
			return fmt.Errorf("blob %s: %w", b.ID, err)
		}
	}
	r.log.Debug("collected items", zap.Int("items", len(roots)))
	return nil
}

// RenameCategory rewrites the category name recorded on the category's item
// roots.
func (r *Resolver) RenameCategory(categoryID int, newName string, _ *catalog.Index) error {
	roots, err := r.store.Query(store.Query{
		Kind:   store.KindDirectory,
		Fields: map[string]string{MetaCategory: fmt.Sprintf("%02d", categoryID)},
		Tags:   []string{ItemTag},
	})
	if err != nil {
		return err
	}
	for _, b := range roots {
		meta := b.Meta
		meta.Fields[MetaCategoryName] = newName
		if err := r.store.UpdateMeta(b.ID, meta); err != nil {
			return err
		}
	}
	return nil
}

// RenameItem rewrites the root blob of oldItem to describe newItem and moves
// descendants to the new id.
func (r *Resolver) RenameItem(oldItem, newItem types.Item, idx *catalog.Index) error {
	b, ok, err := r.root(oldItem.ID)
	if err != nil {
		return err
	}
	if !ok {
		r.log.Debug("nothing to rename", zap.String("item", oldItem.String()))
		return nil
	}

	meta := b.Meta
	meta.Name = layout.ItemName(newItem)
	meta.Fields[MetaID] = newItem.ID.String()
	meta.Fields[MetaName] = newItem.Name
	if newItem.ID.Category != oldItem.ID.Category {
		fresh, err := rootMeta(newItem, idx)
		if err != nil {
			return err
		}
		meta.Fields = fresh.Fields
	}
	if err := r.store.UpdateMeta(b.ID, meta); err != nil {
		return err
	}
	if newItem.ID == oldItem.ID {
		return nil
	}

	children, err := r.store.Query(store.Query{Fields: map[string]string{MetaParentID: oldItem.ID.String()}})
	if err != nil {
		return err
	}
	for _, c := range children {
		cm := c.Meta
		cm.Fields[MetaParentID] = newItem.ID.String()
		if err := r.store.UpdateMeta(c.ID, cm); err != nil {
			return err
		}
	}
	return nil
}
