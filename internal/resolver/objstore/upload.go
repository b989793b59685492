package objstore

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	store "github.com/mesh-intelligence/jd/internal/objstore"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// pending is a local path waiting to be stored under parent.
type pending struct {
	path   string
	parent string
}

// upload stores the tree at src under a new root blob. Directories are walked
// depth first from an explicit stack and created before their children are
// queued, so every parent id exists when a child references it. Files go to a
// bounded pool. The first failure is returned after in-flight uploads finish.
func (r *Resolver) upload(src string, item types.Item, meta store.Meta) error {
	info, err := r.fs.Stat(src)
	if err != nil {
		return types.IOError("stat source", err)
	}

	rootID, err := r.store.CreateDirectory(meta)
	if err != nil {
		return err
	}
	r.log.Debug("created item root", zap.String("item", item.String()), zap.String("blob", rootID))

	parentID := item.ID.String()
	var g errgroup.Group
	g.SetLimit(r.workers)

	if !info.IsDir() {
		r.pushFile(&g, pending{path: src, parent: rootID}, parentID)
		return g.Wait()
	}

	stack := []pending{{path: src, parent: rootID}}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := afero.ReadDir(r.fs, dir.path)
		if err != nil {
			_ = g.Wait()
			return types.IOError("reading "+dir.path, err)
		}
		for _, e := range entries {
			p := pending{path: filepath.Join(dir.path, e.Name()), parent: dir.parent}
			if !e.IsDir() {
				r.pushFile(&g, p, parentID)
				continue
			}
			id, err := r.store.CreateDirectory(store.Meta{
				Name:   e.Name(),
				Parent: dir.parent,
				Fields: map[string]string{MetaParentID: parentID},
			})
			if err != nil {
				_ = g.Wait()
				return err
			}
			stack = append(stack, pending{path: p.path, parent: id})
		}
	}
	return g.Wait()
}

// pushFile schedules one file upload. Go blocks while the pool is full.
func (r *Resolver) pushFile(g *errgroup.Group, p pending, parentID string) {
	g.Go(func() error {
		f, err := r.fs.Open(p.path)
		if err != nil {
			return types.IOError("opening "+p.path, err)
		}
		defer f.Close()

		id, err := r.store.Push(store.Meta{
			Name:   filepath.Base(p.path),
			Parent: p.parent,
			Fields: map[string]string{MetaParentID: parentID},
		}, f)
		if err != nil {
			return fmt.Errorf("uploading %s: %w", p.path, err)
		}
		r.log.Debug("uploaded file", zap.String("path", p.path), zap.String("blob", id))
		return nil
	})
}
