package client

import (
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/jd/internal/resolver"
	"github.com/mesh-intelligence/jd/internal/resolver/disk"
	"github.com/mesh-intelligence/jd/internal/resolver/github"
	objresolver "github.com/mesh-intelligence/jd/internal/resolver/objstore"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// buildRouter turns the resolver configuration into routes in configuration
// order. Entries naming the same disk root or object store profile share one
// resolver so Rebuild collects each backend once.
func (c *Client) buildRouter() (*resolver.Router, error) {
	router := resolver.NewRouter()
	disks := make(map[string]*disk.Resolver)
	stores := make(map[string]*objresolver.Resolver)

	for i, rc := range c.cfg.Resolvers {
		var res resolver.Resolver
		switch rc.Backend() {
		case types.BackendDisk:
			root := filepath.Clean(rc.Disk.Root)
			d, ok := disks[root]
			if !ok {
				d = disk.New(c.fs, root, c.log)
				disks[root] = d
			}
			res = d

		case types.BackendGitHub:
			res = github.New(rc.GitHub.Area, rc.GitHub.BaseURL)

		case types.BackendObjectStore:
			profile := rc.ObjectStore.Profile
			o, ok := stores[profile]
			if !ok {
				s, err := c.openStore(profile)
				if err != nil {
					return nil, fmt.Errorf("resolver %d: %w", i, err)
				}
				if cl, ok := s.(io.Closer); ok {
					c.closers = append(c.closers, cl)
				}
				o = objresolver.New(s, objresolver.WithFs(c.fs), objresolver.WithLogger(c.log))
				stores[profile] = o
			}
			res = o

		default:
			return nil, fmt.Errorf("resolver %d: %w", i, types.ErrBackendMissing)
		}

		router.Add(rc.Constraint(), res)
		c.log.Debug("route added",
			zap.Int("entry", i),
			zap.String("constraint", rc.Constraint().String()),
			zap.String("backend", rc.Backend()),
		)
	}
	return router, nil
}
