package types

import (
	"errors"
	"fmt"
)

// Config holds everything the catalog client needs: where the catalog is
// persisted and the ordered list of resolvers. Order is significant, the first
// resolver whose constraint matches a category owns it.
type Config struct {
	IndexPath   string            `mapstructure:"index_path" yaml:"index_path"`
	Resolvers   []ResolverConfig  `mapstructure:"resolvers" yaml:"resolvers"`
	ObjectStore ObjectStoreConfig `mapstructure:"object_store" yaml:"object_store,omitempty"`
}

// Backend names, used as configuration keys.
const (
	BackendDisk        = "disk"
	BackendGitHub      = "github"
	BackendObjectStore = "object_store"
)

// ResolverConfig binds one backend to either a single category or an
// inclusive range of categories. Exactly one constraint and exactly one
// backend must be set.
type ResolverConfig struct {
	Category *int   `mapstructure:"category" yaml:"category,omitempty"`
	Range    *Range `mapstructure:"range" yaml:"range,omitempty"`

	Disk        *DiskConfig        `mapstructure:"disk" yaml:"disk,omitempty"`
	GitHub      *GitHubConfig      `mapstructure:"github" yaml:"github,omitempty"`
	ObjectStore *ObjectStoreTarget `mapstructure:"object_store" yaml:"object_store,omitempty"`
}

// Range is an inclusive category range.
type Range struct {
	From int `mapstructure:"from" yaml:"from"`
	To   int `mapstructure:"to" yaml:"to"`
}

// DiskConfig roots a disk resolver.
type DiskConfig struct {
	Root string `mapstructure:"root" yaml:"root"`
}

// GitHubConfig binds a remote-repository resolver to one area.
type GitHubConfig struct {
	Area    int    `mapstructure:"area" yaml:"area"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// ObjectStoreTarget names the object store profile a resolver uploads to.
type ObjectStoreTarget struct {
	Profile string `mapstructure:"profile" yaml:"profile"`
}

// ObjectStoreConfig locates object store profiles. A profile without an
// explicit path lives in Dir as <profile>.db.
type ObjectStoreConfig struct {
	Dir      string                   `mapstructure:"dir" yaml:"dir,omitempty"`
	Profiles map[string]ProfileConfig `mapstructure:"profiles" yaml:"profiles,omitempty"`
}

// ProfileConfig is the storage location of one object store profile.
type ProfileConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Constraint is the inclusive category range a resolver answers for. A
// single-category constraint has Low == High.
type Constraint struct {
	Low  int
	High int
}

// Matches reports whether categoryID satisfies the constraint.
func (c Constraint) Matches(categoryID int) bool {
	return categoryID >= c.Low && categoryID <= c.High
}

// Overlaps reports whether some category satisfies both constraints.
func (c Constraint) Overlaps(o Constraint) bool {
	return c.Low <= o.High && o.Low <= c.High
}

func (c Constraint) String() string {
	if c.Low == c.High {
		return fmt.Sprintf("%02d", c.Low)
	}
	return fmt.Sprintf("%02d..%02d", c.Low, c.High)
}

// Constraint returns the routing constraint of the entry. It assumes the
// entry has been validated.
func (r ResolverConfig) Constraint() Constraint {
	if r.Category != nil {
		return Constraint{Low: *r.Category, High: *r.Category}
	}
	if r.Range != nil {
		return Constraint{Low: r.Range.From, High: r.Range.To}
	}
	return Constraint{Low: -1, High: -2}
}

// Backend returns the backend key of the entry, or "" when none is set.
func (r ResolverConfig) Backend() string {
	switch {
	case r.Disk != nil:
		return BackendDisk
	case r.GitHub != nil:
		return BackendGitHub
	case r.ObjectStore != nil:
		return BackendObjectStore
	}
	return ""
}

// Configuration validation errors.
var (
	ErrIndexPathEmpty      = fmt.Errorf("%w: index path must not be empty", ErrInvalidConfig)
	ErrConstraintMissing   = fmt.Errorf("%w: resolver needs a category or a range", ErrInvalidConfig)
	ErrConstraintAmbiguous = fmt.Errorf("%w: resolver has both a category and a range", ErrInvalidConfig)
	ErrConstraintRange     = fmt.Errorf("%w: resolver constraint out of range", ErrInvalidConfig)
	ErrBackendMissing      = fmt.Errorf("%w: resolver needs exactly one backend", ErrInvalidConfig)
	ErrBackendIncomplete   = fmt.Errorf("%w: resolver backend is incomplete", ErrInvalidConfig)
)

// Validate checks one resolver entry.
func (r ResolverConfig) Validate() error {
	switch {
	case r.Category == nil && r.Range == nil:
		return ErrConstraintMissing
	case r.Category != nil && r.Range != nil:
		return ErrConstraintAmbiguous
	}

	c := r.Constraint()
	if c.Low < 0 || c.High >= MaxCategories || c.Low > c.High {
		return fmt.Errorf("%w: %s", ErrConstraintRange, c)
	}

	n := 0
	for _, set := range []bool{r.Disk != nil, r.GitHub != nil, r.ObjectStore != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return ErrBackendMissing
	}

	switch {
	case r.Disk != nil && r.Disk.Root == "":
		return fmt.Errorf("%w: disk root is empty", ErrBackendIncomplete)
	case r.GitHub != nil && (r.GitHub.Area < 0 || r.GitHub.Area >= MaxCategories):
		return fmt.Errorf("%w: github area %d", ErrBackendIncomplete, r.GitHub.Area)
	case r.ObjectStore != nil && r.ObjectStore.Profile == "":
		return fmt.Errorf("%w: object store profile is empty", ErrBackendIncomplete)
	}
	return nil
}

// Validate checks that the Config is well-formed. Overlapping constraints are
// legal (first match wins) and are reported by Overlaps instead.
func (c Config) Validate() error {
	if c.IndexPath == "" {
		return ErrIndexPathEmpty
	}
	var errs []error
	for i, r := range c.Resolvers {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("resolver %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Overlap names two resolver entries, by position, whose constraints share at
// least one category. Only First will ever be used for the shared categories.
type Overlap struct {
	First  int
	Second int
}

// Overlaps lists every pair of overlapping resolver constraints in
// configuration order.
func (c Config) Overlaps() []Overlap {
	var out []Overlap
	for i := range c.Resolvers {
		for j := i + 1; j < len(c.Resolvers); j++ {
			if c.Resolvers[i].Constraint().Overlaps(c.Resolvers[j].Constraint()) {
				out = append(out, Overlap{First: i, Second: j})
			}
		}
	}
	return out
}
