// Package layout implements the directory naming convention used to lay a
// catalog out on disk:
//
//	<root>/LL-HH Area name/CC Category name/CC.III Item name/
//
// Parse functions check both the grammar of a name and its consistency with
// the enclosing directory; Build functions are their inverse.
package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/mesh-intelligence/jd/pkg/types"
)

var (
	areaRe     = regexp.MustCompile(`^(\d\d)-(\d\d) (.+)$`)
	categoryRe = regexp.MustCompile(`^(\d\d) (.+)$`)
	itemRe     = regexp.MustCompile(`^(\d\d)\.(\d\d\d) (.+)$`)
)

// IsHidden reports whether a directory entry should be ignored while
// scanning.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// ValidName reports whether name can be the display part of a directory
// name and survive a build/parse round trip. Empty names, path separators,
// control characters and a leading dot are rejected.
func ValidName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", types.ErrInvalidDirName)
	case IsHidden(name):
		return fmt.Errorf("%w: name %q starts with a dot", types.ErrInvalidDirName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: name %q contains a path separator", types.ErrInvalidDirName, name)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return fmt.Errorf("%w: name %q contains a control character", types.ErrInvalidDirName, name)
	}
	return nil
}

// ParseAreaName parses "LL-HH Name".
func ParseAreaName(s string) (types.Bounds, string, error) {
	m := areaRe.FindStringSubmatch(s)
	if m == nil {
		return types.Bounds{}, "", fmt.Errorf("%w: area %q", types.ErrInvalidDirName, s)
	}
	b := types.Bounds{Low: atoi(m[1]), High: atoi(m[2])}
	if err := b.Validate(); err != nil {
		return types.Bounds{}, "", fmt.Errorf("%w: area %q: %w", types.ErrInvalidDirName, s, err)
	}
	if err := ValidName(m[3]); err != nil {
		return types.Bounds{}, "", fmt.Errorf("area %q: %w", s, err)
	}
	return b, m[3], nil
}

// ParseCategoryName parses "CC Name" found inside the area with the given
// bounds.
func ParseCategoryName(s string, area types.Bounds) (int, string, error) {
	m := categoryRe.FindStringSubmatch(s)
	if m == nil {
		return 0, "", fmt.Errorf("%w: category %q", types.ErrInvalidDirName, s)
	}
	id := atoi(m[1])
	if !area.Contains(id) {
		return 0, "", fmt.Errorf("%w: category %q outside area %s", types.ErrInvalidDirName, s, area)
	}
	if err := ValidName(m[2]); err != nil {
		return 0, "", fmt.Errorf("category %q: %w", s, err)
	}
	return id, m[2], nil
}

// ParseItemName parses "CC.III Name" found inside category categoryID.
func ParseItemName(s string, categoryID int) (types.Item, error) {
	m := itemRe.FindStringSubmatch(s)
	if m == nil {
		return types.Item{}, fmt.Errorf("%w: item %q", types.ErrInvalidDirName, s)
	}
	id := types.ID{Category: atoi(m[1]), Item: atoi(m[2])}
	if id.Category != categoryID {
		return types.Item{}, fmt.Errorf("%w: item %q outside category %02d", types.ErrInvalidDirName, s, categoryID)
	}
	if err := ValidName(m[3]); err != nil {
		return types.Item{}, fmt.Errorf("item %q: %w", s, err)
	}
	return types.Item{ID: id, Name: m[3]}, nil
}

// AreaName builds the directory name of an area.
func AreaName(b types.Bounds, name string) string {
	return fmt.Sprintf("%s %s", b, name)
}

// CategoryName builds the directory name of a category.
func CategoryName(id int, name string) string {
	return fmt.Sprintf("%02d %s", id, name)
}

// ItemName builds the directory name of an item.
func ItemName(item types.Item) string {
	return item.String()
}

// atoi converts a string the regular expressions already proved to be
// digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
