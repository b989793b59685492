package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Numeric limits of an identifier.
const (
	MaxCategories = 100
	MaxItems      = 1000
)

// ID is a Johnny Decimal identifier: a two-digit category and a three-digit
// item number, written CC.III.
type ID struct {
	Category int
	Item     int
}

// ParseID parses the canonical CC.III form. Both halves must be non-negative
// decimal integers, the category below 100 and the item below 1000.
func ParseID(s string) (ID, error) {
	cat, item, ok := strings.Cut(s, ".")
	if !ok || strings.Contains(item, ".") {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}

	c, err := parseUint(cat)
	if err != nil {
		return ID{}, fmt.Errorf("%w: category %q", ErrInvalidID, cat)
	}
	i, err := parseUint(item)
	if err != nil {
		return ID{}, fmt.Errorf("%w: item %q", ErrInvalidID, item)
	}

	id := ID{Category: c, Item: i}
	if err := id.Validate(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// parseUint accepts only ASCII digits, so signs and spaces are rejected.
func parseUint(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// Validate checks the numeric bounds of the identifier.
func (id ID) Validate() error {
	if id.Category < 0 || id.Category >= MaxCategories {
		return fmt.Errorf("%w: category %d out of range", ErrInvalidID, id.Category)
	}
	if id.Item < 0 || id.Item >= MaxItems {
		return fmt.Errorf("%w: item %d out of range", ErrInvalidID, id.Item)
	}
	return nil
}

// String returns the zero-padded CC.III form.
func (id ID) String() string {
	return fmt.Sprintf("%02d.%03d", id.Category, id.Item)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
