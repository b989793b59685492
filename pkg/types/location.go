package types

// LocationKind distinguishes filesystem paths from remote URLs.
type LocationKind int

const (
	LocationPath LocationKind = iota
	LocationURL
)

// Location is where the content of an item physically lives. Locations are
// produced by resolvers and are never stored in the catalog.
type Location struct {
	Kind  LocationKind
	Value string
}

// Path returns a filesystem location.
func Path(p string) Location {
	return Location{Kind: LocationPath, Value: p}
}

// URL returns a remote location.
func URL(u string) Location {
	return Location{Kind: LocationURL, Value: u}
}

// IsPath reports whether the location is a filesystem path.
func (l Location) IsPath() bool { return l.Kind == LocationPath }

// IsURL reports whether the location is a remote URL.
func (l Location) IsURL() bool { return l.Kind == LocationURL }

func (l Location) String() string {
	return l.Value
}
