package domain

// CoordinateSource records where a record's coordinate came from.
type CoordinateSource string

// Coordinate provenance values.
const (
	// SourceURL means the coordinate was parsed from the q= parameter.
	SourceURL CoordinateSource = "url"

	// SourceDirect means the record's own (north, east) field was used.
	SourceDirect CoordinateSource = "direct"

	// SourceCache means the coordinate was already cached before this run.
	SourceCache CoordinateSource = "cache"

	// SourceResolved means the coordinate was fetched during this run.
	SourceResolved CoordinateSource = "resolved"

	// SourceUnresolved means no coordinate could be found.
	SourceUnresolved CoordinateSource = "unresolved"
)

// String returns the string representation.
func (s CoordinateSource) String() string {
	return string(s)
}

// LocationRecord is one saved place from the location export.
// Identity is the reference URL. Records are read once and only their
// coordinate fields change afterwards.
type LocationRecord struct {
	// URL is the reference URL and the record's identity.
	URL string

	// Direct is the record's own coordinate field, stored (north, east).
	// Nil or malformed when the export carries none.
	Direct []float64

	// Name is the human-readable place name.
	Name string

	// Address is the formatted address, if any.
	Address string

	// CountryCode is the ISO country code, if any.
	CountryCode string

	// Date is when the place was saved, as exported.
	Date string

	// Properties holds the export's properties verbatim.
	Properties map[string]any

	// Coordinate is the current (east, north) position; Unresolved until
	// extraction or merge assigns one.
	Coordinate Coordinate

	// Source is the provenance of Coordinate.
	Source CoordinateSource

	// Isolation is the distance to the nearest other resolved record.
	// Nil when undefined.
	Isolation *float64
}

// NeedsResolution returns true if the record still carries the sentinel.
func (r *LocationRecord) NeedsResolution() bool {
	return r.Coordinate.IsSentinel()
}

// DisplayName returns the name, falling back to the URL.
func (r *LocationRecord) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.URL
}
