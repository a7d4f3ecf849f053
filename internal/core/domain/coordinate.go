package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Coordinate is an ordered (east, north) pair: longitude then latitude,
// both in degrees.
//
// The zero value (0,0) is the sentinel for "unresolved". A real place at
// exactly (0,0) is indistinguishable from a missing one.
type Coordinate struct {
	East  float64
	North float64
}

// Unresolved is the sentinel coordinate.
var Unresolved = Coordinate{}

// NewCoordinate builds a Coordinate from (east, north).
func NewCoordinate(east, north float64) Coordinate {
	return Coordinate{East: east, North: north}
}

// FromNorthEast builds a Coordinate from a (north, east) ordered pair.
func FromNorthEast(north, east float64) Coordinate {
	return Coordinate{East: east, North: north}
}

// IsSentinel returns true for the (0,0) "unresolved" marker.
func (c Coordinate) IsSentinel() bool {
	return c.East == 0 && c.North == 0
}

// InRange returns true if longitude is within [-180,180] and latitude within
// [-90,90]. NaN fails every comparison and is therefore out of range.
func (c Coordinate) InRange() bool {
	return c.East >= -180 && c.East <= 180 && c.North >= -90 && c.North <= 90
}

// IsResolved returns true if the coordinate is in range and not the sentinel.
func (c Coordinate) IsResolved() bool {
	return c.InRange() && !c.IsSentinel()
}

// Pair returns the coordinate as [east, north].
func (c Coordinate) Pair() [2]float64 {
	return [2]float64{c.East, c.North}
}

// String formats the coordinate as "(east, north)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%s, %s)", formatFloat(c.East), formatFloat(c.North))
}

// MarshalJSON encodes the coordinate as a two-element [east, north] array.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	if math.IsNaN(c.East) || math.IsNaN(c.North) || math.IsInf(c.East, 0) || math.IsInf(c.North, 0) {
		return nil, fmt.Errorf("%w: coordinate %v is not finite", ErrInvalidInput, c)
	}
	return json.Marshal(c.Pair())
}

// UnmarshalJSON decodes a two-element [east, north] array.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: expected [east, north], got %d values", ErrInvalidInput, len(pair))
	}
	c.East, c.North = pair[0], pair[1]
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
