package services

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/custodia-labs/placemap/internal/core/domain"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0088

// DistanceFunc measures the distance between two coordinates.
type DistanceFunc func(a, b domain.Coordinate) float64

// PlanarDistance is the Euclidean distance in degrees over (east, north).
func PlanarDistance(a, b domain.Coordinate) float64 {
	return math.Hypot(a.East-b.East, a.North-b.North)
}

// GreatCircleDistance is the distance along the Earth's surface in kilometres.
func GreatCircleDistance(a, b domain.Coordinate) float64 {
	pa := s2.LatLngFromDegrees(a.North, a.East)
	pb := s2.LatLngFromDegrees(b.North, b.East)
	return angleToKm(pa.Distance(pb))
}

func angleToKm(a s1.Angle) float64 {
	return a.Radians() * EarthRadiusKm
}

// DistanceFor returns the distance function for metric.
func DistanceFor(metric domain.IsolationMetric) (DistanceFunc, error) {
	switch metric {
	case domain.IsolationPlanar:
		return PlanarDistance, nil
	case domain.IsolationGreatCircle:
		return GreatCircleDistance, nil
	default:
		return nil, fmt.Errorf("%w: isolation metric %q", domain.ErrUnsupportedType, metric)
	}
}

// ComputeIsolation sets each resolved record's Isolation to the distance to
// its nearest other resolved record. Unresolved records, and every record
// when fewer than two are resolved, get nil.
func ComputeIsolation(records []domain.LocationRecord, metric domain.IsolationMetric) error {
	dist, err := DistanceFor(metric)
	if err != nil {
		return err
	}

	var resolved []int
	for i := range records {
		records[i].Isolation = nil
		if records[i].Coordinate.IsResolved() {
			resolved = append(resolved, i)
		}
	}
	if len(resolved) < 2 {
		return nil
	}

	for _, i := range resolved {
		nearest := math.Inf(1)
		for _, j := range resolved {
			if i == j {
				continue
			}
			if d := dist(records[i].Coordinate, records[j].Coordinate); d < nearest {
				nearest = d
			}
		}
		v := nearest
		records[i].Isolation = &v
	}
	return nil
}
