package geojson

import "encoding/json"

// Property keys read from and written to features.
const (
	propURL              = "google_maps_url"
	propLocation         = "location"
	propDate             = "date"
	propIsolation        = "isolation"
	propCoordinateSource = "coordinate_source"

	typeFeatureCollection = "FeatureCollection"
	typeFeature           = "Feature"
	typePoint             = "Point"
)

// featureCollection is the top-level GeoJSON object.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// feature is a single place. Geometry is kept raw on input so a malformed
// coordinate degrades the record instead of failing the whole file.
type feature struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// geometry is a GeoJSON Point.
type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// outputFeature is a feature as written for the renderer.
type outputFeature struct {
	Type       string         `json:"type"`
	Geometry   *geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type outputCollection struct {
	Type     string          `json:"type"`
	Features []outputFeature `json:"features"`
}
