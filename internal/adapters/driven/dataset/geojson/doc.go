// Package geojson reads Google Takeout "Saved Places.json" exports and writes
// the enriched dataset as a GeoJSON FeatureCollection.
//
// On input the feature geometry is taken as the record's direct coordinate
// field, stored (north, east). On output geometry is always [east, north]
// and each feature gains "coordinate_source" and, when defined, "isolation".
package geojson
