package domain

import (
	"context"
	"log/slog"
)

// Map defaults for the whole-state view.
const (
	DefaultMapZoom = 6.5
	CityMapZoom    = 11.0
	StateCode      = "PE"

	// EmptyViewPlaceholder replaces charts when no record survives the filters.
	EmptyViewPlaceholder = "Select at least one region, city or neighborhood to view the distribution."
)

// DefaultMapCenter is the geographic center used for the whole-state view.
var DefaultMapCenter = Geo{Lat: -8.3, Lon: -37.9}

// Center sources reported on a MapView.
const (
	CenterDefault  = "default"
	CenterGeocoded = "geocoded"
	CenterFailed   = "failed"
)

// MapPoint is one incident marker.
type MapPoint struct {
	ID           string       `json:"id"`
	Geo          Geo          `json:"geo"`
	Type         IncidentType `json:"type"`
	Neighborhood string       `json:"neighborhood"`
}

// MapView is the data behind the spatial distribution map.
type MapView struct {
	Center       Geo        `json:"center"`
	Zoom         float64    `json:"zoom"`
	CenterSource string     `json:"center_source"`
	Points       []MapPoint `json:"points"`
	Placeholder  string     `json:"placeholder,omitempty"`
}

// BuildMapView places records on the map. When exactly one city is selected
// and a geocoder is available the map centers on that city; lookup failures
// fall back to the default center (graceful degradation).
func BuildMapView(ctx context.Context, records []Record, cities []string, geocoder Geocoder, logger *slog.Logger) MapView {
	view := MapView{
		Center:       DefaultMapCenter,
		Zoom:         DefaultMapZoom,
		CenterSource: CenterDefault,
		Points:       make([]MapPoint, 0, len(records)),
	}

	if len(records) == 0 {
		view.Placeholder = EmptyViewPlaceholder
		return view
	}

	for _, r := range records {
		view.Points = append(view.Points, MapPoint{
			ID:           r.ID,
			Geo:          r.Geo,
			Type:         r.Type,
			Neighborhood: r.Neighborhood,
		})
	}

	if geocoder == nil || len(cities) != 1 {
		return view
	}

	city := cities[0]
	result, err := geocoder.ForwardGeocode(ctx, city, StateCode)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"city", city,
			"state", StateCode,
			"error", err,
		)
		view.CenterSource = CenterFailed
		return view
	}
	if result.Lat == 0 && result.Lon == 0 {
		return view
	}

	view.Center = Geo{Lat: result.Lat, Lon: result.Lon}
	view.Zoom = CityMapZoom
	view.CenterSource = CenterGeocoded
	return view
}
