package search

import (
	"fmt"
	"strconv"
	"strings"
)

// Document is the denormalized hotel projection that is indexed and returned by search.
// Distance is never stored; it is attached at response time when the request was
// distance ordered.
type Document struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Price      int      `json:"price"`
	Score      int      `json:"score"`
	Brand      string   `json:"brand"`
	City       string   `json:"city"`
	StarName   string   `json:"starName"`
	Business   string   `json:"business"`
	Location   GeoPoint `json:"location"`
	Pic        string   `json:"pic"`
	IsAD       bool     `json:"isAD"`
	Suggestion []string `json:"suggestion,omitempty"`
	Distance   *float64 `json:"distance,omitempty"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParseGeoPoint parses a "lat,lon" anchor. Whitespace around either coordinate is ignored.
func ParseGeoPoint(s string) (GeoPoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return GeoPoint{}, fmt.Errorf("expected \"lat,lon\", got %q", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("invalid latitude %q: %w", parts[0], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("invalid longitude %q: %w", parts[1], err)
	}

	if lat < -90 || lat > 90 {
		return GeoPoint{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return GeoPoint{}, fmt.Errorf("longitude %v out of range", lon)
	}

	return GeoPoint{Lat: lat, Lon: lon}, nil
}

func (g GeoPoint) String() string {
	return strconv.FormatFloat(g.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(g.Lon, 'f', -1, 64)
}
