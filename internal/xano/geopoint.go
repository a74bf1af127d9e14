package xano

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var pointRe = regexp.MustCompile(`^POINT\(([^)]+)\)$`)

// GeoPoint is a geographic coordinate pair. The backend has transmitted
// points in two shapes across schema iterations: a "POINT(lng lat)" string
// and a structured {"type":"point","data":{"lng":..,"lat":..}} object. Both
// are decoded here, at the boundary, into this one canonical form; nothing
// deeper in the call chain branches on the wire shape.
type GeoPoint struct {
	Lat float64
	Lng float64
}

type structuredPoint struct {
	Type string `json:"type"`
	Data struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"data"`
}

// ParsePoint parses a "POINT(lng lat)" string. Note the longitude-first
// ordering, following the WKT convention the backend uses.
func ParsePoint(s string) (GeoPoint, bool) {
	m := pointRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return GeoPoint{}, false
	}
	coords := strings.Fields(m[1])
	if len(coords) != 2 {
		return GeoPoint{}, false
	}
	lng, err1 := strconv.ParseFloat(coords[0], 64)
	lat, err2 := strconv.ParseFloat(coords[1], 64)
	if err1 != nil || err2 != nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: lat, Lng: lng}, true
}

// String renders the point in the backend's POINT wire format.
func (p GeoPoint) String() string {
	return fmt.Sprintf("POINT(%s %s)",
		strconv.FormatFloat(p.Lng, 'f', -1, 64),
		strconv.FormatFloat(p.Lat, 'f', -1, 64),
	)
}

// DisplayString renders a "{lat}, {lng}" fallback for coordinate-only
// locations, pending reverse-geocoding enrichment.
func (p GeoPoint) DisplayString() string {
	return fmt.Sprintf("%s, %s",
		strconv.FormatFloat(p.Lat, 'f', -1, 64),
		strconv.FormatFloat(p.Lng, 'f', -1, 64),
	)
}

// UnmarshalJSON accepts both wire encodings. An empty string decodes to the
// zero point with no error so optional fields stay optional.
func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*p = GeoPoint{}
			return nil
		}
		parsed, ok := ParsePoint(s)
		if !ok {
			return fmt.Errorf("malformed POINT string %q", s)
		}
		*p = parsed
		return nil
	}

	var obj structuredPoint
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("geo point is neither a POINT string nor a point object: %w", err)
	}
	*p = GeoPoint{Lat: obj.Data.Lat, Lng: obj.Data.Lng}
	return nil
}

// MarshalJSON always emits the POINT string form, the shape the backend
// accepts on writes.
func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
