package geo

import (
	"errors"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/L1xtopher/hytempo/internal/trajectory"
)

// Launch sites are configured in WGS84 (EPSG 4326) since that is what maps
// and GPS receivers speak. Exported geometries are Web Mercator (EPSG 3857)
// so they drop straight onto a slippy map. Altitude rides along as Z and is
// never projected.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Site is a launch site in WGS84 coordinates with elevation above sea level
// in meters.
type Site struct {
	Longitude float64
	Latitude  float64
	Elevation float64
}

// SiteFromString parses a string in the format "long,lat" or
// "long,lat,elev" into a launch site.
func SiteFromString(coords string) (Site, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) < 2 {
		return Site{}, ErrInvalidCoordinates
	}

	long, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return Site{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return Site{}, ErrInvalidCoordinates
	}

	var elev float64
	if len(coordsSplit) > 2 {
		elev, err = strconv.ParseFloat(strings.TrimSpace(coordsSplit[2]), 64)
		if err != nil {
			return Site{}, ErrInvalidCoordinates
		}
	}

	return Site{Longitude: long, Latitude: lat, Elevation: elev}, nil
}

// Projected returns the site as an EPSG 3857 point with the elevation as Z.
func (s Site) Projected() geom.Point {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(s.Longitude, s.Latitude, 0)

	return geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: x, Y: y},
			Z:    s.Elevation,
			Type: geom.DimXYZ,
		},
	)
}

// GroundTrack traces a flight over its launch site as an EPSG 3857
// LineString. The dynamics are vertical, so X and Y stay at the projected
// site and Z carries the altitude above sea level per record. Needs at
// least two records.
func GroundTrack(site Site, records []trajectory.Record) (geom.LineString, error) {
	if len(records) < 2 {
		return geom.LineString{}, ErrInvalidCoordinates
	}

	point := site.Projected()
	coords, ok := point.Coordinates()
	if !ok {
		return geom.LineString{}, ErrInvalidCoordinates
	}

	flat := make([]float64, 0, len(records)*3)
	for _, r := range records {
		flat = append(flat, coords.X, coords.Y, site.Elevation+r.Altitude)
	}

	seq := geom.NewSequence(flat, geom.DimXYZ)
	return geom.NewLineString(seq), nil
}

// GroundTrackWKT renders the flight track as WKT for map display.
func GroundTrackWKT(site Site, records []trajectory.Record) (string, error) {
	ls, err := GroundTrack(site, records)
	if err != nil {
		return "", err
	}
	return ls.AsText(), nil
}
