package geo

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/L1xtopher/hytempo/internal/trajectory"
)

func TestSiteFromString_ValidWithElevation(t *testing.T) {
	site, err := SiteFromString("11.27,47.99,580.0")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site.Longitude != 11.27 {
		t.Errorf("expected longitude=11.27, got %f", site.Longitude)
	}
	if site.Latitude != 47.99 {
		t.Errorf("expected latitude=47.99, got %f", site.Latitude)
	}
	if site.Elevation != 580.0 {
		t.Errorf("expected elevation=580.0, got %f", site.Elevation)
	}
}

func TestSiteFromString_ValidWithoutElevation(t *testing.T) {
	site, err := SiteFromString("11.27,47.99")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site.Elevation != 0 {
		t.Errorf("expected elevation=0, got %f", site.Elevation)
	}
}

func TestSiteFromString_Invalid(t *testing.T) {
	inputs := []string{"", "11.27", "abc,47.99", "11.27,def", "11.27,47.99,xyz"}
	for _, input := range inputs {
		_, err := SiteFromString(input)
		if !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("expected ErrInvalidCoordinates for %q, got %v", input, err)
		}
	}
}

func TestSiteProjected(t *testing.T) {
	// the 4326->3857 identity point
	site := Site{Longitude: 0, Latitude: 0, Elevation: 100}
	point := site.Projected()

	coords, ok := point.Coordinates()
	if !ok {
		t.Fatal("expected valid coordinates")
	}
	if math.Abs(coords.X) > 1e-6 {
		t.Errorf("expected X=0, got %f", coords.X)
	}
	if math.Abs(coords.Y) > 1e-6 {
		t.Errorf("expected Y=0, got %f", coords.Y)
	}
	if coords.Z != 100 {
		t.Errorf("expected Z=100, got %f", coords.Z)
	}
}

func TestSiteProjected_Positive(t *testing.T) {
	// a point east of Greenwich must project to positive X
	site := Site{Longitude: 11.27, Latitude: 47.99}
	coords, ok := site.Projected().Coordinates()
	if !ok {
		t.Fatal("expected valid coordinates")
	}
	if coords.X <= 0 {
		t.Errorf("expected positive X, got %f", coords.X)
	}
	if coords.Y <= 0 {
		t.Errorf("expected positive Y, got %f", coords.Y)
	}
}

func TestGroundTrack(t *testing.T) {
	site := Site{Longitude: 11.27, Latitude: 47.99, Elevation: 580}
	records := []trajectory.Record{
		{Time: 0, Altitude: 0},
		{Time: 1, Altitude: 120},
		{Time: 2, Altitude: 430},
	}

	ls, err := GroundTrack(site, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seq := ls.Coordinates()
	if seq.Length() != 3 {
		t.Fatalf("expected 3 points, got %d", seq.Length())
	}

	first := seq.Get(0)
	last := seq.Get(2)
	if first.Z != 580 {
		t.Errorf("expected first Z=580, got %f", first.Z)
	}
	if last.Z != 1010 {
		t.Errorf("expected last Z=1010, got %f", last.Z)
	}
	if first.X != last.X || first.Y != last.Y {
		t.Error("expected X/Y fixed at the launch site")
	}
}

func TestGroundTrack_TooFewRecords(t *testing.T) {
	site := Site{Longitude: 11.27, Latitude: 47.99}

	_, err := GroundTrack(site, []trajectory.Record{{Time: 0}})
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestGroundTrackWKT(t *testing.T) {
	site := Site{Longitude: 0, Latitude: 0}
	records := []trajectory.Record{
		{Time: 0, Altitude: 0},
		{Time: 1, Altitude: 100},
	}

	wkt, err := GroundTrackWKT(site, records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(wkt, "LINESTRING") {
		t.Errorf("expected LINESTRING WKT, got %s", wkt)
	}
}
