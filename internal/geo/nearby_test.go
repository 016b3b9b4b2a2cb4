package geo

import (
	"testing"

	"github.com/fahroox/attendance/internal/attendance"
)

func ptr(f float64) *float64 { return &f }

func TestFindNearbyExactLocationFirst(t *testing.T) {
	studios := []attendance.Studio{
		{ID: "far", Name: "Far Studio", Latitude: ptr(40.7128), Longitude: ptr(-74.0160)},
		{ID: "here", Name: "Here Studio", Latitude: ptr(40.7128), Longitude: ptr(-74.0060)},
	}

	matches := FindNearby(40.7128, -74.0060, studios, DefaultMatchRadius)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Studio.ID != "here" {
		t.Errorf("expected studio 'here' first, got %q", matches[0].Studio.ID)
	}
	if matches[0].DistanceM != 0 {
		t.Errorf("expected distance 0, got %v", matches[0].DistanceM)
	}
}

func TestFindNearbySortsAscending(t *testing.T) {
	studios := []attendance.Studio{
		{ID: "b", Latitude: ptr(40.7131), Longitude: ptr(-74.0060)}, // ~33 m
		{ID: "c", Latitude: ptr(40.7137), Longitude: ptr(-74.0060)}, // ~100 m
		{ID: "a", Latitude: ptr(40.7129), Longitude: ptr(-74.0060)}, // ~11 m
	}

	matches := FindNearby(40.7128, -74.0060, studios, 500)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	gotOrder := []string{matches[0].Studio.ID, matches[1].Studio.ID, matches[2].Studio.ID}
	wantOrder := []string{"a", "b", "c"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", gotOrder, wantOrder)
		}
	}
}

func TestFindNearbyExcludesPartialCoordinates(t *testing.T) {
	studios := []attendance.Studio{
		{ID: "no-coords", Name: "No Coordinates"},
		{ID: "lat-only", Name: "Latitude Only", Latitude: ptr(40.7128)},
		{ID: "lon-only", Name: "Longitude Only", Longitude: ptr(-74.0060)},
		{ID: "complete", Name: "Complete", Latitude: ptr(40.7128), Longitude: ptr(-74.0060)},
	}

	matches := FindNearby(40.7128, -74.0060, studios, 500)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Studio.ID != "complete" {
		t.Errorf("expected only the complete studio, got %q", matches[0].Studio.ID)
	}
}

func TestFindNearbyEmptyResults(t *testing.T) {
	if got := FindNearby(40.7128, -74.0060, nil, 500); len(got) != 0 {
		t.Errorf("expected empty result for empty input, got %d", len(got))
	}

	farAway := []attendance.Studio{
		{ID: "la", Latitude: ptr(34.0522), Longitude: ptr(-118.2437)},
	}
	if got := FindNearby(40.7128, -74.0060, farAway, 500); len(got) != 0 {
		t.Errorf("expected empty result when nothing qualifies, got %d", len(got))
	}
}

func TestFindNearbyThresholdIsInclusive(t *testing.T) {
	studios := []attendance.Studio{
		{ID: "s", Latitude: ptr(40.7137), Longitude: ptr(-74.0060)},
	}
	d := Distance(40.7128, -74.0060, 40.7137, -74.0060)

	if got := FindNearby(40.7128, -74.0060, studios, d); len(got) != 1 {
		t.Errorf("studio exactly at threshold should match")
	}
	if got := FindNearby(40.7128, -74.0060, studios, d-1); len(got) != 0 {
		t.Errorf("studio beyond threshold should not match")
	}
}
