package server

import (
	"encoding/json"
	"math"
	"net/http"
	"testing"
)

func TestPublicStudioList(t *testing.T) {
	r, _ := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/studios", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var studios []StudioResponse
	json.NewDecoder(w.Body).Decode(&studios)
	if len(studios) != 2 {
		t.Fatalf("expected 2 studios, got %d", len(studios))
	}
}

func TestCreateStudioRequiresAdmin(t *testing.T) {
	r, _ := setupTestServer(t)
	cookies := login(t, r, "dev@studio.local", "secret123")

	w := doJSON(t, r, http.MethodPost, "/api/admin/studios", StudioRequest{Name: "New"}, cookies)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestCreateStudioWithCoordinates(t *testing.T) {
	r, _ := setupTestServer(t)
	cookies := login(t, r, "admin@studio.local", "changeme")

	lat, lon := 51.5074, -0.1278
	w := doJSON(t, r, http.MethodPost, "/api/admin/studios", StudioRequest{
		Name:      "London",
		Tagline:   "Soho loft",
		Latitude:  &lat,
		Longitude: &lon,
	}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var s StudioResponse
	json.NewDecoder(w.Body).Decode(&s)
	if s.ID == "" {
		t.Error("expected a generated studio ID")
	}
	if s.Latitude == nil || *s.Latitude != lat {
		t.Errorf("expected latitude %v, got %v", lat, s.Latitude)
	}
}

func TestCreateStudioExtractsCoordinatesFromMapsURL(t *testing.T) {
	r, _ := setupTestServer(t)
	cookies := login(t, r, "admin@studio.local", "changeme")

	w := doJSON(t, r, http.MethodPost, "/api/admin/studios", StudioRequest{
		Name:    "Berlin",
		MapsURL: "https://www.google.com/maps/place/Studio/@52.5200,13.4050,17z",
	}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var s StudioResponse
	json.NewDecoder(w.Body).Decode(&s)
	if s.Latitude == nil || s.Longitude == nil {
		t.Fatal("expected coordinates extracted from maps URL")
	}
	if math.Abs(*s.Latitude-52.52) > 1e-6 || math.Abs(*s.Longitude-13.405) > 1e-6 {
		t.Errorf("expected (52.52, 13.405), got (%v, %v)", *s.Latitude, *s.Longitude)
	}
}

func TestCreateStudioPartialCoordinatesRejected(t *testing.T) {
	r, _ := setupTestServer(t)
	cookies := login(t, r, "admin@studio.local", "changeme")

	lat := 51.5074
	w := doJSON(t, r, http.MethodPost, "/api/admin/studios", StudioRequest{
		Name:     "Broken",
		Latitude: &lat,
	}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateStudio(t *testing.T) {
	r, store := setupTestServer(t)
	cookies := login(t, r, "admin@studio.local", "changeme")

	studios, _ := store.ListStudios(t.Context())
	var id string
	for _, s := range studios {
		if s.Name == "HQ" {
			id = s.ID
		}
	}

	lat, lon := hqLat, hqLon
	w := doJSON(t, r, http.MethodPut, "/api/admin/studios/"+id, StudioRequest{
		Name:      "HQ Renamed",
		Latitude:  &lat,
		Longitude: &lon,
	}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var s StudioResponse
	json.NewDecoder(w.Body).Decode(&s)
	if s.Name != "HQ Renamed" {
		t.Errorf("expected name HQ Renamed, got %q", s.Name)
	}
}

func TestUpdateStudioNotFound(t *testing.T) {
	r, _ := setupTestServer(t)
	cookies := login(t, r, "admin@studio.local", "changeme")

	w := doJSON(t, r, http.MethodPut, "/api/admin/studios/missing", StudioRequest{Name: "X"}, cookies)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteStudioReflowsLiveControllers(t *testing.T) {
	r, store := setupTestServer(t)
	dev := login(t, r, "dev@studio.local", "secret123")
	admin := login(t, r, "admin@studio.local", "changeme")

	st := reportLocation(t, r, dev, hqLat, hqLon)
	if st.MatchedStudio != "HQ" {
		t.Fatalf("expected HQ matched, got %q", st.MatchedStudio)
	}

	studios, _ := store.ListStudios(t.Context())
	var id string
	for _, s := range studios {
		if s.Name == "HQ" {
			id = s.ID
		}
	}

	w := doJSON(t, r, http.MethodDelete, "/api/admin/studios/"+id, nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// A fresh detection against the remaining studio list finds nothing
	// nearby.
	w = doJSON(t, r, http.MethodPost, "/api/location/retry", nil, dev)
	if w.Code != http.StatusOK {
		t.Fatalf("retry: expected 200, got %d", w.Code)
	}
	var after LocationStateResponse
	json.NewDecoder(w.Body).Decode(&after)
	if after.MatchedStudio != "" {
		t.Errorf("expected no match after studio deletion, got %q", after.MatchedStudio)
	}
}
