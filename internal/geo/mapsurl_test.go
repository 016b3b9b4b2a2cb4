package geo

import "testing"

func TestExtractCoordinates(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		wantLat float64
		wantLon float64
		wantOK  bool
	}{
		{
			name:    "place URL with pin coordinates",
			url:     "https://www.google.com/maps/place/Mahative+Studio/@-8.0019522,112.6069239,19z/data=!4m6!3m5!1s0x0!8m2!3d-8.0020000!4d112.6070000!16s",
			wantLat: -8.0019522,
			wantLon: 112.6069239,
			wantOK:  true,
		},
		{
			name:    "at coordinates",
			url:     "https://maps.google.com/maps?q=@40.7128,-74.0060,15z",
			wantLat: 40.7128,
			wantLon: -74.0060,
			wantOK:  true,
		},
		{
			name:    "data blob fallback",
			url:     "https://www.google.com/maps/place/Somewhere/data=!4m6!3m5!1s0xabc!8m2!3d-8.0019522!4d112.6069239!16s",
			wantLat: -8.0019522,
			wantLon: 112.6069239,
			wantOK:  true,
		},
		{
			name:    "ll query parameter",
			url:     "https://maps.google.com/maps?ll=40.7128,-74.0060",
			wantLat: 40.7128,
			wantLon: -74.0060,
			wantOK:  true,
		},
		{
			name:    "center query parameter",
			url:     "https://maps.google.com/maps?center=51.5074,-0.1278",
			wantLat: 51.5074,
			wantLon: -0.1278,
			wantOK:  true,
		},
		{
			name:    "q query parameter",
			url:     "https://maps.google.com/maps?q=40.7128,-74.0060",
			wantLat: 40.7128,
			wantLon: -74.0060,
			wantOK:  true,
		},
		{
			name:   "place id only",
			url:    "https://www.google.com/maps/search/?api=1&query=foo&place_id=ChIJabc",
			wantOK: false,
		},
		{
			name:   "out of range latitude",
			url:    "https://maps.google.com/maps?ll=91.5,-74.0060",
			wantOK: false,
		},
		{
			name:   "empty",
			url:    "",
			wantOK: false,
		},
		{
			name:   "not a maps URL",
			url:    "https://example.com/about",
			wantOK: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lat, lon, ok := ExtractCoordinates(c.url)
			if ok != c.wantOK {
				t.Fatalf("ok = %v, want %v", ok, c.wantOK)
			}
			if !ok {
				return
			}
			if lat != c.wantLat || lon != c.wantLon {
				t.Errorf("got (%v, %v), want (%v, %v)", lat, lon, c.wantLat, c.wantLon)
			}
		})
	}
}

func TestValidCoordinate(t *testing.T) {
	valid := [][2]float64{{0, 0}, {90, 180}, {-90, -180}, {40.7128, -74.0060}}
	for _, c := range valid {
		if !ValidCoordinate(c[0], c[1]) {
			t.Errorf("ValidCoordinate(%v, %v) = false, want true", c[0], c[1])
		}
	}
	invalid := [][2]float64{{90.1, 0}, {-90.1, 0}, {0, 180.1}, {0, -180.1}}
	for _, c := range invalid {
		if ValidCoordinate(c[0], c[1]) {
			t.Errorf("ValidCoordinate(%v, %v) = true, want false", c[0], c[1])
		}
	}
}
