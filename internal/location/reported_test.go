package location

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestReportedProviderFreshFix(t *testing.T) {
	p := NewReportedProvider()
	p.Report(Fix{Latitude: 40.7128, Longitude: -74.0060, AccuracyM: 12})

	fix, err := p.Acquire(context.Background(), Options{MaxAge: time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.Latitude != 40.7128 || fix.Longitude != -74.0060 {
		t.Errorf("fix = %+v", fix)
	}
	if got := p.QueryPermission(context.Background()); got != PermissionGranted {
		t.Errorf("permission = %v, want granted", got)
	}
}

func TestReportedProviderNoReportTimesOut(t *testing.T) {
	p := NewReportedProvider()

	if _, err := p.Acquire(context.Background(), Options{}); !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want timeout", err)
	}
	if got := p.QueryPermission(context.Background()); got != PermissionUnknown {
		t.Errorf("permission = %v, want unknown", got)
	}
}

func TestReportedProviderStaleFixTimesOut(t *testing.T) {
	p := NewReportedProvider()
	base := time.Now()
	p.now = func() time.Time { return base }
	p.Report(Fix{Latitude: 1, Longitude: 2})

	p.now = func() time.Time { return base.Add(10 * time.Minute) }
	if _, err := p.Acquire(context.Background(), Options{MaxAge: 5 * time.Minute}); !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want timeout for stale fix", err)
	}
}

func TestReportedProviderFailureMapping(t *testing.T) {
	cases := []struct {
		err  error
		want PermissionStatus
	}{
		{ErrPermissionDenied, PermissionDenied},
		{ErrPositionUnavailable, PermissionUnavailable},
		{ErrUnsupported, PermissionNotSecure},
		{ErrTimeout, PermissionPrompt},
	}
	for _, c := range cases {
		p := NewReportedProvider()
		p.ReportFailure(c.err)

		if _, err := p.Acquire(context.Background(), Options{}); !errors.Is(err, c.err) {
			t.Errorf("Acquire after %v: err = %v", c.err, err)
		}
		if got := p.QueryPermission(context.Background()); got != c.want {
			t.Errorf("permission after %v = %v, want %v", c.err, got, c.want)
		}
	}
}
