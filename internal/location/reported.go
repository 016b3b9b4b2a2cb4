package location

import (
	"context"
	"sync"
	"time"
)

// ReportedProvider adapts device-reported readings to the Provider port.
// The device runs the platform geolocation API itself and posts the
// outcome; Acquire hands the freshest report to the controller and fails
// with ErrTimeout when no report newer than Options.MaxAge is available.
type ReportedProvider struct {
	mu         sync.Mutex
	fix        *Fix
	err        error
	reportedAt time.Time
	permission PermissionStatus
	now        func() time.Time // injected in tests
}

func NewReportedProvider() *ReportedProvider {
	return &ReportedProvider{
		permission: PermissionUnknown,
		now:        time.Now,
	}
}

// Report records a successful device reading. The permission is granted by
// construction: the platform produced a fix.
func (p *ReportedProvider) Report(fix Fix) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fix = &fix
	p.err = nil
	p.reportedAt = p.now()
	p.permission = PermissionGranted
}

// ReportFailure records a device-side acquisition failure using the
// sentinel taxonomy. The matching permission status becomes visible
// through QueryPermission.
func (p *ReportedProvider) ReportFailure(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fix = nil
	p.err = err
	p.reportedAt = p.now()

	switch err {
	case ErrPermissionDenied:
		p.permission = PermissionDenied
	case ErrPositionUnavailable:
		p.permission = PermissionUnavailable
	case ErrUnsupported:
		p.permission = PermissionNotSecure
	default:
		p.permission = PermissionPrompt
	}
}

func (p *ReportedProvider) Acquire(_ context.Context, opts Options) (Fix, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return Fix{}, p.err
	}
	if p.fix == nil {
		return Fix{}, ErrTimeout
	}
	if opts.MaxAge > 0 && p.now().Sub(p.reportedAt) > opts.MaxAge {
		return Fix{}, ErrTimeout
	}
	return *p.fix, nil
}

func (p *ReportedProvider) QueryPermission(context.Context) PermissionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.permission
}
