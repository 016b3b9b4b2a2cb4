package location

import (
	"context"
	"sync"
	"time"
)

// FakeProvider is a deterministic Provider for tests: a fixed fix, an
// optional scripted error, an optional delay, and an acquisition counter.
type FakeProvider struct {
	mu         sync.Mutex
	fix        Fix
	err        error
	permission PermissionStatus
	delay      time.Duration
	acquires   int
}

// NewFakeProvider returns a provider that reports prompt permission and
// yields fix on every acquisition.
func NewFakeProvider(fix Fix) *FakeProvider {
	return &FakeProvider{fix: fix, permission: PermissionPrompt}
}

// Fail makes subsequent acquisitions return err instead of a fix.
func (f *FakeProvider) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// SetFix replaces the fix returned by subsequent acquisitions and clears
// any scripted error.
func (f *FakeProvider) SetFix(fix Fix) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fix = fix
	f.err = nil
}

// SetPermission sets the status returned by QueryPermission.
func (f *FakeProvider) SetPermission(s PermissionStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.permission = s
}

// SetDelay makes each acquisition block for d before settling, simulating
// a slow platform request.
func (f *FakeProvider) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Acquires returns how many acquisitions have been started.
func (f *FakeProvider) Acquires() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acquires
}

func (f *FakeProvider) Acquire(ctx context.Context, _ Options) (Fix, error) {
	f.mu.Lock()
	f.acquires++
	fix, err, delay := f.fix, f.err, f.delay
	f.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Fix{}, ErrTimeout
		}
	}
	if err != nil {
		return Fix{}, err
	}
	return fix, nil
}

func (f *FakeProvider) QueryPermission(context.Context) PermissionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.permission
}
