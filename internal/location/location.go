// Package location implements device location acquisition, the studio
// match controller, and the access-gate decision.
package location

import (
	"context"
	"errors"
	"time"

	"github.com/fahroox/attendance/internal/attendance"
)

// PermissionStatus tracks the platform's location permission lifecycle.
type PermissionStatus string

const (
	PermissionUnknown     PermissionStatus = "unknown"
	PermissionPrompt      PermissionStatus = "prompt"
	PermissionGranted     PermissionStatus = "granted"
	PermissionDenied      PermissionStatus = "denied"
	PermissionUnavailable PermissionStatus = "unavailable"
	PermissionNotSecure   PermissionStatus = "not-secure"
)

// Terminal reports whether the status cannot change for the rest of the
// session: the capability is absent, so re-prompting is pointless.
func (s PermissionStatus) Terminal() bool {
	return s == PermissionUnavailable || s == PermissionNotSecure
}

// Fix is a single device position reading. It is ephemeral: held only in
// controller memory for the duration of a detection cycle, never persisted.
type Fix struct {
	Latitude  float64
	Longitude float64
	AccuracyM float64 // 0 when the platform reports no accuracy estimate
}

// Options configures a single-shot acquisition.
type Options struct {
	HighAccuracy bool          // trade battery/time for precision
	Timeout      time.Duration // bound on the wait for a fresh fix
	MaxAge       time.Duration // a cached fix no older than this may be returned
}

// Acquisition failure taxonomy. Providers return these sentinels (possibly
// wrapped); the controller maps them to permission transitions and
// user-visible messages, and never propagates them further.
var (
	ErrPermissionDenied    = errors.New("location access denied")
	ErrPositionUnavailable = errors.New("location information is unavailable")
	ErrTimeout             = errors.New("location request timed out")
	ErrUnsupported         = errors.New("location is not supported in this context")
)

// Provider is the platform geolocation port.
type Provider interface {
	// Acquire performs a single-shot location request. It fails with
	// ErrUnsupported as a precondition when the platform offers no
	// location capability or the context is not secure.
	Acquire(ctx context.Context, opts Options) (Fix, error)

	// QueryPermission inspects the permission state without triggering a
	// prompt. Platforms without introspection report PermissionUnknown,
	// which gating treats like PermissionPrompt.
	QueryPermission(ctx context.Context) PermissionStatus
}

// Notifier receives the user-visible outcome of every detection cycle.
// Silent failure is disallowed: each outcome kind gets a distinct call.
type Notifier interface {
	Matched(studio attendance.Studio, distanceM float64)
	NoMatch(radiusM float64)
	Failed(status PermissionStatus, message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Matched(attendance.Studio, float64) {}

func (NopNotifier) NoMatch(float64) {}

func (NopNotifier) Failed(PermissionStatus, string) {}
