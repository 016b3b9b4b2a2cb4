package location

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fahroox/attendance/internal/attendance"
	"github.com/fahroox/attendance/internal/geo"
)

// State is a snapshot of the controller's detection lifecycle, read by the
// access gate. It is mutated only by the controller's own operations.
type State struct {
	Permission PermissionStatus
	Detecting  bool
	Matched    *attendance.Studio
	DistanceM  float64 // meters to Matched; 0 when Matched is nil
	Err        string  // human-readable; empty when none
	Checked    bool    // at least one detection cycle has completed
}

// Config tunes a controller. Zero values fall back to sensible defaults.
type Config struct {
	RadiusM         float64 // match threshold; DefaultMatchRadius when 0
	Acquire         Options
	AutoDetect      bool          // run one detection when studios arrive and permission is already granted
	AutoDetectDelay time.Duration // wait before the auto-detect attempt
	Notifier        Notifier      // NopNotifier when nil
	Logger          *slog.Logger  // discards when nil
}

// Controller orchestrates acquisition and matching into a stateful unit:
// it tracks permission status, coalesces concurrent detection requests
// into one in-flight acquisition, and discards results that arrive after
// Close.
type Controller struct {
	provider Provider
	cfg      Config

	mu        sync.Mutex
	studios   []attendance.Studio
	st        State
	closed    bool
	gen       int // bumped on Close; stale completions compare against it
	autoTried bool
	done      chan struct{}
}

// NewController probes the provider's permission state and returns a
// controller ready for detection. The studio list may arrive later via
// SetStudios.
func NewController(ctx context.Context, provider Provider, cfg Config) *Controller {
	if cfg.RadiusM <= 0 {
		cfg.RadiusM = geo.DefaultMatchRadius
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	c := &Controller{
		provider: provider,
		cfg:      cfg,
		done:     make(chan struct{}),
	}
	c.st.Permission = provider.QueryPermission(ctx)
	return c
}

// State returns a copy of the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st
}

// SetStudios replaces the candidate list. Safe to call while a detection
// is in flight: the completing cycle matches against the newest list. May
// schedule the one-time auto-detect when permission is already granted.
func (c *Controller) SetStudios(studios []attendance.Studio) {
	c.mu.Lock()
	c.studios = studios

	trigger := c.cfg.AutoDetect &&
		!c.autoTried &&
		!c.closed &&
		!c.st.Detecting &&
		c.st.Permission == PermissionGranted &&
		c.st.Matched == nil &&
		len(studios) > 0
	if trigger {
		c.autoTried = true
	}
	c.mu.Unlock()

	if trigger {
		go c.autoDetect()
	}
}

func (c *Controller) autoDetect() {
	timer := time.NewTimer(c.cfg.AutoDetectDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		c.RequestPermission(context.Background())
	case <-c.done:
	}
}

// RequestPermission runs one detection cycle: acquire a fix, match it
// against the loaded studios, and settle the state. Calls made while a
// detection is already in flight coalesce into it and return the current
// state without spawning a second acquisition. Detection before the
// studio list has loaded is a no-op. Calling after a denial is the
// explicit, user-initiated retry path; only terminal statuses refuse.
func (c *Controller) RequestPermission(ctx context.Context) State {
	c.mu.Lock()
	if c.closed || c.st.Detecting || c.st.Permission.Terminal() || len(c.studios) == 0 {
		st := c.st
		c.mu.Unlock()
		return st
	}
	c.st.Detecting = true
	c.st.Err = ""
	gen := c.gen
	c.mu.Unlock()

	fix, err := c.provider.Acquire(ctx, c.cfg.Acquire)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A result landing after Close (or a newer lifecycle) must not mutate
	// anything.
	if c.closed || gen != c.gen {
		return c.st
	}

	c.st.Detecting = false
	c.st.Checked = true

	if err != nil {
		c.settleFailure(err)
		return c.st
	}

	c.st.Permission = PermissionGranted
	matches := geo.FindNearby(fix.Latitude, fix.Longitude, c.studios, c.cfg.RadiusM)
	if len(matches) > 0 {
		nearest := matches[0]
		c.st.Matched = &nearest.Studio
		c.st.DistanceM = nearest.DistanceM
		c.cfg.Logger.Info("studio matched",
			"studio", nearest.Studio.Name,
			"distance_m", nearest.DistanceM,
		)
		c.cfg.Notifier.Matched(nearest.Studio, nearest.DistanceM)
	} else {
		c.st.Matched = nil
		c.st.DistanceM = 0
		c.cfg.Logger.Info("no studio within radius", "radius_m", c.cfg.RadiusM)
		c.cfg.Notifier.NoMatch(c.cfg.RadiusM)
	}
	return c.st
}

// settleFailure maps an acquisition error to a permission transition and a
// distinct user-visible message. Caller holds c.mu.
func (c *Controller) settleFailure(err error) {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		c.st.Permission = PermissionDenied
		c.st.Err = "Location access was denied. Enable location permissions in your browser settings and retry."
	case errors.Is(err, ErrPositionUnavailable):
		c.st.Permission = PermissionUnavailable
		c.st.Err = "Location information is unavailable. Check your device settings."
	case errors.Is(err, ErrTimeout):
		// Retryable: the permission itself was not refused.
		if c.st.Permission == PermissionUnknown {
			c.st.Permission = PermissionPrompt
		}
		c.st.Err = "Location request timed out. Please try again."
	case errors.Is(err, ErrUnsupported):
		c.st.Permission = PermissionNotSecure
		c.st.Err = "Location services are not supported in this context."
	default:
		if c.st.Permission == PermissionUnknown {
			c.st.Permission = PermissionPrompt
		}
		c.st.Err = "Unable to detect your location."
	}
	c.st.Matched = nil
	c.st.DistanceM = 0
	c.cfg.Logger.Warn("location detection failed", "status", string(c.st.Permission), "error", err)
	c.cfg.Notifier.Failed(c.st.Permission, c.st.Err)
}

// RetryDetection re-runs detection after a failure. Alias for
// RequestPermission, kept for error-recovery call sites.
func (c *Controller) RetryDetection(ctx context.Context) State {
	return c.RequestPermission(ctx)
}

// ClearMatch resets the matched studio and error without re-querying the
// platform, letting the user re-trigger detection manually.
func (c *Controller) ClearMatch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.st.Matched = nil
	c.st.DistanceM = 0
	c.st.Err = ""
}

// Close tears the controller down. In-flight acquisitions finish against
// the provider but their results are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.gen++
	close(c.done)
}
