package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fahroox/attendance/internal/config"
	"github.com/fahroox/attendance/internal/location"
)

// sessionLocation pairs a session's reported-position provider with the
// controller that matches it against studios.
type sessionLocation struct {
	Provider   *location.ReportedProvider
	Controller *location.Controller

	lastSeen time.Time
}

// Registry tracks one location controller per active session. Controllers
// are torn down on logout, on shutdown, and when a session goes idle for
// longer than the configured timeout.
type Registry struct {
	cfg    *config.Config
	logger *slog.Logger
	store  Store
	broker *Broker
	now    func() time.Time // injected in tests

	mu       sync.RWMutex
	sessions map[string]*sessionLocation
}

func NewRegistry(cfg *config.Config, logger *slog.Logger, store Store, broker *Broker) *Registry {
	return &Registry{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		broker:   broker,
		now:      time.Now,
		sessions: make(map[string]*sessionLocation),
	}
}

func (r *Registry) Get(ctx context.Context, sessionID, userID string) (*sessionLocation, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictIdle(now, sessionID)

	if s, ok := r.sessions[sessionID]; ok {
		s.lastSeen = now
		return s, nil
	}

	s, err := r.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.lastSeen = now
	r.sessions[sessionID] = s
	return s, nil
}

// evictIdle closes controllers that have not been touched within the idle
// timeout. The session being served is spared; its lastSeen is about to be
// refreshed anyway. Caller holds r.mu.
func (r *Registry) evictIdle(now time.Time, keep string) {
	if r.cfg.ControllerIdleTimeout <= 0 {
		return
	}
	for id, s := range r.sessions {
		if id == keep {
			continue
		}
		if now.Sub(s.lastSeen) > r.cfg.ControllerIdleTimeout {
			s.Controller.Close()
			delete(r.sessions, id)
			r.logger.Info("evicted idle location controller", "idle", now.Sub(s.lastSeen))
		}
	}
}

func (r *Registry) open(ctx context.Context, userID string) (*sessionLocation, error) {
	provider := location.NewReportedProvider()
	ctrl := location.NewController(ctx, provider, location.Config{
		RadiusM: r.cfg.MatchRadiusM,
		Acquire: location.Options{
			HighAccuracy: r.cfg.LocationHighAccuracy,
			Timeout:      r.cfg.LocationTimeout,
			MaxAge:       r.cfg.LocationMaxAge,
		},
		AutoDetect:      true,
		AutoDetectDelay: r.cfg.AutoDetectDelay,
		Notifier:        brokerNotifier{broker: r.broker, userID: userID},
		Logger:          r.logger,
	})

	studios, err := r.store.ListLocatedStudios(ctx)
	if err != nil {
		ctrl.Close()
		return nil, fmt.Errorf("loading studios: %w", err)
	}
	ctrl.SetStudios(studios)

	return &sessionLocation{Provider: provider, Controller: ctrl}, nil
}

// ReloadStudios pushes the current studio list to every live controller.
// Called after an admin creates, updates or deletes a studio.
func (r *Registry) ReloadStudios(ctx context.Context) error {
	studios, err := r.store.ListLocatedStudios(ctx)
	if err != nil {
		return fmt.Errorf("loading studios: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		s.Controller.SetStudios(studios)
	}
	return nil
}

// Remove tears down the controller for a session, typically on logout.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		s.Controller.Close()
		delete(r.sessions, sessionID)
	}
}

func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		s.Controller.Close()
		delete(r.sessions, id)
	}
}
