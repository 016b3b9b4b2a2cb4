package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fahroox/attendance/internal/attendance"
	"github.com/fahroox/attendance/internal/geo"
)

// StudioResponse is a studio as returned by the API. Coordinates are
// omitted when the studio has not been located yet.
type StudioResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Tagline   string   `json:"tagline,omitempty"`
	MapsURL   string   `json:"mapsUrl,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// StudioRequest is the request body for creating or updating a studio.
// Coordinates may be given directly or extracted from the maps URL.
type StudioRequest struct {
	Name      string   `json:"name" validate:"required"`
	Tagline   string   `json:"tagline"`
	MapsURL   string   `json:"mapsUrl"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

func studioResponse(s attendance.Studio) StudioResponse {
	return StudioResponse{
		ID:        s.ID,
		Name:      s.Name,
		Tagline:   s.Tagline,
		MapsURL:   s.MapsURL,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// toStudio builds the studio to persist. When coordinates are missing but a
// maps URL is present, they are extracted from the URL.
func (req *StudioRequest) toStudio() (attendance.Studio, string) {
	req.Name = strings.TrimSpace(req.Name)
	req.Tagline = strings.TrimSpace(req.Tagline)
	req.MapsURL = strings.TrimSpace(req.MapsURL)

	s := attendance.Studio{
		Name:      req.Name,
		Tagline:   req.Tagline,
		MapsURL:   req.MapsURL,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if (s.Latitude == nil) != (s.Longitude == nil) {
		return s, "latitude and longitude must be provided together"
	}

	if s.Latitude == nil && s.MapsURL != "" {
		if lat, lon, ok := geo.ExtractCoordinates(s.MapsURL); ok {
			s.Latitude = &lat
			s.Longitude = &lon
		}
	}
	return s, ""
}

// handleListStudios serves the public studio list. Only coordinate-complete
// studios are returned, matching what detection can actually use.
func handleListStudios(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studios, err := store.ListLocatedStudios(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]StudioResponse, 0, len(studios))
		for _, s := range studios {
			out = append(out, studioResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// handleListAllStudios is the admin view: unlocated studios included.
func handleListAllStudios(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studios, err := store.ListStudios(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]StudioResponse, 0, len(studios))
		for _, s := range studios {
			out = append(out, studioResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleCreateStudio(store Store, sessions *Registry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StudioRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		s, msg := req.toStudio()
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		created, err := store.CreateStudio(r.Context(), s)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := sessions.ReloadStudios(r.Context()); err != nil {
			logger.Error("reloading studios after create", "error", err)
		}
		writeJSON(w, http.StatusCreated, studioResponse(created))
	}
}

func handleUpdateStudio(store Store, sessions *Registry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req StudioRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		s, msg := req.toStudio()
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		updated, err := store.UpdateStudio(r.Context(), id, s)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "studio not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := sessions.ReloadStudios(r.Context()); err != nil {
			logger.Error("reloading studios after update", "error", err)
		}
		writeJSON(w, http.StatusOK, studioResponse(updated))
	}
}

func handleDeleteStudio(store Store, sessions *Registry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := store.DeleteStudio(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "studio not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := sessions.ReloadStudios(r.Context()); err != nil {
			logger.Error("reloading studios after delete", "error", err)
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
