package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fahroox/attendance/internal/attendance"
	"github.com/fahroox/attendance/internal/location"
)

type ctxKey int

const ctxKeySession ctxKey = iota

func authMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessionFromRequest(r, store)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r).User.Role != attendance.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GateResponse explains a gate denial so the client can render the right
// screen: the permission flow or the out-of-range page.
type GateResponse struct {
	Reason           string `json:"reason"`
	PermissionStatus string `json:"permissionStatus,omitempty"`
	Message          string `json:"message"`
}

// locationGate enforces the location-based access decision on protected
// routes. Admin role bypasses the gate entirely. Evaluation (controller
// lookup, which may load the studio list) is bounded by fallback; when it
// fires the gate logs a warning and fails open.
func locationGate(sessions *Registry, logger *slog.Logger, fallback time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessionFrom(r)
			bypass := sess.User.Role == attendance.RoleAdmin

			type outcome struct {
				render location.Render
				state  location.State
				err    error
			}
			ch := make(chan outcome, 1)
			go func() {
				entry, err := sessions.Get(r.Context(), sess.ID, sess.User.ID)
				if err != nil {
					ch <- outcome{err: err}
					return
				}
				st := entry.Controller.State()
				ch <- outcome{render: location.Decide(bypass, st, st.Checked), state: st}
			}()

			timer := time.NewTimer(fallback)
			defer timer.Stop()

			select {
			case o := <-ch:
				if o.err != nil {
					writeError(w, http.StatusInternalServerError, "internal error")
					return
				}
				switch o.render {
				case location.RenderProtected:
					next.ServeHTTP(w, r)
				case location.RenderPrompt:
					writeJSON(w, http.StatusForbidden, GateResponse{
						Reason:           "location_permission_required",
						PermissionStatus: string(o.state.Permission),
						Message:          "Location access is required to use this app.",
					})
				case location.RenderOutOfRange:
					writeJSON(w, http.StatusForbidden, GateResponse{
						Reason:           "out_of_studio_range",
						PermissionStatus: string(o.state.Permission),
						Message:          "You are not near a registered studio.",
					})
				}
			case <-timer.C:
				logger.Warn("location gate evaluation exceeded fallback timeout; failing open",
					"timeout", fallback,
					"user", sess.User.ID,
				)
				next.ServeHTTP(w, r)
			}
		})
	}
}

func sessionFrom(r *http.Request) authSession {
	return r.Context().Value(ctxKeySession).(authSession)
}
