package server

import (
	"net/http"

	"github.com/fahroox/attendance/internal/location"
)

// LocationReportRequest is the request body for POST /api/location/report.
// The device either posts a position fix or one of the failure codes from
// the platform geolocation API.
type LocationReportRequest struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	AccuracyM float64  `json:"accuracy"`
	Error     string   `json:"error" validate:"omitempty,oneof=denied unavailable timeout unsupported"`
}

// LocationStateResponse is the controller state as seen by the client.
type LocationStateResponse struct {
	PermissionStatus string  `json:"permissionStatus"`
	Detecting        bool    `json:"detecting"`
	MatchedStudioID  string  `json:"matchedStudioId,omitempty"`
	MatchedStudio    string  `json:"matchedStudio,omitempty"`
	DistanceM        float64 `json:"distanceM,omitempty"`
	Error            string  `json:"error,omitempty"`
	Checked          bool    `json:"checked"`
}

func stateResponse(st location.State) LocationStateResponse {
	resp := LocationStateResponse{
		PermissionStatus: string(st.Permission),
		Detecting:        st.Detecting,
		Error:            st.Err,
		Checked:          st.Checked,
	}
	if st.Matched != nil {
		resp.MatchedStudioID = st.Matched.ID
		resp.MatchedStudio = st.Matched.Name
		resp.DistanceM = st.DistanceM
	}
	return resp
}

var reportedErrors = map[string]error{
	"denied":      location.ErrPermissionDenied,
	"unavailable": location.ErrPositionUnavailable,
	"timeout":     location.ErrTimeout,
	"unsupported": location.ErrUnsupported,
}

// handleLocationReport ingests a device reading and runs a detection cycle
// against it, returning the settled state.
func handleLocationReport(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		var req LocationReportRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		hasFix := req.Latitude != nil && req.Longitude != nil
		if !hasFix && req.Error == "" {
			writeError(w, http.StatusBadRequest, "either a position or an error code is required")
			return
		}

		entry, err := sessions.Get(r.Context(), sess.ID, sess.User.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if hasFix {
			entry.Provider.Report(location.Fix{
				Latitude:  *req.Latitude,
				Longitude: *req.Longitude,
				AccuracyM: req.AccuracyM,
			})
		} else {
			entry.Provider.ReportFailure(reportedErrors[req.Error])
		}

		st := entry.Controller.RequestPermission(r.Context())
		writeJSON(w, http.StatusOK, stateResponse(st))
	}
}

func handleLocationState(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		entry, err := sessions.Get(r.Context(), sess.ID, sess.User.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, stateResponse(entry.Controller.State()))
	}
}

func handleLocationClear(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		entry, err := sessions.Get(r.Context(), sess.ID, sess.User.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		entry.Controller.ClearMatch()
		writeJSON(w, http.StatusOK, stateResponse(entry.Controller.State()))
	}
}

func handleLocationRetry(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		entry, err := sessions.Get(r.Context(), sess.ID, sess.User.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, stateResponse(entry.Controller.RetryDetection(r.Context())))
	}
}
