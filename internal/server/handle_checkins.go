package server

import (
	"net/http"
	"time"
)

// CheckInResponse is a recorded check-in.
type CheckInResponse struct {
	ID         string  `json:"id"`
	StudioID   string  `json:"studioId"`
	StudioName string  `json:"studioName,omitempty"`
	DistanceM  float64 `json:"distanceM"`
	CreatedAt  string  `json:"createdAt"`
}

// CheckInReportItem is a check-in joined with user details for the admin
// report.
type CheckInReportItem struct {
	ID         string  `json:"id"`
	UserEmail  string  `json:"userEmail"`
	UserName   string  `json:"userName"`
	StudioName string  `json:"studioName"`
	DistanceM  float64 `json:"distanceM"`
	CreatedAt  string  `json:"createdAt"`
}

// handleCreateCheckIn records attendance at the currently matched studio.
// The location gate has already admitted the request; the conflict answer
// covers the race where the match cleared between gate and handler.
func handleCreateCheckIn(store Store, sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		entry, err := sessions.Get(r.Context(), sess.ID, sess.User.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		st := entry.Controller.State()
		if st.Matched == nil {
			writeError(w, http.StatusConflict, "no studio matched; detect your location first")
			return
		}

		c, err := store.CreateCheckIn(r.Context(), sess.User.ID, st.Matched.ID, st.DistanceM)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, CheckInResponse{
			ID:         c.ID,
			StudioID:   c.StudioID,
			StudioName: st.Matched.Name,
			DistanceM:  c.DistanceM,
			CreatedAt:  c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
}

func handleListMyCheckIns(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListUserCheckIns(r.Context(), sessionFrom(r).User.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]CheckInResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, CheckInResponse{
				ID:         rec.ID,
				StudioName: rec.StudioName,
				DistanceM:  rec.DistanceM,
				CreatedAt:  rec.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleCheckInReport(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.ListCheckIns(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]CheckInReportItem, 0, len(records))
		for _, rec := range records {
			out = append(out, CheckInReportItem{
				ID:         rec.ID,
				UserEmail:  rec.UserEmail,
				UserName:   rec.UserName,
				StudioName: rec.StudioName,
				DistanceM:  rec.DistanceM,
				CreatedAt:  rec.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
