package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps a dependency name to its check result.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Studio Attendance API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the studio attendance app.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Authenticate with email and password. Sets the session cookie.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/auth/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/auth/logout")
	postLogout.SetSummary("Log out")
	postLogout.SetDescription("Deletes the session and clears the cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/auth/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/auth/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the currently authenticated user. Requires session cookie.")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/studios
	listStudios, _ := r.NewOperationContext(http.MethodGet, "/api/studios")
	listStudios.SetSummary("List studios")
	listStudios.SetDescription("Returns all studios. Public.")
	listStudios.AddRespStructure([]StudioResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listStudios)

	// POST /api/location/report
	postReport, _ := r.NewOperationContext(http.MethodPost, "/api/location/report")
	postReport.SetSummary("Report device location")
	postReport.SetDescription("Ingests a device position fix or geolocation failure code and runs a detection cycle. Requires session cookie.")
	postReport.AddReqStructure(LocationReportRequest{})
	postReport.AddRespStructure(LocationStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postReport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postReport)

	// GET /api/location/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/location/state")
	getState.SetSummary("Detection state")
	getState.SetDescription("Returns the session's current location detection state. Requires session cookie.")
	getState.AddRespStructure(LocationStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/location/clear
	postClear, _ := r.NewOperationContext(http.MethodPost, "/api/location/clear")
	postClear.SetSummary("Clear match")
	postClear.SetDescription("Clears the matched studio and error so detection can be re-triggered. Requires session cookie.")
	postClear.AddRespStructure(LocationStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postClear.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postClear)

	// POST /api/location/retry
	postRetry, _ := r.NewOperationContext(http.MethodPost, "/api/location/retry")
	postRetry.SetSummary("Retry detection")
	postRetry.SetDescription("Re-runs detection against the latest reported position. Requires session cookie.")
	postRetry.AddRespStructure(LocationStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRetry.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postRetry)

	// GET /api/location/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/location/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of detection outcomes. Requires session cookie.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/checkins
	postCheckIn, _ := r.NewOperationContext(http.MethodPost, "/api/checkins")
	postCheckIn.SetSummary("Check in")
	postCheckIn.SetDescription("Records attendance at the matched studio. Gated on location; 403 carries the gate reason.")
	postCheckIn.AddRespStructure(CheckInResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postCheckIn.AddRespStructure(GateResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postCheckIn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postCheckIn.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postCheckIn)

	// GET /api/checkins/mine
	myCheckIns, _ := r.NewOperationContext(http.MethodGet, "/api/checkins/mine")
	myCheckIns.SetSummary("My check-ins")
	myCheckIns.SetDescription("Returns the authenticated user's check-in history. Requires session cookie.")
	myCheckIns.AddRespStructure([]CheckInResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	myCheckIns.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(myCheckIns)

	// GET /api/admin/users
	listUsers, _ := r.NewOperationContext(http.MethodGet, "/api/admin/users")
	listUsers.SetSummary("List users")
	listUsers.SetDescription("Returns all users. Requires admin role.")
	listUsers.AddRespStructure([]UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	listUsers.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(listUsers)

	// POST /api/admin/users
	createUser, _ := r.NewOperationContext(http.MethodPost, "/api/admin/users")
	createUser.SetSummary("Create user")
	createUser.SetDescription("Creates a user. Requires admin role.")
	createUser.AddReqStructure(UserRequest{})
	createUser.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	createUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(createUser)

	// GET /api/admin/users/{id}
	getUser, _ := r.NewOperationContext(http.MethodGet, "/api/admin/users/{id}")
	getUser.SetSummary("Get user")
	getUser.SetDescription("Returns a single user. Requires admin role.")
	getUser.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getUser)

	// PUT /api/admin/users/{id}
	updateUser, _ := r.NewOperationContext(http.MethodPut, "/api/admin/users/{id}")
	updateUser.SetSummary("Update user")
	updateUser.SetDescription("Updates a user's email, name, and role. Requires admin role.")
	updateUser.AddReqStructure(UserRequest{})
	updateUser.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	updateUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updateUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(updateUser)

	// DELETE /api/admin/users/{id}
	deleteUser, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/users/{id}")
	deleteUser.SetSummary("Delete user")
	deleteUser.SetDescription("Deletes a user. Self-deletion is refused. Requires admin role.")
	deleteUser.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(deleteUser)

	// GET /api/admin/studios
	adminStudios, _ := r.NewOperationContext(http.MethodGet, "/api/admin/studios")
	adminStudios.SetSummary("List studios (admin)")
	adminStudios.SetDescription("Returns all studios including unlocated ones. Requires admin role.")
	adminStudios.AddRespStructure([]StudioResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminStudios.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(adminStudios)

	// POST /api/admin/studios
	createStudio, _ := r.NewOperationContext(http.MethodPost, "/api/admin/studios")
	createStudio.SetSummary("Create studio")
	createStudio.SetDescription("Creates a studio. Coordinates may be extracted from the maps URL. Requires admin role.")
	createStudio.AddReqStructure(StudioRequest{})
	createStudio.AddRespStructure(StudioResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createStudio.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createStudio)

	// PUT /api/admin/studios/{id}
	updateStudio, _ := r.NewOperationContext(http.MethodPut, "/api/admin/studios/{id}")
	updateStudio.SetSummary("Update studio")
	updateStudio.SetDescription("Updates a studio and pushes the new list to live sessions. Requires admin role.")
	updateStudio.AddReqStructure(StudioRequest{})
	updateStudio.AddRespStructure(StudioResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	updateStudio.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateStudio.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(updateStudio)

	// DELETE /api/admin/studios/{id}
	deleteStudio, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/studios/{id}")
	deleteStudio.SetSummary("Delete studio")
	deleteStudio.SetDescription("Deletes a studio and its check-ins. Requires admin role.")
	deleteStudio.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	deleteStudio.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteStudio)

	// GET /api/admin/checkins
	checkInReport, _ := r.NewOperationContext(http.MethodGet, "/api/admin/checkins")
	checkInReport.SetSummary("Check-in report")
	checkInReport.SetDescription("Returns all check-ins with user and studio details. Requires admin role.")
	checkInReport.AddRespStructure([]CheckInReportItem{}, openapi.WithHTTPStatus(http.StatusOK))
	checkInReport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(checkInReport)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
