package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"lomba17/internal/application/orchestrators"
	"lomba17/internal/application/projections"
	"lomba17/internal/domain/agegroup"
)

// handleAPICompetitions handles GET /api/competitions?age=&group=
// group wins over age; with neither the whole catalog is returned.
func handleAPICompetitions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deps := projections.GetCompetitionsDeps{Catalog: app.Catalog}
	q := r.URL.Query()

	if group := strings.TrimSpace(q.Get("group")); group != "" {
		list, err := projections.QueryCompetitionsForGroup(ctx, agegroup.Key(group), deps)
		if errors.Is(err, projections.ErrUnknownAgeGroup) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown age group", "competitions": list})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"competitions": list})
		return
	}
	if ageParam := strings.TrimSpace(q.Get("age")); ageParam != "" {
		age, err := strconv.Atoi(ageParam)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "age must be a number"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"competitions": projections.QueryCompetitionsForAge(ctx, age, deps)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"competitions": app.Catalog.Competitions(ctx)})
}

// handleAPIAgeGroups handles GET /api/age-groups
func handleAPIAgeGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, app.Catalog.AgeGroups(r.Context()))
}

// handleAPIState handles GET /api/state. Open pages poll it to notice
// changes made from other sessions.
func handleAPIState(w http.ResponseWriter, r *http.Request) {
	state := projections.QueryState(r.Context(), projections.GetStateDeps{
		Catalog:  app.Catalog,
		Flag:     app.AdminFlag,
		Revision: app.KV,
	})
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, state)
}

// handleAPIBackendStatus handles GET /api/backend-status
func handleAPIBackendStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, app.Monitor.Status())
}

// handleAPIBackendCheck handles POST /api/backend-status/check. Form posts
// from the status banner are redirected back.
func handleAPIBackendCheck(w http.ResponseWriter, r *http.Request) {
	status := app.Monitor.Check(r.Context())
	if isHTMLRequest(r) && !isJSONRequest(r) {
		http.Redirect(w, r, localReferer(r), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// localReferer returns the referring path when it is on this host, else "/".
func localReferer(r *http.Request) string {
	ref, err := url.Parse(r.Header.Get("Referer"))
	if err != nil || ref.Host != r.Host || ref.Path == "" {
		return "/"
	}
	return ref.RequestURI()
}

// adminToggleRequest is the body of POST /api/admin/toggle.
type adminToggleRequest struct {
	Password string `json:"password"`
}

// handleAPIAdminToggle handles POST /api/admin/toggle
func handleAPIAdminToggle(w http.ResponseWriter, r *http.Request) {
	var req adminToggleRequest
	if err := strictDecode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request"})
		return
	}
	active, err := orchestrators.ExecuteToggleAdmin(r.Context(), req.Password, adminDeps())
	if errors.Is(err, orchestrators.ErrWrongAdminPassword) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"admin": false, "error": "Password salah"})
		return
	}
	if errors.Is(err, orchestrators.ErrAdminNotPersisted) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"admin": false, "error": "Penyimpanan tidak tersedia"})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"admin": active})
}
