package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"lomba17/internal/adapters/peserta"
	"lomba17/internal/application/orchestrators"
	"lomba17/internal/application/projections"
	"lomba17/internal/domain/competition"
	"lomba17/internal/domain/participant"
)

// handleHome handles GET / with the age-group grid.
func handleHome(w http.ResponseWriter, r *http.Request) {
	grid := projections.QueryCategoryGrid(r.Context(), projections.GetCompetitionsDeps{Catalog: app.Catalog})
	renderTemplate(w, r, http.StatusOK, "home.html", map[string]any{
		"Title": "Lomba 17 Agustus",
		"Grid":  grid,
	})
}

// registrationForm is the sticky state of the sign-up form.
type registrationForm struct {
	Name     string
	Age      string
	Phone    string
	Selected map[string]bool
}

// registrationRequest is the JSON body accepted by POST /daftar.
type registrationRequest struct {
	Name         string   `json:"name"`
	Age          *int     `json:"age"`
	Phone        string   `json:"phone"`
	Competitions []string `json:"competitions"`
}

// handleRegisterForm handles GET /daftar. An age in the query lists the
// competitions open to it.
func handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	form := registrationForm{
		Name:     q.Get("name"),
		Age:      q.Get("age"),
		Phone:    q.Get("phone"),
		Selected: map[string]bool{},
	}
	for _, id := range q["competitions"] {
		form.Selected[id] = true
	}
	renderRegisterForm(w, r, http.StatusOK, form, nil, "")
}

func renderRegisterForm(w http.ResponseWriter, r *http.Request, status int, form registrationForm, fieldErrs participant.FieldErrors, notice string) {
	data := map[string]any{
		"Title":  "Pendaftaran Peserta",
		"Form":   form,
		"Errors": fieldErrs,
		"Notice": notice,
	}
	if age, err := strconv.Atoi(strings.TrimSpace(form.Age)); err == nil {
		data["Eligible"] = projections.QueryCompetitionsForAge(r.Context(), age, projections.GetCompetitionsDeps{Catalog: app.Catalog})
		data["AgeKnown"] = true
	}
	renderTemplate(w, r, status, "daftar.html", data)
}

// handleRegister handles POST /daftar (form or JSON).
func handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	asJSON := isJSONRequest(r)

	var reg participant.Registration
	form := registrationForm{Selected: map[string]bool{}}
	if asJSON {
		var req registrationRequest
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		reg = participant.Registration{Name: req.Name, Age: req.Age, Phone: req.Phone, CompetitionIDs: req.Competitions}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		form.Name = r.FormValue("name")
		form.Age = r.FormValue("age")
		form.Phone = r.FormValue("phone")
		reg = participant.Registration{Name: form.Name, Phone: form.Phone, CompetitionIDs: r.Form["competitions"]}
		if age, ok := formInt(r, "age"); ok {
			reg.Age = &age
		}
		for _, id := range reg.CompetitionIDs {
			form.Selected[id] = true
		}
	}

	deps := orchestrators.RegistrationDeps{
		Catalog:  app.Catalog,
		Backend:  app.Backend,
		Events:   app.Events,
		Email:    app.Email,
		NotifyTo: app.NotifyTo,
	}
	result, err := orchestrators.ExecuteRegister(ctx, reg, deps)

	var fieldErrs participant.FieldErrors
	var dup *orchestrators.DuplicateRegistrationError
	switch {
	case errors.As(err, &fieldErrs):
		if asJSON {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fieldErrs})
			return
		}
		renderRegisterForm(w, r, http.StatusUnprocessableEntity, form, fieldErrs, "")
		return
	case errors.As(err, &dup):
		if asJSON {
			writeJSON(w, http.StatusConflict, map[string]any{"message": dup.Message(), "competitions": dup.Competitions})
			return
		}
		renderRegisterForm(w, r, http.StatusConflict, form, nil, dup.Message())
		return
	case errors.Is(err, orchestrators.ErrBackendUnreachable):
		msg := fmt.Sprintf("Tidak dapat terhubung ke server pendaftaran. Pastikan backend berjalan di %s.", app.Backend.BaseURL())
		if asJSON {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"message": msg})
			return
		}
		renderRegisterForm(w, r, http.StatusServiceUnavailable, form, nil, msg)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	if asJSON {
		writeJSON(w, http.StatusOK, map[string]any{
			"outcome":   result.Outcome(),
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
			"notice":    result.Notice,
		})
		return
	}
	renderTemplate(w, r, http.StatusOK, "daftar_hasil.html", map[string]any{
		"Title":   "Hasil Pendaftaran",
		"Name":    strings.TrimSpace(reg.Name),
		"Result":  result,
		"Outcome": string(result.Outcome()),
	})
}

// handleParticipants handles GET /peserta?lomba=.
func handleParticipants(w http.ResponseWriter, r *http.Request) {
	query := projections.GetParticipantListQuery{Competition: r.URL.Query().Get("lomba")}
	deps := projections.GetParticipantListDeps{Participants: app.Backend, Catalog: app.Catalog}
	result, err := projections.QueryParticipantList(r.Context(), query, deps)
	if err != nil {
		renderBackendDown(w, r, "peserta.html", "Daftar Peserta", err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "peserta.html", map[string]any{
		"Title":  "Daftar Peserta",
		"Result": result,
	})
}

// handleStandings handles GET /turnamen?lomba=.
func handleStandings(w http.ResponseWriter, r *http.Request) {
	query := projections.GetStandingsQuery{Competition: r.URL.Query().Get("lomba")}
	result, err := projections.QueryStandings(r.Context(), query, projections.GetStandingsDeps{Participants: app.Backend})
	if err != nil {
		renderBackendDown(w, r, "turnamen.html", "Hasil Turnamen", err)
		return
	}
	renderTemplate(w, r, http.StatusOK, "turnamen.html", map[string]any{
		"Title":  "Hasil Turnamen",
		"Result": result,
	})
}

// renderBackendDown renders a participant page without data.
func renderBackendDown(w http.ResponseWriter, r *http.Request, page, title string, err error) {
	renderTemplate(w, r, http.StatusServiceUnavailable, page, map[string]any{
		"Title": title,
		"Error": backendMessage(err),
	})
}

// backendMessage turns a backend failure into the text shown on a page.
func backendMessage(err error) string {
	var apiErr *peserta.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fmt.Sprintf("Gagal mengambil data dari server. Pastikan backend berjalan di %s.", app.Backend.BaseURL())
}

// competitionNames lists catalog names for select boxes.
func competitionNames(list []competition.Competition) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name
	}
	return out
}
