package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lomba17/internal/adapters/http/middleware"
	"lomba17/internal/adapters/peserta"
	"lomba17/internal/application/orchestrators"
	"lomba17/internal/application/projections"
	"lomba17/internal/domain/agegroup"
	"lomba17/internal/domain/competition"
	"lomba17/internal/domain/export"
	"lomba17/internal/domain/participant"
)

func adminDeps() orchestrators.AdminDeps {
	return orchestrators.AdminDeps{Flag: app.AdminFlag, Password: app.AdminPassword, Events: app.Events}
}

func catalogDeps() orchestrators.CatalogDeps {
	return orchestrators.CatalogDeps{Catalog: app.Catalog, Events: app.Events, Now: timeNow}
}

func participantAdminDeps() orchestrators.ParticipantAdminDeps {
	return orchestrators.ParticipantAdminDeps{Backend: app.Backend, Events: app.Events}
}

// handleAdminLoginForm handles GET /admin/login
func handleAdminLoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAdmin(r.Context()) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, http.StatusOK, "admin_login.html", map[string]any{"Title": "Masuk Admin"})
}

// handleAdminLogin handles POST /admin/login
func handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteEnableAdmin(r.Context(), r.FormValue("password"), adminDeps())
	if errors.Is(err, orchestrators.ErrWrongAdminPassword) {
		renderTemplate(w, r, http.StatusUnauthorized, "admin_login.html", map[string]any{
			"Title": "Masuk Admin",
			"Error": "Password salah.",
		})
		return
	}
	if errors.Is(err, orchestrators.ErrAdminNotPersisted) {
		renderTemplate(w, r, http.StatusServiceUnavailable, "admin_login.html", map[string]any{
			"Title": "Masuk Admin",
			"Error": "Penyimpanan tidak tersedia, mode admin tidak dapat diaktifkan.",
		})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAdminLogout handles POST /admin/logout
func handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	orchestrators.ExecuteDisableAdmin(r.Context(), adminDeps())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAdminDashboard handles GET /admin
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	renderAdminDashboard(w, r, http.StatusOK, "")
}

func renderAdminDashboard(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	ctx := r.Context()
	grid := projections.QueryCategoryGrid(ctx, projections.GetCompetitionsDeps{Catalog: app.Catalog})

	var editing competition.Competition
	if id := r.URL.Query().Get("edit"); id != "" {
		editing, _ = competition.FindByID(grid.Competitions, id)
	}
	var perfSnap any
	if app.Perf != nil {
		perfSnap = app.Perf.Snapshot(timeNow().Add(-time.Hour), 5)
	}
	var activity any
	if app.Activity != nil {
		activity = app.Activity.Recent()
	}
	renderTemplate(w, r, status, "admin.html", map[string]any{
		"Title":    "Panel Admin",
		"Grid":     grid,
		"Editing":  editing,
		"Flag":     app.AdminFlag.Flag(ctx),
		"Perf":     perfSnap,
		"Activity": activity,
		"Error":    errMsg,
	})
}

// handleSaveCompetition handles POST /admin/competitions (add, or edit when id is set)
func handleSaveCompetition(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	minAge, okMin := formInt(r, "minAge")
	maxAge, okMax := formInt(r, "maxAge")
	if !okMin || !okMax {
		renderAdminDashboard(w, r, http.StatusUnprocessableEntity, "Usia minimal dan maksimal harus berupa angka.")
		return
	}
	input := orchestrators.CompetitionInput{
		ID:          strings.TrimSpace(r.FormValue("id")),
		Name:        r.FormValue("name"),
		MinAge:      minAge,
		MaxAge:      maxAge,
		Description: r.FormValue("description"),
		Icon:        r.FormValue("icon"),
		Team:        r.FormValue("team") == "on",
	}

	var err error
	if input.ID == "" {
		_, err = orchestrators.ExecuteAddCompetition(r.Context(), input, catalogDeps())
	} else {
		_, err = orchestrators.ExecuteEditCompetition(r.Context(), input, catalogDeps())
	}
	if err != nil {
		catalogError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleDeleteCompetition handles POST /admin/competitions/delete
func handleDeleteCompetition(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteDeleteCompetition(r.Context(), r.FormValue("id"), catalogDeps()); err != nil {
		catalogError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleSaveAgeGroup handles POST /admin/age-groups
func handleSaveAgeGroup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	minAge, okMin := formInt(r, "min")
	maxAge, okMax := formInt(r, "max")
	if !okMin || !okMax {
		renderAdminDashboard(w, r, http.StatusUnprocessableEntity, "Batas usia harus berupa angka.")
		return
	}
	input := orchestrators.AgeGroupInput{
		Key:   r.FormValue("key"),
		Label: r.FormValue("label"),
		Min:   minAge,
		Max:   maxAge,
	}
	if _, err := orchestrators.ExecuteSaveAgeGroup(r.Context(), input, catalogDeps()); err != nil {
		catalogError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleDeleteAgeGroup handles POST /admin/age-groups/delete
func handleDeleteAgeGroup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteDeleteAgeGroup(r.Context(), r.FormValue("key"), catalogDeps()); err != nil {
		catalogError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// catalogMessages maps validation failures to admin-facing text.
var catalogMessages = map[error]string{
	competition.ErrMissingName:              "Nama lomba harus diisi.",
	competition.ErrNameTooLong:              "Nama lomba terlalu panjang.",
	competition.ErrDescTooLong:              "Deskripsi terlalu panjang.",
	competition.ErrInvalidAgeRange:          "Usia minimal tidak boleh melebihi usia maksimal.",
	competition.ErrNegativeAge:              "Usia tidak boleh negatif.",
	orchestrators.ErrCompetitionNotFound:    "Lomba tidak ditemukan.",
	orchestrators.ErrDuplicateCompetitionID: "ID lomba sudah dipakai, coba lagi.",
	agegroup.ErrMissingKey:                  "Kunci kelompok usia harus diisi.",
	agegroup.ErrKeyTooLong:                  "Kunci kelompok usia terlalu panjang.",
	agegroup.ErrMissingLabel:                "Label kelompok usia harus diisi.",
	agegroup.ErrLabelTooLong:                "Label kelompok usia terlalu panjang.",
	agegroup.ErrInvalidAgeRange:             "Batas bawah tidak boleh melebihi batas atas.",
	agegroup.ErrNegativeAge:                 "Batas usia tidak boleh negatif.",
	orchestrators.ErrAgeGroupNotFound:       "Kelompok usia tidak ditemukan.",
}

func catalogError(w http.ResponseWriter, r *http.Request, err error) {
	for target, msg := range catalogMessages {
		if errors.Is(err, target) {
			renderAdminDashboard(w, r, http.StatusUnprocessableEntity, msg)
			return
		}
	}
	slog.Error("catalog_write_failed", "error", err)
	renderAdminDashboard(w, r, http.StatusInternalServerError, "Perubahan gagal disimpan.")
}

// handleAdminParticipants handles GET /admin/peserta?lomba=
func handleAdminParticipants(w http.ResponseWriter, r *http.Request) {
	renderAdminParticipants(w, r, http.StatusOK, "")
}

func renderAdminParticipants(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	ctx := r.Context()
	filter := r.URL.Query().Get("lomba")
	if filter == "" {
		filter = r.FormValue("lomba")
	}
	data := map[string]any{
		"Title":    "Kelola Peserta",
		"Names":    competitionNames(app.Catalog.Competitions(ctx)),
		"Statuses": participant.Statuses,
		"Actions":  participant.Actions,
		"Error":    errMsg,
	}
	result, err := projections.QueryParticipantList(ctx, projections.GetParticipantListQuery{Competition: filter},
		projections.GetParticipantListDeps{Participants: app.Backend, Catalog: app.Catalog})
	if err != nil {
		if status == http.StatusOK {
			status = http.StatusServiceUnavailable
		}
		if errMsg == "" {
			data["Error"] = backendMessage(err)
		}
	} else {
		data["Result"] = result
	}
	renderTemplate(w, r, status, "admin_peserta.html", data)
}

func redirectToParticipants(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, withQuery("/admin/peserta", "lomba", r.FormValue("lomba")), http.StatusSeeOther)
}

// participantError renders the admin list with the failure described.
func participantError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *peserta.APIError
	switch {
	case errors.Is(err, orchestrators.ErrParticipantNameRequired):
		renderAdminParticipants(w, r, http.StatusUnprocessableEntity, "Nama peserta harus diisi.")
	case errors.Is(err, orchestrators.ErrParticipantCompetitionRequired):
		renderAdminParticipants(w, r, http.StatusUnprocessableEntity, "Jenis lomba harus dipilih.")
	case errors.Is(err, participant.ErrInvalidStatus), errors.Is(err, participant.ErrInvalidAction):
		renderAdminParticipants(w, r, http.StatusUnprocessableEntity, "Status tidak dikenal.")
	case errors.Is(err, participant.ErrMissingID):
		renderAdminParticipants(w, r, http.StatusBadRequest, "ID peserta tidak ada.")
	case errors.As(err, &apiErr):
		renderAdminParticipants(w, r, http.StatusBadGateway, apiErr.Describe(r.FormValue("jenisLomba")))
	default:
		slog.Error("participant_admin_failed", "error", err)
		renderAdminParticipants(w, r, http.StatusBadGateway, backendMessage(err))
	}
}

// participantFromForm reads the editable participant fields.
func participantFromForm(r *http.Request) participant.Participant {
	p := participant.Participant{
		Nama:        strings.TrimSpace(r.FormValue("nama")),
		NoTelepon:   strings.TrimSpace(r.FormValue("noTelepon")),
		JenisLomba:  r.FormValue("jenisLomba"),
		Status:      r.FormValue("status"),
		Babak:       strings.TrimSpace(r.FormValue("babak")),
		CatatanJuri: strings.TrimSpace(r.FormValue("catatanJuri")),
	}
	if n, ok := formInt(r, "usia"); ok {
		p.Usia = n
	}
	if n, ok := formInt(r, "ranking"); ok {
		p.Ranking = n
	}
	if n, ok := formInt(r, "waktuPenyelesaian"); ok {
		p.WaktuPenyelesaian = n
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("skor")), 64); err == nil {
		p.Skor = f
	}
	return p
}

// handleAdminAddParticipant handles POST /admin/peserta
func handleAdminAddParticipant(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if _, err := orchestrators.ExecuteAddParticipant(r.Context(), participantFromForm(r), participantAdminDeps()); err != nil {
		participantError(w, r, err)
		return
	}
	redirectToParticipants(w, r)
}

// handleAdminUpdateParticipant handles POST /admin/peserta/update. A form
// carrying only id and status changes the status; otherwise the whole record
// is replaced.
func handleAdminUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	id := r.FormValue("id")
	var err error
	if r.FormValue("nama") == "" {
		err = orchestrators.ExecuteUpdateParticipantStatus(r.Context(), id, r.FormValue("status"), participantAdminDeps())
	} else {
		_, err = orchestrators.ExecuteUpdateParticipant(r.Context(), id, participantFromForm(r), participantAdminDeps())
	}
	if err != nil {
		participantError(w, r, err)
		return
	}
	redirectToParticipants(w, r)
}

// handleAdminDeleteParticipant handles POST /admin/peserta/delete
func handleAdminDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteDeleteParticipant(r.Context(), r.FormValue("id"), participantAdminDeps()); err != nil {
		participantError(w, r, err)
		return
	}
	redirectToParticipants(w, r)
}

// handleAdminParticipantAction handles POST /admin/peserta/action
func handleAdminParticipantAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if _, err := orchestrators.ExecuteParticipantAction(r.Context(), r.FormValue("id"), r.FormValue("action"), participantAdminDeps()); err != nil {
		participantError(w, r, err)
		return
	}
	redirectToParticipants(w, r)
}

func legacyDeps() orchestrators.LegacyDeps {
	return orchestrators.LegacyDeps{Store: app.Legacy, GenerateID: generateID, Now: timeNow}
}

// handleLegacyList handles GET /admin/legacy
func handleLegacyList(w http.ResponseWriter, r *http.Request) {
	renderLegacyList(w, r, http.StatusOK, nil)
}

func renderLegacyList(w http.ResponseWriter, r *http.Request, status int, errs participant.FieldErrors) {
	ctx := r.Context()
	list := app.Legacy.Load(ctx)
	catalogList := app.Catalog.Competitions(ctx)
	rows := make([]map[string]any, len(list))
	for i, p := range list {
		names := make([]string, len(p.Competitions))
		for j, id := range p.Competitions {
			names[j] = competition.NameByID(catalogList, id)
		}
		rows[i] = map[string]any{"P": p, "Names": names}
	}
	renderTemplate(w, r, status, "admin_legacy.html", map[string]any{
		"Title":        "Daftar Peserta Lokal",
		"Rows":         rows,
		"Competitions": catalogList,
		"Errors":       errs,
	})
}

// handleLegacySave handles POST /admin/legacy
func handleLegacySave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	age, _ := formInt(r, "age")
	input := orchestrators.LegacyInput{
		Name:           r.FormValue("name"),
		Age:            age,
		Phone:          r.FormValue("phone"),
		CompetitionIDs: r.Form["competitions"],
	}
	_, err := orchestrators.ExecuteSaveLegacyParticipant(r.Context(), input, legacyDeps())
	var fieldErrs participant.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		renderLegacyList(w, r, http.StatusUnprocessableEntity, fieldErrs)
		return
	case errors.Is(err, export.ErrMissingName):
		renderLegacyList(w, r, http.StatusUnprocessableEntity, participant.FieldErrors{participant.FieldName: "Nama harus diisi"})
		return
	case err != nil:
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/admin/legacy", http.StatusSeeOther)
}

// handleLegacyDelete handles POST /admin/legacy/delete
func handleLegacyDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteDeleteLegacyParticipant(r.Context(), r.FormValue("id"), legacyDeps()); err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/admin/legacy", http.StatusSeeOther)
}

// handleLegacyExport handles GET /admin/export.csv
func handleLegacyExport(w http.ResponseWriter, r *http.Request) {
	result := projections.QueryLegacyExport(r.Context(), projections.GetLegacyExportDeps{
		Legacy:   app.Legacy,
		Catalog:  app.Catalog,
		Location: app.Location,
		Now:      timeNow,
	})
	slog.Info("legacy_event", "event", "csv_exported", "rows", result.Rows)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.Write([]byte(result.Body))
}
