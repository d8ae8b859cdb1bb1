package web

import (
	"net/http"
	"strconv"

	"autokudos/internal/adapters/http/middleware"
	"autokudos/internal/application/orchestrators"
)

func (s *server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.stores.Settings.Load(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type updateSettingsRequest struct {
	Version             int64    `json:"version"`
	LogoURL             string   `json:"logo_url"`
	AgeMode             string   `json:"age_mode"`
	VisibleDistances    []string `json:"visible_distances"`
	ShowChampionshipTab bool     `json:"show_champ_tab"`
	ClubNotes           string   `json:"club_notes"`
}

func (s *server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if isJSONRequest(r) {
		if err := strictDecode(w, r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			badRequest(w, "invalid form")
			return
		}
		version, err := strconv.ParseInt(r.FormValue("version"), 10, 64)
		if err != nil {
			badRequest(w, "version is required")
			return
		}
		req = updateSettingsRequest{
			Version:             version,
			LogoURL:             r.FormValue("logo_url"),
			AgeMode:             r.FormValue("age_mode"),
			VisibleDistances:    formList(r, "visible_distances"),
			ShowChampionshipTab: r.FormValue("show_champ_tab") != "",
			ClubNotes:           r.FormValue("club_notes"),
		}
	}

	st, err := orchestrators.ExecuteUpdateSettings(r.Context(), orchestrators.UpdateSettingsInput(req), s.loginDeps())
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	done(w, r, "/admin", "Settings saved.", http.StatusOK, st)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// handleChangePassword stores the new password and ends every admin
// session, including the caller's.
func (s *server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if isJSONRequest(r) {
		if err := strictDecode(w, r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	} else {
		req = changePasswordRequest{
			CurrentPassword: r.FormValue("current_password"),
			NewPassword:     r.FormValue("new_password"),
		}
	}

	if err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput(req), s.loginDeps()); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	s.sessions.DeleteAll()
	middleware.ClearSessionCookie(w, s.secure)
	done(w, r, "/login", "Password changed. Please log in again.", http.StatusOK, nil)
}
