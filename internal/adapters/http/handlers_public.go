package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"autokudos/internal/adapters/http/middleware"
	"autokudos/internal/application/orchestrators"
	"autokudos/internal/application/projections"
	"autokudos/internal/domain/member"
)

// indexPage is the public page: leaderboard, PB lookup, submission forms
// and, when switched on, the championship tab.
type indexPage struct {
	Board     projections.GetLeaderboardResult
	Distance  string
	Distances []string
	Genders   []string
	PBName    string
	PBs       *projections.GetPBsResult
	Races     []string
	Standings *projections.GetStandingsResult
	Today     string
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	season, err := parseSeason(r.URL.Query().Get("season"))
	if err != nil {
		season = 0
	}
	st, err := s.stores.Settings.Load(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	page := indexPage{
		Distance:  r.URL.Query().Get("distance"),
		Distances: st.VisibleDistances,
		Genders:   member.Genders,
		PBName:    strings.TrimSpace(r.URL.Query().Get("name")),
		Today:     s.today(),
	}
	query := projections.GetLeaderboardQuery{Season: season, Distance: page.Distance}
	page.Board, err = projections.QueryGetLeaderboard(ctx, query, s.leaderboardDeps())
	if errors.Is(err, projections.ErrDistanceHidden) {
		page.Distance = ""
		query.Distance = ""
		page.Board, err = projections.QueryGetLeaderboard(ctx, query, s.leaderboardDeps())
	}
	if err != nil {
		internalError(w, err)
		return
	}

	if page.PBName != "" {
		pbs, err := projections.QueryGetPBs(ctx, page.PBName, s.stores.Results)
		if err != nil {
			internalError(w, err)
			return
		}
		page.PBs = &pbs
	}

	if page.Board.ShowChampionshipTab {
		standings, err := projections.QueryGetStandings(ctx, true, s.standingsDeps())
		if err != nil {
			internalError(w, err)
			return
		}
		page.Standings = &standings
		page.Races = standings.Calendar.RaceNames()
	}

	renderTemplate(w, r, "index.html", page)
}

// parseSeason reads the season selector. Empty and "all" mean all-time.
func parseSeason(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") || strings.EqualFold(v, "all-time") {
		return 0, nil
	}
	year, err := strconv.Atoi(v)
	if err != nil || year < 1900 || year > 9999 {
		return 0, errors.New("season must be a year or \"all\"")
	}
	return year, nil
}

func (s *server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	season, err := parseSeason(q.Get("season"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	board, err := projections.QueryGetLeaderboard(r.Context(), projections.GetLeaderboardQuery{
		Season:   season,
		Distance: q.Get("distance"),
		Gender:   member.NormalizeGender(q.Get("gender")),
	}, s.leaderboardDeps())
	if err != nil {
		fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *server) handlePBs(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		badRequest(w, "name is required")
		return
	}
	pbs, err := projections.QueryGetPBs(r.Context(), name, s.stores.Results)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pbs)
}

type submitResultRequest struct {
	Name        string `json:"name"`
	Distance    string `json:"distance"`
	TimeDisplay string `json:"time_display"`
	Location    string `json:"location"`
	RaceDate    string `json:"race_date"`
}

func (s *server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	var req submitResultRequest
	if isJSONRequest(r) {
		if err := strictDecode(w, r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	} else {
		req = submitResultRequest{
			Name:        r.FormValue("name"),
			Distance:    r.FormValue("distance"),
			TimeDisplay: r.FormValue("time_display"),
			Location:    r.FormValue("location"),
			RaceDate:    r.FormValue("race_date"),
		}
	}

	p, err := orchestrators.ExecuteSubmitResult(r.Context(), orchestrators.SubmitResultInput(req), orchestrators.SubmitResultDeps{
		Pending:    s.stores.Pending,
		GenerateID: s.generateID,
		Now:        s.now,
		Mailer:     s.mailer,
		AdminEmail: s.adminEmail,
	})
	if err != nil {
		fail(w, r, "/", err)
		return
	}
	done(w, r, "/", "Thanks! Your result is waiting for approval.", http.StatusCreated, p)
}

func (s *server) handlePublicCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := s.stores.Championship.Calendar(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"calendar": cal, "races": cal.RaceNames()})
}

type submitChampionshipRequest struct {
	Name        string `json:"name"`
	RaceName    string `json:"race_name"`
	TimeDisplay string `json:"time_display"`
	Date        string `json:"date"`
}

func (s *server) handleSubmitChampionship(w http.ResponseWriter, r *http.Request) {
	var req submitChampionshipRequest
	if isJSONRequest(r) {
		if err := strictDecode(w, r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	} else {
		req = submitChampionshipRequest{
			Name:        r.FormValue("name"),
			RaceName:    r.FormValue("race_name"),
			TimeDisplay: r.FormValue("time_display"),
			Date:        r.FormValue("date"),
		}
	}

	p, err := orchestrators.ExecuteSubmitChampionship(r.Context(), orchestrators.SubmitChampionshipInput(req), s.championshipDeps())
	if err != nil {
		fail(w, r, "/", err)
		return
	}
	done(w, r, "/", "Championship entry received.", http.StatusCreated, p)
}

func (s *server) handlePublicStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := projections.QueryGetStandings(r.Context(), true, s.standingsDeps())
	if err != nil {
		fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

func (s *server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAdmin(r.Context()) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	renderTemplate(w, r, "login.html", nil)
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var password string
	if isJSONRequest(r) {
		var req struct {
			Password string `json:"password"`
		}
		if err := strictDecode(w, r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		password = req.Password
	} else {
		password = r.FormValue("password")
	}

	if err := orchestrators.ExecuteAdminLogin(r.Context(), password, s.loginDeps()); err != nil {
		fail(w, r, "/login", err)
		return
	}
	token, err := s.sessions.Create()
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, s.secure)
	slog.Info("admin_session_created")
	if isHTMLRequest(r) && !isJSONRequest(r) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w, s.secure)
	if isHTMLRequest(r) && !isJSONRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
