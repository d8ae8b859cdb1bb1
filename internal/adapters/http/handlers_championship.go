package web

import (
	"fmt"
	"net/http"

	"autokudos/internal/application/orchestrators"
	"autokudos/internal/application/projections"
	"autokudos/internal/domain/category"
	"autokudos/internal/domain/championship"
	"autokudos/internal/domain/member"
)

func (s *server) championshipReviewDeps() projections.GetChampionshipReviewDeps {
	return projections.GetChampionshipReviewDeps{
		Pending: s.stores.ChampPending,
		Members: s.stores.Members,
		Season:  s.stores.Championship,
	}
}

func (s *server) handleGetCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := s.stores.Championship.Calendar(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"calendar": cal, "terrains": championship.Terrains})
}

func (s *server) handleSaveCalendar(w http.ResponseWriter, r *http.Request) {
	var cal championship.Calendar
	if err := strictDecode(w, r, &cal); err != nil {
		badRequest(w, "expected a JSON array of calendar entries")
		return
	}
	if err := orchestrators.ExecuteSaveCalendar(r.Context(), cal, s.championshipDeps()); err != nil {
		fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"calendar": cal})
}

func (s *server) handleGetWinners(w http.ResponseWriter, r *http.Request) {
	grid, err := s.stores.Championship.Winners(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"grid":       grid,
		"categories": category.ChampionshipBands(),
		"genders":    member.Genders,
	})
}

type saveWinnersRequest struct {
	Race  string            `json:"race"`
	Times map[string]string `json:"times"`
}

func (s *server) handleSaveWinners(w http.ResponseWriter, r *http.Request) {
	var req saveWinnersRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	grid, err := orchestrators.ExecuteSaveWinners(r.Context(), orchestrators.SaveWinnersInput(req), s.championshipDeps())
	if err != nil {
		fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"grid": grid})
}

func (s *server) handleChampionshipReview(w http.ResponseWriter, r *http.Request) {
	review, err := projections.QueryGetChampionshipReview(r.Context(), s.championshipReviewDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *server) handleApproveChampionship(w http.ResponseWriter, r *http.Request) {
	standing, err := orchestrators.ExecuteApproveChampionship(r.Context(), r.PathValue("id"), s.championshipDeps())
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	done(w, r, "/admin", "Scored "+standing.Name+" for "+standing.RaceName+".", http.StatusOK, standing)
}

func (s *server) handleRejectChampionship(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteRejectChampionship(r.Context(), r.PathValue("id"), s.championshipDeps()); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	done(w, r, "/admin", "Championship entry rejected.", http.StatusOK, nil)
}

func (s *server) handleAdminStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := projections.QueryGetStandings(r.Context(), false, s.standingsDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

func (s *server) handleClearStandings(w http.ResponseWriter, r *http.Request) {
	confirm, ok := confirmed(w, r)
	if !ok {
		return
	}
	if err := orchestrators.ExecuteClearStandings(r.Context(), confirm, s.championshipDeps()); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	done(w, r, "/admin", "Championship standings cleared.", http.StatusOK, nil)
}

func (s *server) handleImportChampionship(w http.ResponseWriter, r *http.Request) {
	body, closeFn, err := uploadReader(w, r)
	if err != nil {
		badRequest(w, "a CSV file is required")
		return
	}
	defer closeFn()
	res, err := orchestrators.ExecuteImportChampionship(r.Context(), orchestrators.ImportChampionshipInput{
		Reader: body,
		DryRun: queryFlag(r, "dry_run"),
	}, orchestrators.ImportChampionshipDeps{Standings: s.stores.ChampStandings, GenerateID: s.generateID})
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	msg := fmt.Sprintf("Championship: %d entries imported, %d rows with errors.", res.Imported, len(res.Errors))
	done(w, r, "/admin", msg, http.StatusOK, res)
}

// handleExportStandings writes the master log, or the totals table with
// ?view=table.
func (s *server) handleExportStandings(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("view") == "table" {
		csvAttachment(w, "championship_table.csv")
		if err := projections.ExportStandingsTableCSV(r.Context(), w, s.stores.ChampStandings); err != nil {
			internalError(w, err)
		}
		return
	}
	csvAttachment(w, "championship_results.csv")
	if err := projections.ExportStandingsCSV(r.Context(), w, s.stores.ChampStandings); err != nil {
		internalError(w, err)
	}
}
