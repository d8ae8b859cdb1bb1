package web

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"autokudos/internal/application/listutil"
	"autokudos/internal/application/orchestrators"
	"autokudos/internal/application/projections"
	"autokudos/internal/domain/category"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
	"autokudos/internal/domain/settings"
)

// adminPage is the console: both review queues, the member roster and the
// settings form.
type adminPage struct {
	Settings     settings.Settings
	Submissions  []projections.SubmissionReview
	Championship []projections.ChampionshipReview
	Members      projections.GetMemberListResult
	MemberNames  []string
	Distances    []string
	Genders      []string
	AgeModes     []category.Mode
}

func (s *server) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := s.stores.Settings.Load(ctx)
	if err != nil {
		internalError(w, err)
		return
	}
	subs, err := projections.QueryGetSubmissionReview(ctx, s.submissionReviewDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	champ, err := projections.QueryGetChampionshipReview(ctx, s.championshipReviewDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	params := listutil.Parse(r.URL.Query(), nil, projections.MemberListFilters)
	params.PerPage = listutil.PerPageOptions[len(listutil.PerPageOptions)-1]
	members, err := projections.QueryGetMemberList(ctx, params, s.memberListDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	names := make([]string, 0, len(members.Members))
	for _, m := range members.Members {
		names = append(names, m.Name)
	}

	renderTemplate(w, r, "admin.html", adminPage{
		Settings:     st,
		Submissions:  subs,
		Championship: champ,
		Members:      members,
		MemberNames:  names,
		Distances:    result.Distances,
		Genders:      member.Genders,
		AgeModes:     []category.Mode{category.Mode10Year, category.Mode5Year},
	})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	reqTotal, reqSlow := s.requests.Counts()
	out := map[string]any{
		"requests": map[string]int64{"total": reqTotal, "slow": reqSlow},
	}
	if s.queries != nil {
		qTotal, qSlow := s.queries.Counts()
		out["queries"] = map[string]int64{"total": qTotal, "slow": qSlow}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) submissionReviewDeps() projections.GetSubmissionReviewDeps {
	return projections.GetSubmissionReviewDeps{
		Pending: s.stores.Pending,
		Members: s.stores.Members,
		Results: s.stores.Results,
	}
}

func (s *server) memberListDeps() projections.GetMemberListDeps {
	return projections.GetMemberListDeps{
		Members:  s.stores.Members,
		Results:  s.stores.Results,
		Settings: s.stores.Settings,
		Today:    s.today(),
	}
}

// --- Members ---

func (s *server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	params := listutil.Parse(r.URL.Query(), nil, projections.MemberListFilters)
	list, err := projections.QueryGetMemberList(r.Context(), params, s.memberListDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type memberRequest struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	DOB    string `json:"date_of_birth"`
	Status string `json:"status,omitempty"`
}

func (s *server) decodeMember(w http.ResponseWriter, r *http.Request) (memberRequest, bool) {
	var req memberRequest
	if isJSONRequest(r) {
		if err := strictDecode(w, r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return req, false
		}
		return req, true
	}
	return memberRequest{
		Name:   r.FormValue("name"),
		Gender: r.FormValue("gender"),
		DOB:    r.FormValue("date_of_birth"),
		Status: r.FormValue("status"),
	}, true
}

func (s *server) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeMember(w, r)
	if !ok {
		return
	}
	m, err := orchestrators.ExecuteRegisterMember(r.Context(), orchestrators.RegisterMemberInput{
		Name:   req.Name,
		Gender: req.Gender,
		DOB:    req.DOB,
	}, s.memberDeps())
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	done(w, r, "/admin", "Added "+m.Name+".", http.StatusCreated, m)
}

func (s *server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeMember(w, r)
	if !ok {
		return
	}
	m, err := orchestrators.ExecuteUpdateMember(r.Context(), orchestrators.UpdateMemberInput{
		ID:     r.PathValue("id"),
		Name:   req.Name,
		Gender: req.Gender,
		DOB:    req.DOB,
		Status: req.Status,
	}, s.memberDeps())
	if err != nil {
		fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *server) handleToggleMember(w http.ResponseWriter, r *http.Request) {
	m, err := orchestrators.ExecuteToggleMemberStatus(r.Context(), r.PathValue("id"), s.memberDeps())
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	done(w, r, "/admin", fmt.Sprintf("%s is now %s.", m.Name, m.Status), http.StatusOK, m)
}

func (s *server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteMember(r.Context(), r.PathValue("id"), s.memberDeps()); err != nil {
		fail(w, r, "", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// uploadReader returns the uploaded CSV: the "file" part of a multipart
// form, or the raw request body.
func uploadReader(w http.ResponseWriter, r *http.Request) (io.Reader, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
	return r.Body, func() {}, nil
}

func queryFlag(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func (s *server) handleImportMembers(w http.ResponseWriter, r *http.Request) {
	body, closeFn, err := uploadReader(w, r)
	if err != nil {
		badRequest(w, "a CSV file is required")
		return
	}
	defer closeFn()
	res, err := orchestrators.ExecuteImportMembers(r.Context(), orchestrators.ImportMembersInput{
		Reader:     body,
		DryRun:     queryFlag(r, "dry_run"),
		UpdateMode: queryFlag(r, "update"),
	}, orchestrators.ImportMembersDeps{Members: s.stores.Members, GenerateID: s.generateID})
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	msg := fmt.Sprintf("Members: %d created, %d updated, %d skipped, %d rows with errors.",
		res.Created, res.Updated, res.Skipped, len(res.Errors))
	done(w, r, "/admin", msg, http.StatusOK, res)
}

func csvAttachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}

func (s *server) handleExportMembers(w http.ResponseWriter, r *http.Request) {
	csvAttachment(w, "members.csv")
	if err := projections.ExportMembersCSV(r.Context(), w, s.stores.Members); err != nil {
		internalError(w, err)
	}
}

// --- Race log ---

func (s *server) handleRaceLog(w http.ResponseWriter, r *http.Request) {
	params := listutil.Parse(r.URL.Query(), projections.RaceLogSortColumns, projections.RaceLogFilters)
	log, err := projections.QueryGetRaceLog(r.Context(), params, s.stores.Results)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

type manualResultRequest struct {
	MemberName  string `json:"member_name"`
	Distance    string `json:"distance"`
	TimeDisplay string `json:"time_display"`
	Location    string `json:"location"`
	RaceDate    string `json:"race_date"`
}

func (s *server) handleAddResult(w http.ResponseWriter, r *http.Request) {
	var req manualResultRequest
	if isJSONRequest(r) {
		if err := strictDecode(w, r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	} else {
		req = manualResultRequest{
			MemberName:  r.FormValue("member_name"),
			Distance:    r.FormValue("distance"),
			TimeDisplay: r.FormValue("time_display"),
			Location:    r.FormValue("location"),
			RaceDate:    r.FormValue("race_date"),
		}
	}
	res, err := orchestrators.ExecuteAddManualResult(r.Context(), orchestrators.AddManualResultInput(req), s.approveDeps())
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	msg := "Result added."
	if res.Duplicate {
		msg = "Result added. This runner already has a result on that date."
	}
	done(w, r, "/admin", msg, http.StatusCreated, res)
}

type editResultRequest struct {
	TimeDisplay string `json:"time_display"`
	RaceDate    string `json:"race_date"`
	Location    string `json:"location"`
}

func (s *server) handleEditResult(w http.ResponseWriter, r *http.Request) {
	var req editResultRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	res, err := orchestrators.ExecuteEditResult(r.Context(), orchestrators.EditResultInput{
		ID:          r.PathValue("id"),
		TimeDisplay: req.TimeDisplay,
		RaceDate:    req.RaceDate,
		Location:    req.Location,
	}, s.raceLogDeps())
	if err != nil {
		fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteResult(r.Context(), r.PathValue("id"), s.raceLogDeps()); err != nil {
		fail(w, r, "", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDedupe(w http.ResponseWriter, r *http.Request) {
	res, err := orchestrators.ExecuteDeduplicateResults(r.Context(), s.raceLogDeps())
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	done(w, r, "/admin", fmt.Sprintf("Cleaned %d results down to %d.", res.Original, res.Final), http.StatusOK, res)
}

// confirmed reads the confirmation flag of a destructive request.
func confirmed(w http.ResponseWriter, r *http.Request) (bool, bool) {
	if isJSONRequest(r) {
		var req struct {
			Confirm bool `json:"confirm"`
		}
		if err := strictDecode(w, r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return false, false
		}
		return req.Confirm, true
	}
	switch strings.ToLower(r.FormValue("confirm")) {
	case "1", "true", "yes", "on":
		return true, true
	}
	return false, true
}

func (s *server) handleWipe(w http.ResponseWriter, r *http.Request) {
	confirm, ok := confirmed(w, r)
	if !ok {
		return
	}
	if err := orchestrators.ExecuteWipeResults(r.Context(), confirm, s.raceLogDeps()); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	done(w, r, "/admin", "All results deleted.", http.StatusOK, nil)
}

func (s *server) handleImportResults(w http.ResponseWriter, r *http.Request) {
	body, closeFn, err := uploadReader(w, r)
	if err != nil {
		badRequest(w, "a CSV file is required")
		return
	}
	defer closeFn()
	res, err := orchestrators.ExecuteImportResults(r.Context(), orchestrators.ImportResultsInput{
		Reader: body,
		DryRun: queryFlag(r, "dry_run"),
	}, orchestrators.ImportResultsDeps{
		Members:    s.stores.Members,
		Results:    s.stores.Results,
		GenerateID: s.generateID,
	})
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	msg := fmt.Sprintf("Results: %d imported (%d on dates the runner already had), %d rows with errors.",
		res.Imported, res.Duplicates, len(res.Errors))
	done(w, r, "/admin", msg, http.StatusOK, res)
}

func (s *server) handleExportResults(w http.ResponseWriter, r *http.Request) {
	csvAttachment(w, "race_results.csv")
	if err := projections.ExportResultsCSV(r.Context(), w, s.stores.Results); err != nil {
		internalError(w, err)
	}
}

func (s *server) handleAssignIDs(w http.ResponseWriter, r *http.Request) {
	res, err := orchestrators.ExecuteAssignIDs(r.Context(), orchestrators.AssignIDsDeps{
		Members:      s.stores.Members,
		Results:      s.stores.Results,
		Pending:      s.stores.Pending,
		ChampPending: s.stores.ChampPending,
		Standings:    s.stores.ChampStandings,
		GenerateID:   s.generateID,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- Submission queue ---

func (s *server) handleSubmissionReview(w http.ResponseWriter, r *http.Request) {
	subs, err := projections.QueryGetSubmissionReview(r.Context(), s.submissionReviewDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *server) handleApproveSubmission(w http.ResponseWriter, r *http.Request) {
	var req manualResultRequest
	if isJSONRequest(r) {
		if r.ContentLength != 0 {
			if err := strictDecode(w, r, &req); err != nil {
				badRequest(w, "invalid JSON body")
				return
			}
		}
	} else {
		req = manualResultRequest{
			MemberName:  r.FormValue("member_name"),
			Distance:    r.FormValue("distance"),
			TimeDisplay: r.FormValue("time_display"),
			Location:    r.FormValue("location"),
			RaceDate:    r.FormValue("race_date"),
		}
	}
	res, err := orchestrators.ExecuteApproveSubmission(r.Context(), orchestrators.ApproveSubmissionInput{
		PendingID:   r.PathValue("id"),
		MemberName:  req.MemberName,
		Distance:    req.Distance,
		TimeDisplay: req.TimeDisplay,
		Location:    req.Location,
		RaceDate:    req.RaceDate,
	}, s.approveDeps())
	if err != nil {
		fail(w, r, "/admin", err)
		return
	}
	msg := "Approved " + res.Result.Name + "."
	if res.Duplicate {
		msg += " They already had a result on that date."
	}
	done(w, r, "/admin", msg, http.StatusOK, res)
}

func (s *server) handleRejectSubmission(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteRejectSubmission(r.Context(), r.PathValue("id"), s.approveDeps()); err != nil {
		fail(w, r, "/admin", err)
		return
	}
	done(w, r, "/admin", "Submission rejected.", http.StatusOK, nil)
}
