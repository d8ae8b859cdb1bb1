package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"autokudos/internal/adapters/email"
	"autokudos/internal/adapters/http/middleware"
	"autokudos/internal/adapters/storage"
	"autokudos/internal/adapters/storage/backend"
	"autokudos/internal/domain/member"
	"autokudos/internal/domain/result"
)

type testServer struct {
	h      http.Handler
	stores *backend.Stores
	mailer *email.NoopSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}

	n := 0
	stores := backend.SQLite(db)
	mailer := email.NewNoopSender()
	h := NewMux(Options{
		Stores:     stores,
		Mailer:     mailer,
		AdminEmail: "admin@club.test",
		CSRFKey:    bytes.Repeat([]byte{7}, 32),
		Now:        func() time.Time { return time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC) },
		GenerateID: func() string { n++; return fmt.Sprintf("id-%d", n) },
	})
	return &testServer{h: h, stores: stores, mailer: mailer}
}

// do sends a JSON request. body may be nil.
func (ts *testServer) do(t *testing.T, method, path string, body any, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: cookie})
	}
	rr := httptest.NewRecorder()
	ts.h.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	rr := ts.do(t, "POST", "/login", map[string]string{"password": "admin123"}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c.Value
		}
	}
	t.Fatal("no session cookie set")
	return ""
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func (ts *testServer) seedMember(t *testing.T, name, gender, dob, status string) {
	t.Helper()
	m := member.Member{ID: "m-" + name, Name: name, Gender: gender, DOB: dob, Status: status}
	if err := ts.stores.Members.Append(context.Background(), m); err != nil {
		t.Fatalf("seed member: %v", err)
	}
}

func TestSubmissionToLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	ts.seedMember(t, "Ann Smith", member.GenderFemale, "1980-06-15", member.StatusActive)

	rr := ts.do(t, "POST", "/api/submissions", map[string]string{
		"name":         "ann smith",
		"distance":     "5K",
		"time_display": "22:10",
		"location":     "Parkrun",
		"race_date":    "2026-03-01",
	}, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if got := len(ts.mailer.Sent()); got != 1 {
		t.Errorf("notifications sent = %d, want 1", got)
	}
	pendingID := decode[result.Pending](t, rr).ID

	if rr := ts.do(t, "GET", "/admin/api/submissions", nil, ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated review status = %d, want 401", rr.Code)
	}

	cookie := ts.login(t)
	type review struct {
		Matched   bool   `json:"matched"`
		Suggested string `json:"suggested"`
	}
	reviews := decode[[]review](t, ts.do(t, "GET", "/admin/api/submissions", nil, cookie))
	if len(reviews) != 1 || reviews[0].Matched || reviews[0].Suggested != "Ann Smith" {
		t.Fatalf("reviews = %+v, want one unmatched with suggestion", reviews)
	}

	approvePath := "/admin/api/submissions/" + pendingID + "/approve"
	if rr := ts.do(t, "POST", approvePath, map[string]string{}, cookie); rr.Code != http.StatusConflict {
		t.Errorf("approve unresolved status = %d, want 409", rr.Code)
	}
	rr = ts.do(t, "POST", approvePath, map[string]string{"member_name": "Ann Smith"}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, "GET", "/api/leaderboard?distance=5k&gender=female", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("leaderboard status = %d", rr.Code)
	}
	type board struct {
		Boards []struct {
			Distance string `json:"distance"`
			Genders  []struct {
				Gender  string `json:"gender"`
				Leaders []struct {
					Category    string `json:"category"`
					Name        string `json:"name"`
					TimeDisplay string `json:"time_display"`
				} `json:"leaders"`
			} `json:"genders"`
		} `json:"boards"`
	}
	b := decode[board](t, rr)
	if len(b.Boards) != 1 || len(b.Boards[0].Genders) != 1 {
		t.Fatalf("boards = %+v", b.Boards)
	}
	leaders := b.Boards[0].Genders[0].Leaders
	if len(leaders) != 1 || leaders[0].Name != "Ann Smith" || leaders[0].Category != "V40" || leaders[0].TimeDisplay != "00:22:10" {
		t.Errorf("leaders = %+v, want Ann Smith V40 00:22:10", leaders)
	}
}

func TestPublicAPI_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"bad season", "/api/leaderboard?season=last", http.StatusBadRequest},
		{"unknown distance", "/api/leaderboard?distance=3k", http.StatusNotFound},
		{"pbs without name", "/api/pbs", http.StatusBadRequest},
		{"pbs unknown runner", "/api/pbs?name=Nobody", http.StatusOK},
		{"all-time season", "/api/leaderboard?season=all", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := ts.do(t, "GET", tt.path, nil, ""); rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestSubmit_Rejected(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, "POST", "/api/submissions", map[string]string{
		"name": "Ann", "distance": "3k", "time_display": "10:00", "location": "x", "race_date": "2026-01-01",
	}, "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rr.Code)
	}
	if rr := ts.do(t, "POST", "/api/submissions", map[string]string{"nickname": "x"}, ""); rr.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", rr.Code)
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	if rr := ts.do(t, "POST", "/login", map[string]string{"password": "wrong"}, ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rr.Code)
	}
	cookie := ts.login(t)
	if rr := ts.do(t, "GET", "/admin/api/settings", nil, cookie); rr.Code != http.StatusOK {
		t.Errorf("settings with session = %d, want 200", rr.Code)
	}
	if rr := ts.do(t, "POST", "/logout", nil, cookie); rr.Code != http.StatusNoContent {
		t.Errorf("logout status = %d, want 204", rr.Code)
	}
	if rr := ts.do(t, "GET", "/admin/api/settings", nil, cookie); rr.Code != http.StatusUnauthorized {
		t.Errorf("settings after logout = %d, want 401", rr.Code)
	}
}

func TestChangePassword_EndsSessions(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t)

	rr := ts.do(t, "POST", "/admin/api/password", map[string]string{
		"current_password": "admin123",
		"new_password":     "a much longer secret",
	}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("change status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if rr := ts.do(t, "GET", "/admin/api/settings", nil, cookie); rr.Code != http.StatusUnauthorized {
		t.Errorf("old session still valid: %d", rr.Code)
	}
	if rr := ts.do(t, "POST", "/login", map[string]string{"password": "admin123"}, ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("old password status = %d, want 401", rr.Code)
	}
	if rr := ts.do(t, "POST", "/login", map[string]string{"password": "a much longer secret"}, ""); rr.Code != http.StatusOK {
		t.Errorf("new password status = %d, want 200", rr.Code)
	}
}

func TestSettings_StaleVersionAndHiddenChampionship(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t)

	type settingsView struct {
		Version int64 `json:"version"`
	}
	v := decode[settingsView](t, ts.do(t, "GET", "/admin/api/settings", nil, cookie)).Version

	update := map[string]any{
		"version":           v,
		"logo_url":          "",
		"age_mode":          "5Y",
		"visible_distances": []string{"5k", "10k"},
		"show_champ_tab":    false,
		"club_notes":        "**Welcome** runners",
	}
	if rr := ts.do(t, "POST", "/admin/api/settings", update, cookie); rr.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if rr := ts.do(t, "POST", "/admin/api/settings", update, cookie); rr.Code != http.StatusConflict {
		t.Errorf("stale update status = %d, want 409", rr.Code)
	}

	if rr := ts.do(t, "GET", "/api/championship/standings", nil, ""); rr.Code != http.StatusNotFound {
		t.Errorf("hidden standings status = %d, want 404", rr.Code)
	}
	if rr := ts.do(t, "GET", "/admin/api/championship/standings", nil, cookie); rr.Code != http.StatusOK {
		t.Errorf("admin standings status = %d, want 200", rr.Code)
	}
	if rr := ts.do(t, "GET", "/api/leaderboard?distance=Marathon", nil, ""); rr.Code != http.StatusNotFound {
		t.Errorf("hidden distance status = %d, want 404", rr.Code)
	}
}

func TestIndex_RendersNotesAndGhosts(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	ts.seedMember(t, "Old Timer", member.GenderMale, "1950-01-01", member.StatusLeft)
	r := result.RaceResult{ID: "r1", Name: "Old Timer", Gender: member.GenderMale, DOB: "1950-01-01",
		Distance: result.Distance10K, Location: "Town 10k", RaceDate: "2025-05-05"}
	if err := r.SetTime("40:00"); err != nil {
		t.Fatal(err)
	}
	if err := ts.stores.Results.Append(ctx, r); err != nil {
		t.Fatal(err)
	}
	st, err := ts.stores.Settings.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	st.ClubNotes = "**Welcome** runners <script>alert(1)</script>"
	if _, err := ts.stores.Settings.Save(ctx, st); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/?season=2025", nil)
	req.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	ts.h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{"<strong>Welcome</strong>", `class="ghosted"`, "Old Timer", "00:40:00"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("raw HTML in club notes was rendered")
	}
}

func TestRaceLogMaintenance(t *testing.T) {
	ts := newTestServer(t)
	ts.seedMember(t, "Ann Smith", member.GenderFemale, "1980-06-15", member.StatusActive)
	cookie := ts.login(t)

	for _, tm := range []string{"25:00", "24:00"} {
		rr := ts.do(t, "POST", "/admin/api/results", map[string]string{
			"member_name": "Ann Smith", "distance": "5k", "time_display": tm,
			"location": "Parkrun", "race_date": "2026-03-07",
		}, cookie)
		if rr.Code != http.StatusCreated {
			t.Fatalf("add status = %d, body = %s", rr.Code, rr.Body.String())
		}
	}

	type dedupe struct {
		Original int `json:"original_count"`
		Final    int `json:"final_count"`
	}
	d := decode[dedupe](t, ts.do(t, "POST", "/admin/api/results/dedupe", nil, cookie))
	if d.Original != 2 || d.Final != 1 {
		t.Errorf("dedupe = %+v, want 2 -> 1", d)
	}

	if rr := ts.do(t, "POST", "/admin/api/results/wipe", map[string]bool{"confirm": false}, cookie); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("unconfirmed wipe status = %d, want 422", rr.Code)
	}
	if rr := ts.do(t, "POST", "/admin/api/results/wipe", map[string]bool{"confirm": true}, cookie); rr.Code != http.StatusOK {
		t.Errorf("wipe status = %d, want 200", rr.Code)
	}
	all, err := ts.stores.Results.List(context.Background())
	if err != nil || len(all) != 0 {
		t.Errorf("results after wipe = %d (%v), want 0", len(all), err)
	}

	if rr := ts.do(t, "DELETE", "/admin/api/results/missing", nil, cookie); rr.Code != http.StatusNotFound {
		t.Errorf("delete unknown status = %d, want 404", rr.Code)
	}
}

func TestImportMembers_RawCSV(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t)

	csvBody := "name,gender,dob\nAnn Smith,F,1980-06-15\nBob Jones,m,1975-01-02\n"
	req := httptest.NewRequest("POST", "/admin/api/members/import", strings.NewReader(csvBody))
	req.Header.Set("Content-Type", "text/csv")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: cookie})
	rr := httptest.NewRecorder()
	ts.h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	type summary struct {
		Created int `json:"created"`
	}
	if got := decode[summary](t, rr).Created; got != 2 {
		t.Errorf("created = %d, want 2", got)
	}

	rr = ts.do(t, "GET", "/admin/api/members/export", nil, cookie)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("export content type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Bob Jones,Male,1975-01-02,Active") {
		t.Errorf("export missing Bob Jones:\n%s", rr.Body.String())
	}
}

func TestChampionshipFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.seedMember(t, "Ann Smith", member.GenderFemale, "1980-06-15", member.StatusActive)
	cookie := ts.login(t)

	rr := ts.do(t, "PUT", "/admin/api/championship/winners", map[string]any{
		"race":  "Race 1",
		"times": map[string]string{"Female_V45": "20:00"},
	}, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("winners status = %d, body = %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, "POST", "/api/championship/submissions", map[string]string{
		"name": "Ann Smith", "race_name": "Race 1", "time_display": "25:00", "date": "2026-03-01",
	}, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body = %s", rr.Code, rr.Body.String())
	}
	id := decode[struct {
		ID string `json:"id"`
	}](t, rr).ID

	rr = ts.do(t, "POST", "/admin/api/championship/pending/"+id+"/approve", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body = %s", rr.Code, rr.Body.String())
	}
	type standing struct {
		Points   float64 `json:"points"`
		Category string  `json:"category"`
	}
	if s := decode[standing](t, rr); s.Points != 80 || s.Category != "V45" {
		t.Errorf("standing = %+v, want 80 points in V45", s)
	}

	type table struct {
		Table []struct {
			Name  string  `json:"name"`
			Total float64 `json:"total"`
		} `json:"table"`
	}
	tb := decode[table](t, ts.do(t, "GET", "/api/championship/standings", nil, ""))
	if len(tb.Table) != 1 || tb.Table[0].Total != 80 {
		t.Errorf("table = %+v", tb.Table)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("remove: %w", storage.ErrNotFound), http.StatusNotFound},
		{"validation", member.ErrInvalidDOB, http.StatusUnprocessableEntity},
		{"conflict", storage.ErrConflict, http.StatusConflict},
		{"internal", fmt.Errorf("disk on fire"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
