package web

import (
	"net/http"

	"autokudos/internal/adapters/http/middleware"
)

func (s *server) registerRoutes(mux *http.ServeMux) {
	// Public
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/pbs", s.handlePBs)
	mux.HandleFunc("POST /api/submissions", s.handleSubmitResult)
	mux.HandleFunc("GET /api/championship/calendar", s.handlePublicCalendar)
	mux.HandleFunc("POST /api/championship/submissions", s.handleSubmitChampionship)
	mux.HandleFunc("GET /api/championship/standings", s.handlePublicStandings)

	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAdmin(h))
	}

	admin("GET /admin", s.handleAdminPage)
	admin("GET /admin/api/stats", s.handleStats)

	// Members
	admin("GET /admin/api/members", s.handleListMembers)
	admin("POST /admin/api/members", s.handleRegisterMember)
	admin("PUT /admin/api/members/{id}", s.handleUpdateMember)
	admin("POST /admin/api/members/{id}/toggle", s.handleToggleMember)
	admin("DELETE /admin/api/members/{id}", s.handleDeleteMember)
	admin("POST /admin/api/members/import", s.handleImportMembers)
	admin("GET /admin/api/members/export", s.handleExportMembers)

	// Race log
	admin("GET /admin/api/results", s.handleRaceLog)
	admin("POST /admin/api/results", s.handleAddResult)
	admin("PUT /admin/api/results/{id}", s.handleEditResult)
	admin("DELETE /admin/api/results/{id}", s.handleDeleteResult)
	admin("POST /admin/api/results/dedupe", s.handleDedupe)
	admin("POST /admin/api/results/wipe", s.handleWipe)
	admin("POST /admin/api/results/import", s.handleImportResults)
	admin("GET /admin/api/results/export", s.handleExportResults)
	admin("POST /admin/api/results/assign-ids", s.handleAssignIDs)

	// Submission queue
	admin("GET /admin/api/submissions", s.handleSubmissionReview)
	admin("POST /admin/api/submissions/{id}/approve", s.handleApproveSubmission)
	admin("POST /admin/api/submissions/{id}/reject", s.handleRejectSubmission)

	// Championship
	admin("GET /admin/api/championship/calendar", s.handleGetCalendar)
	admin("PUT /admin/api/championship/calendar", s.handleSaveCalendar)
	admin("GET /admin/api/championship/winners", s.handleGetWinners)
	admin("PUT /admin/api/championship/winners", s.handleSaveWinners)
	admin("GET /admin/api/championship/review", s.handleChampionshipReview)
	admin("POST /admin/api/championship/pending/{id}/approve", s.handleApproveChampionship)
	admin("POST /admin/api/championship/pending/{id}/reject", s.handleRejectChampionship)
	admin("GET /admin/api/championship/standings", s.handleAdminStandings)
	admin("POST /admin/api/championship/clear", s.handleClearStandings)
	admin("POST /admin/api/championship/import", s.handleImportChampionship)
	admin("GET /admin/api/championship/export", s.handleExportStandings)

	// Settings
	admin("GET /admin/api/settings", s.handleGetSettings)
	admin("POST /admin/api/settings", s.handleUpdateSettings)
	admin("POST /admin/api/password", s.handleChangePassword)
}
