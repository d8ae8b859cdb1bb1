// Package web serves the public leaderboard and the admin console.
package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"autokudos/internal/adapters/email"
	"autokudos/internal/adapters/http/middleware"
	"autokudos/internal/adapters/storage/backend"
	"autokudos/internal/application/orchestrators"
)

// QueryCounter reports database statement counts. *storage.TimedDB
// satisfies it.
type QueryCounter interface {
	Counts() (total, slow int64)
}

// Options configures NewMux.
type Options struct {
	Stores *backend.Stores

	// Mailer and AdminEmail enable new-submission notifications.
	Mailer     email.Sender
	AdminEmail string
	// Publisher mirrors standings after they change. Optional.
	Publisher orchestrators.StandingsPublisher

	// CSRFKey must be 32 bytes.
	CSRFKey        []byte
	SecureCookies  bool
	TrustedOrigins []string

	// StaticDir is served under /static/ when set.
	StaticDir string
	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit   int
	SlowRequest time.Duration
	// Queries is shown on the admin stats endpoint. Optional.
	Queries QueryCounter

	Now        func() time.Time
	GenerateID func() string
}

type server struct {
	stores     *backend.Stores
	mailer     email.Sender
	adminEmail string
	publisher  orchestrators.StandingsPublisher
	sessions   *middleware.SessionStore
	secure     bool
	requests   *middleware.RequestStats
	queries    QueryCounter
	now        func() time.Time
	generateID func() string
}

// NewMux builds the HTTP handler with the full middleware chain.
// PRE: opts.Stores is set and len(opts.CSRFKey) == 32
func NewMux(opts Options) http.Handler {
	s := &server{
		stores:     opts.Stores,
		mailer:     opts.Mailer,
		adminEmail: opts.AdminEmail,
		publisher:  opts.Publisher,
		sessions:   middleware.NewSessionStore(),
		secure:     opts.SecureCookies,
		requests:   &middleware.RequestStats{},
		queries:    opts.Queries,
		now:        opts.Now,
		generateID: opts.GenerateID,
	}
	if s.mailer == nil {
		s.mailer = email.NewNoopSender()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.generateID == nil {
		s.generateID = generateID
	}

	mux := http.NewServeMux()
	if opts.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}
	s.registerRoutes(mux)

	// Chain wraps inner-first, so the last listed runs first on a request.
	chain := []func(http.Handler) http.Handler{
		middleware.Auth(s.sessions),
		middleware.CSRF(opts.CSRFKey, opts.SecureCookies, opts.TrustedOrigins),
		middleware.SecurityHeaders,
	}
	if opts.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(opts.RateLimit, time.Second)))
	}
	chain = append(chain, middleware.Timing(opts.SlowRequest, s.requests))
	return middleware.Chain(mux, chain...)
}

func generateID() string {
	return uuid.New().String()
}
