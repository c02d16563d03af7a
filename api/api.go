// Package api implements the HTTP surface of kitegate: the Kite Connect
// login flow and the read-only account queries it proxies.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/awnumar/memguard"
	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/rjoshi/kitegate/config"
	"github.com/rjoshi/kitegate/kite"
	"github.com/rjoshi/kitegate/tokenstore"
)

// ClientFactory builds a per-request Kite client bound to the given access
// token (empty for unauthenticated clients). Factories must be pure
// construction; no I/O.
type ClientFactory func(accessToken string) *kite.Client

// API holds the dependencies needed by the HTTP handlers.
type API struct {
	cfg       *config.Config
	apiSecret *memguard.Enclave
	sessions  SessionStore
	tokens    tokenstore.Store
	newClient ClientFactory
	audit     *auditLogger
}

//go:embed openapi.yaml
var openapiSpec []byte

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithSessionStore replaces the default in-memory session store.
func WithSessionStore(store SessionStore) Option {
	return func(a *API) {
		a.sessions = store
	}
}

// WithClientFactory replaces the default Kite client factory.
func WithClientFactory(factory ClientFactory) Option {
	return func(a *API) {
		a.newClient = factory
	}
}

// New creates a new API instance. The API secret is sealed in a memguard
// enclave and only opened for the duration of a session exchange.
func New(cfg *config.Config, tokens tokenstore.Store, opts ...Option) *API {
	a := &API{
		cfg:       cfg,
		apiSecret: memguard.NewEnclave([]byte(cfg.APISecret)),
		tokens:    tokens,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.sessions == nil {
		a.sessions = NewMemorySessionStore(0)
	}
	if a.newClient == nil {
		a.newClient = defaultClientFactory(cfg)
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	return a
}

func defaultClientFactory(cfg *config.Config) ClientFactory {
	return func(accessToken string) *kite.Client {
		var opts []kite.Option
		if cfg.KiteAPIURL != "" {
			opts = append(opts, kite.WithBaseURL(cfg.KiteAPIURL))
		}
		if cfg.KiteLoginURL != "" {
			opts = append(opts, kite.WithLoginURL(cfg.KiteLoginURL))
		}
		if accessToken != "" {
			opts = append(opts, kite.WithAccessToken(accessToken))
		}
		return kite.New(cfg.APIKey, opts...)
	}
}

// Router returns a chi.Router with all routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "openapi.yaml",
		Path:    "docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "openapi.yaml",
		Path:    "redoc",
	}, nil))

	r.Get("/", a.Home)
	r.Get("/health", a.Health)
	r.Get("/login", a.Login)
	r.Get("/callback", a.Callback)
	r.Post("/logout", a.Logout)

	// Account queries go through the session guard.
	r.Route("/api", func(r chi.Router) {
		r.Use(a.RequireClient)
		r.Get("/positions", a.Positions)
		r.Get("/holdings", a.Holdings)
		r.Get("/orders", a.Orders)
		r.Get("/summary", a.Summary)
	})

	return r
}
