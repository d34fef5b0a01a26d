package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/authvault/authvault/internal/vault/service"
	"github.com/authvault/authvault/internal/vault/store"
	"github.com/authvault/authvault/pkg/httpx"
	"github.com/authvault/authvault/pkg/jwtx"
	"github.com/authvault/authvault/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	adminToken   string
	ownerID      string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store              store.Store
	TokenService       *service.TokenService
	TransactionService *service.TransactionService
	ClientService      *service.ClientService
	AuditService       *service.AuditService
}

func NewRouter(
	verifier jwtx.Verifier,
	adminToken, ownerID, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		adminToken:   adminToken,
		ownerID:      ownerID,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth()
	r.registerTransactions()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth() {
	tokenHandler := &TokenHandler{TokenService: r.TokenService}

	// Credential-guessing surface: strict limit by IP.
	r.Mux.Handle("POST /oauth/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
			AuditMiddleware(r.AuditService),
		),
	)
}

func (r *Router) registerTransactions() {
	initiateHandler := &InitiateHandler{TransactionService: r.TransactionService}
	validateHandler := &ValidateHandler{TransactionService: r.TransactionService}

	// Audit sits outside authn so rejected requests are logged too; the
	// auth recorder carries the client id back out when authn succeeds.
	r.Mux.Handle("POST /transaction/initiate",
		httpx.Chain(initiateHandler,
			httpx.RateLimitByClient(httpx.ModerateLimit),
			AuditMiddleware(r.AuditService),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireScope("initiate_transaction"),
		),
	)

	r.Mux.Handle("POST /transaction/validate",
		httpx.Chain(validateHandler,
			httpx.RateLimitByClient(httpx.ModerateLimit),
			AuditMiddleware(r.AuditService),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireScope("execute_transaction"),
		),
	)
}

func (r *Router) registerAdmin() {
	clientsHandler := &AdminClientsHandler{ClientService: r.ClientService, OwnerID: r.ownerID}
	dashboardHandler := &AdminDashboardHandler{ClientService: r.ClientService, OwnerID: r.ownerID}

	admin := func(h http.Handler) http.Handler {
		return httpx.Chain(h,
			httpx.RateLimitByIP(httpx.ModerateLimit),
			AdminTokenMiddleware(r.adminToken),
		)
	}

	r.Mux.Handle("POST /admin/clients", admin(http.HandlerFunc(clientsHandler.HandleCreate)))
	r.Mux.Handle("GET /admin/clients", admin(http.HandlerFunc(clientsHandler.HandleList)))
	r.Mux.Handle("PATCH /admin/clients/{id}", admin(http.HandlerFunc(clientsHandler.HandleUpdate)))
	r.Mux.Handle("DELETE /admin/clients/{id}", admin(http.HandlerFunc(clientsHandler.HandleDelete)))

	r.Mux.Handle("GET /admin/stats", admin(http.HandlerFunc(dashboardHandler.HandleStats)))
	r.Mux.Handle("GET /admin/transactions", admin(http.HandlerFunc(dashboardHandler.HandleTransactions)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
