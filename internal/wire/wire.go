package wire

import (
	"net/http"

	"airport-ops/internal/adaptor"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/policy"
	"airport-ops/internal/usecase"
	"airport-ops/pkg/metrics"
	"airport-ops/pkg/middleware"
	"airport-ops/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// App holds the wired application.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of repo.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	infra usecase.Infra,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, infra, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, gatherer, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	guard := guards{repo: repo, log: logger}

	// Apply routes
	wireAuth(r, handler.Auth, guard)
	wireUser(r, handler.User, guard)
	wireFlight(r, handler.Flight, handler.Ticket, guard)
	wirePassenger(r, handler.Passenger, handler.Ticket, guard)
	wireTicket(r, handler.Ticket, handler.BoardingPass, guard)
	wireVisa(r, handler.Visa, guard)
	wireClearance(r, handler.Clearance, guard)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	}

	return r
}

type guards struct {
	repo *repository.Repository
	log  *zap.Logger
}

// authenticated only requires a valid session.
func (g guards) authenticated() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.AuthSession(g.repo.Session, g.repo.User, g.log),
	}
}

// allow requires a valid session whose role may perform one of ops.
func (g guards) allow(ops ...policy.Operation) []func(http.Handler) http.Handler {
	return append(g.authenticated(), middleware.RequireOperation(g.log, ops...))
}
