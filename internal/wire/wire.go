package wire

import (
	"context"
	"net/http"
	"time"

	"legal-marketplace/internal/adaptor"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/usecase"
	"legal-marketplace/pkg/middleware"
	"legal-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the background pieces it depends on
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Limiter *middleware.RateLimiter
}

// Wiring builds services, handlers and routes
func Wiring(repo *repository.Repository, deps usecase.Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, deps, config, logger)
	handler := adaptor.NewHandler(service, config.App.MaxUploadMB, logger)
	limiter := middleware.NewRateLimiter(config.RateLimit.RPS, config.RateLimit.Burst)

	router := setupRouter(handler, repo, limiter, config, logger)

	return &App{
		Router:  router,
		Service: service,
		Limiter: limiter,
	}
}

// routes carries what every route group needs
type routes struct {
	repo    *repository.Repository
	limiter *middleware.RateLimiter
	log     *zap.Logger
}

func (rt routes) auth() func(http.Handler) http.Handler {
	return middleware.AuthSession(rt.repo.Session, rt.repo.User, rt.log)
}

func (rt routes) throttle() func(http.Handler) http.Handler {
	return middleware.RateLimit(rt.limiter, rt.log)
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	limiter *middleware.RateLimiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	rt := routes{repo: repo, limiter: limiter, log: logger}
	wireAuth(r, handler.Auth, handler.User, rt)
	wireLawyer(r, handler.Lawyer, rt)
	wireAppointment(r, handler.Appointment, handler.Availability, rt)
	wireChat(r, handler.Chat, rt)
	wireDocument(r, handler.Document, rt)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := repo.Ping(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			utils.ResponseServiceUnavailable(w, "Database unavailable")
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
