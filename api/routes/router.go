package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aisynapse/synapse-backend/api/controllers"
	analyticscontrollers "github.com/aisynapse/synapse-backend/api/controllers/analytics"
	functioncontrollers "github.com/aisynapse/synapse-backend/api/controllers/functions"
	profilecontrollers "github.com/aisynapse/synapse-backend/api/controllers/profiles"
	subscriptioncontrollers "github.com/aisynapse/synapse-backend/api/controllers/subscriptions"
	usagecontrollers "github.com/aisynapse/synapse-backend/api/controllers/usage"
	workflowcontrollers "github.com/aisynapse/synapse-backend/api/controllers/workflows"
	"github.com/aisynapse/synapse-backend/api/middleware"
	"github.com/aisynapse/synapse-backend/api/responses"
	analyticssvc "github.com/aisynapse/synapse-backend/internal/analytics"
	profilesvc "github.com/aisynapse/synapse-backend/internal/profiles"
	subscriptionsvc "github.com/aisynapse/synapse-backend/internal/subscriptions"
	usagesvc "github.com/aisynapse/synapse-backend/internal/usage"
	workflowsvc "github.com/aisynapse/synapse-backend/internal/workflows"
	"github.com/aisynapse/synapse-backend/pkg/config"
	"github.com/aisynapse/synapse-backend/pkg/logger"
	"github.com/aisynapse/synapse-backend/pkg/redis"
)

// Services bundles the domain services exposed over HTTP.
type Services struct {
	Subscriptions subscriptionsvc.Service
	Usage         usagesvc.Service
	Workflows     workflowsvc.Service
	Analytics     analyticssvc.Service
	Profiles      profilesvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg, nil),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	checks := []controllers.ReadinessCheck{{Name: "database", Pinger: dbP}}
	var limiter middleware.RateLimitStore
	if redisClient != nil {
		checks = append(checks, controllers.ReadinessCheck{Name: "redis", Pinger: redisClient})
		limiter = redisClient
	}

	apiPolicy := middleware.NewRateLimitPolicy("api", cfg.RateLimit.Window, cfg.RateLimit.UserLimit)
	functionsPolicy := middleware.NewRateLimitPolicy("functions", cfg.RateLimit.Window, cfg.RateLimit.FunctionsCap)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks...))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/functions/v1", func(r chi.Router) {
		r.Use(middleware.FunctionCORS)

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Recoverer(logg, responses.WriteFunctionError),
				middleware.Auth(cfg.Auth, logg, responses.WriteFunctionError),
				middleware.RateLimit(functionsPolicy, limiter, logg, responses.WriteFunctionError),
			)
			r.Post("/subscription", functioncontrollers.Subscription(svc.Subscriptions, svc.Usage, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Recoverer(logg, responses.WriteFunctionFailure),
				middleware.Auth(cfg.Auth, logg, responses.WriteFunctionFailure),
				middleware.RateLimit(functionsPolicy, limiter, logg, responses.WriteFunctionFailure),
			)
			r.Post("/execute-workflow", functioncontrollers.ExecuteWorkflow(svc.Workflows, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS())

		r.Route("/api/public", func(r chi.Router) {
			r.Get("/plans", controllers.PublicPlans())
		})

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.Auth, logg, nil),
				middleware.RateLimit(apiPolicy, limiter, logg, nil),
			)

			r.Route("/subscription", func(r chi.Router) {
				r.Get("/", subscriptioncontrollers.Get(svc.Subscriptions, logg))
				r.Post("/", subscriptioncontrollers.Create(svc.Subscriptions, logg))
				r.Put("/", subscriptioncontrollers.Update(svc.Subscriptions, logg))
				r.Post("/cancel", subscriptioncontrollers.Cancel(svc.Subscriptions, logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profilecontrollers.Get(svc.Profiles, logg))
				r.Patch("/", profilecontrollers.Update(svc.Profiles, logg))
			})

			r.Route("/usage", func(r chi.Router) {
				r.Post("/", usagecontrollers.Record(svc.Usage, logg))
				r.Get("/{featureName}", usagecontrollers.CheckLimit(svc.Usage, logg))
			})

			r.Route("/workflows", func(r chi.Router) {
				r.Get("/", workflowcontrollers.List(svc.Workflows, logg))
				r.Patch("/{workflowId}", workflowcontrollers.Toggle(svc.Workflows, logg))
				r.Post("/{workflowId}/execute", workflowcontrollers.Execute(svc.Workflows, logg))
			})

			r.Get("/analytics", analyticscontrollers.List(svc.Analytics, logg))
		})
	})

	return r
}
