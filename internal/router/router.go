package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GregMSThompson/sas-financier/internal/handlers"
	"github.com/GregMSThompson/sas-financier/internal/metrics"
	"github.com/GregMSThompson/sas-financier/internal/middleware"
)

func NewRouter(deps *handlers.Deps, mw *middleware.Middleware, collector *metrics.Collector, gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(middleware.NewMetricsMiddleware(collector).Instrument)

	rh := handlers.NewRoleHandlers(deps)
	th := handlers.NewTransactionHandlers(deps)
	rph := handlers.NewReportHandlers(deps)
	mh := handlers.NewMemberHandlers(deps)
	ush := handlers.NewUserHandlers(deps)
	ph := handlers.NewProfileHandlers(deps)
	msh := handlers.NewMessageHandlers(deps)
	sh := handlers.NewSettingsHandlers(deps)
	dh := handlers.NewDashboardHandlers(deps)

	// public
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Mount("/settings", sh.SettingsRoutes(mw.FirebaseAuth, mw.ResolveActor))
	r.Mount("/auth", ush.AuthRoutes())

	// authenticated; capabilities are resolved once per request
	r.Group(func(r chi.Router) {
		r.Use(mw.FirebaseAuth)
		r.Use(mw.ResolveActor)

		r.Get("/me", rh.Me)
		r.Get("/dashboard", dh.GetDashboard)
		r.Get("/admin/stats", dh.SystemStats)
		r.Mount("/transactions", th.TransactionRoutes())
		r.Mount("/reports", rph.ReportRoutes())
		r.Mount("/members", mh.MemberRoutes())
		r.Mount("/users", ush.UserRoutes())
		r.Mount("/profile", ph.ProfileRoutes())
		r.Mount("/messages", msh.MessageRoutes())
	})
	return r
}
