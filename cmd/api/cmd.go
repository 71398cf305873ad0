package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/GregMSThompson/sas-financier/internal/bootstrap"
	identityclient "github.com/GregMSThompson/sas-financier/internal/client/identity"
	"github.com/GregMSThompson/sas-financier/internal/config"
	"github.com/GregMSThompson/sas-financier/internal/crypto"
	"github.com/GregMSThompson/sas-financier/internal/handlers"
	"github.com/GregMSThompson/sas-financier/internal/metrics"
	"github.com/GregMSThompson/sas-financier/internal/middleware"
	"github.com/GregMSThompson/sas-financier/internal/response"
	"github.com/GregMSThompson/sas-financier/internal/router"
	"github.com/GregMSThompson/sas-financier/internal/services"
	"github.com/GregMSThompson/sas-financier/internal/store"
	"github.com/GregMSThompson/sas-financier/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, bs.Log)

	// metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector("sas_financier")
	exitOnError("metrics registration failed", collector.Register(registry), bs.Log)

	// helpers
	var cipher crypto.Cipher = crypto.Plain{}
	if bs.KMS != nil {
		cipher = crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	}
	identity := identityclient.NewAdapter(bs.Firebase)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	rstore := store.NewRoleStore(bs.Firestore)
	mstore := store.NewMemberStore(bs.Firestore, cipher)
	tstore := store.NewTransactionStore(bs.Firestore)
	rcstore := store.NewReceiptStore(bs.Firestore)
	msgstore := store.NewMessageStore(bs.Firestore)
	sstore := store.NewSettingsStore(bs.Firestore)
	ostore := store.NewObjectStore(bs.Storage, cfg.Bucket, cfg.PublicBaseURL)

	// services
	roleserv := services.NewRoleService(rstore)
	settserv := services.NewSettingsService(sstore, ostore, collector)
	txserv := services.NewTransactionService(tstore, rcstore, ostore, collector)
	repserv := services.NewReportService(tstore, settserv, collector)
	memserv := services.NewMemberService(mstore)
	userv := services.NewUserService(ustore, rstore, mstore, identity)
	profserv := services.NewProfileService(ustore, tstore, mstore, ostore)
	msgserv := services.NewMessageService(msgstore, ustore, mstore)
	dashserv := services.NewDashboardService(tstore, mstore, ustore, settserv)

	// settings are read at start-up and reloaded on every change
	if err := settserv.Load(ctx); err != nil {
		bs.Log.Warn("initial settings load failed, using defaults", "error", err)
	}
	go settserv.Watch(ctx)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.RoleSvc = roleserv
	deps.TransactionSvc = txserv
	deps.ReportSvc = repserv
	deps.MemberSvc = memserv
	deps.UserSvc = userv
	deps.ProfileSvc = profserv
	deps.MessageSvc = msgserv
	deps.SettingsSvc = settserv
	deps.DashboardSvc = dashserv

	// router
	mw := middleware.NewMiddleware(bs.Firebase, roleserv)
	r := router.NewRouter(deps, mw, collector, registry)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("server shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("listening", "port", cfg.Port)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}
