package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Fluidcalc/internal/calc/fitting"
	"Fluidcalc/internal/calc/fluid"
	"Fluidcalc/internal/calc/history"
	"Fluidcalc/internal/calc/importer"
	"Fluidcalc/internal/calc/pipe"
	"Fluidcalc/internal/calc/report"
	"Fluidcalc/internal/calc/respond"
	"Fluidcalc/internal/config"
	"Fluidcalc/internal/middleware"
	"Fluidcalc/internal/repo"
	"Fluidcalc/internal/telemetry"
	"Fluidcalc/internal/web"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const historySize = 100

// HandleList registers every route on r.
func HandleList(r *mux.Router, cfg config.Config, hist repo.Repository, tp trace.TracerProvider) {
	r.Use(middleware.Trace(tp))

	services := pipe.DefaultServices()
	page := web.New(cfg.Limits, hist)
	r.HandleFunc("/", page.Index).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	fittingH := &fitting.Handler{History: hist}
	r.HandleFunc("/ws/fitting", fittingH.Live).Methods("GET")

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	fluidH := &fluid.Handler{Props: services.Props, History: hist}
	pipeH := &pipe.Handler{Services: &services, History: hist}
	reportH := &report.Handler{Services: &services}
	importH := &importer.Handler{Services: &services}
	historyH := &history.Handler{Repo: hist}

	api.HandleFunc("/tools/fluid/calc", fluidH.Calc).Methods("POST")
	api.HandleFunc("/tools/pipe/calc", pipeH.Calc).Methods("POST")
	api.HandleFunc("/tools/pipe/import", importH.Pipe).Methods("POST")
	api.HandleFunc("/tools/fitting/calc", fittingH.Calc).Methods("POST")
	api.HandleFunc("/tools/fitting/catalog", fittingH.Catalog).Methods("GET")
	api.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	api.HandleFunc("/history", historyH.List).Methods("GET")
}

func openHistory(ctx context.Context, url string) (repo.Repository, func()) {
	if url == "" {
		log.Info("DATABASE_URL not set, keeping history in memory")
		return repo.NewMemoryRepository(historySize), func() {}
	}
	db, err := repo.InitDB(ctx, url)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	return repo.NewPostgresHistoryDB(db), func() { db.Close() }
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	tp, err := telemetry.New(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		log.WithError(err).Fatal("telemetry")
	}

	hist, closeHistory := openHistory(ctx, cfg.DatabaseURL)
	defer closeHistory()

	r := mux.NewRouter()
	HandleList(r, cfg, hist, tp.TracerProvider())

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           middleware.Logging(middleware.CORS(r)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("telemetry shutdown")
	}
}
