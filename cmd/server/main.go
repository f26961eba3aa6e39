package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/config"
	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/repository/memory"
	"github.com/avicontrol/avicontrol/internal/repository/mongodb"
	"github.com/avicontrol/avicontrol/internal/repository/sheets"
	"github.com/avicontrol/avicontrol/internal/scheduler"
	"github.com/avicontrol/avicontrol/internal/server/handlers"
	"github.com/avicontrol/avicontrol/internal/server/router"
	alertsvc "github.com/avicontrol/avicontrol/internal/service/alerts"
	batchsvc "github.com/avicontrol/avicontrol/internal/service/batches"
	birdsvc "github.com/avicontrol/avicontrol/internal/service/birds"
	healthsvc "github.com/avicontrol/avicontrol/internal/service/health"
	predictionsvc "github.com/avicontrol/avicontrol/internal/service/predictions"
	reportingsvc "github.com/avicontrol/avicontrol/internal/service/reporting"
	"github.com/avicontrol/avicontrol/internal/store"
	"github.com/avicontrol/avicontrol/pkg/clients/notify"
	"github.com/avicontrol/avicontrol/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var (
		batchSource      store.Source[models.Batch]
		birdSource       store.Source[models.Bird]
		recordSource     store.Source[models.HealthRecord]
		alertSource      store.Source[models.Alert]
		predictionSource store.Source[models.Prediction]
		reportSinks      []reportingsvc.Sink
	)

	switch cfg.Storage.Backend {
	case "mongodb":
		mongoClient, err := mongodb.Connect(context.Background(), cfg.Storage.MongoURI, cfg.Storage.MongoDBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoClient.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()

		batchSource = mongodb.NewCollection[models.Batch](mongoClient, "lotes")
		birdSource = mongodb.NewCollection[models.Bird](mongoClient, "pollos")
		recordSource = mongodb.NewCollection[models.HealthRecord](mongoClient, "registros_salud")
		alertSource = mongodb.NewCollection[models.Alert](mongoClient, "alertas")
		predictionSource = mongodb.NewCollection[models.Prediction](mongoClient, "predicciones")
		reportSinks = append(reportSinks, mongodb.NewReportSink(mongoClient))
		baseLogger.Info("storage backend: mongodb", zap.String("db", cfg.Storage.MongoDBName))

	default:
		if cfg.Storage.SeedDemoData {
			batchSource = memory.NewCollection(memory.SeedBatches())
			birdSource = memory.NewCollection(memory.SeedBirds())
			recordSource = memory.NewCollection(memory.SeedHealthRecords())
			alertSource = memory.NewCollection(memory.SeedAlerts())
			predictionSource = memory.NewCollection(memory.SeedPredictions())
		} else {
			batchSource = memory.NewCollection[models.Batch](nil)
			birdSource = memory.NewCollection[models.Bird](nil)
			recordSource = memory.NewCollection[models.HealthRecord](nil)
			alertSource = memory.NewCollection[models.Alert](nil)
			predictionSource = memory.NewCollection[models.Prediction](nil)
		}
		baseLogger.Info("storage backend: memory", zap.Bool("seeded", cfg.Storage.SeedDemoData))
	}

	if cfg.Sheets.Enabled() {
		sheetSink, err := sheets.NewReportSink(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets report sink", zap.Error(err))
		}
		reportSinks = append(reportSinks, sheetSink)
	}

	policy, err := batchsvc.ParseCascadePolicy(cfg.Storage.CascadePolicy)
	if err != nil {
		baseLogger.Fatal("invalid cascade policy", zap.Error(err))
	}

	birdSvc := birdsvc.NewService(birdSource, baseLogger.Named("svc.pollos"))
	healthSvc := healthsvc.NewService(recordSource, baseLogger.Named("svc.salud"))
	alertSvc := alertsvc.NewService(alertSource, baseLogger.Named("svc.alertas"))
	predictionSvc := predictionsvc.NewService(predictionSource, baseLogger.Named("svc.predicciones"))
	batchSvc := batchsvc.NewService(batchSource, policy, birdSvc, healthSvc, baseLogger.Named("svc.lotes"))

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	for name, load := range map[string]func(context.Context) error{
		"lotes":        batchSvc.Load,
		"pollos":       birdSvc.Load,
		"salud":        healthSvc.Load,
		"alertas":      alertSvc.Load,
		"predicciones": predictionSvc.Load,
	} {
		if err := load(loadCtx); err != nil {
			// Serve whatever loaded; the stores keep their previous (empty)
			// snapshot and record the error.
			baseLogger.Warn("initial load failed", zap.String("store", name), zap.Error(err))
		}
	}
	loadCancel()

	reportingSvc := reportingsvc.NewService(batchSvc, birdSvc, alertSvc, reportSinks, baseLogger.Named("svc.reporting"))

	var notifier scheduler.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewClient(cfg.Notify)
		baseLogger.Info("alert webhook notifications enabled")
	} else {
		baseLogger.Warn("NOTIFY_WEBHOOK_URL missing, alert notifications disabled")
	}

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, batchSvc, alertSvc, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Batches:   handlers.NewBatchHandler(batchSvc, birdSvc, baseLogger.Named("handlers.lotes")),
		Birds:     handlers.NewBirdHandler(birdSvc, batchSvc, baseLogger.Named("handlers.pollos")),
		Health:    handlers.NewHealthRecordHandler(healthSvc, baseLogger.Named("handlers.salud")),
		Alerts:    handlers.NewAlertHandler(alertSvc, baseLogger.Named("handlers.alertas")),
		Dashboard: handlers.NewDashboardHandler(reportingSvc, predictionSvc, baseLogger.Named("handlers.dashboard")),
	}, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
