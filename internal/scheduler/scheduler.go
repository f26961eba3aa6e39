package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/config"
	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/service/alerts"
	"github.com/avicontrol/avicontrol/internal/service/batches"
	"github.com/avicontrol/avicontrol/internal/service/reporting"
)

// Notifier pushes alerts to an external channel (ops webhook). May be nil
// when no webhook is configured.
type Notifier interface {
	PushAlert(ctx context.Context, alert models.Alert) error
}

// Scheduler runs the recurring farm jobs: the daily report and the alert
// sweep.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	batchesSvc   *batches.Service
	alertsSvc    *alerts.Service
	notifier     Notifier
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance in the configured timezone.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, batchesSvc *batches.Service, alertsSvc *alerts.Service, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Reporting.Timezone, err)
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		batchesSvc:   batchesSvc,
		alertsSvc:    alertsSvc,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// Start registers the cron entries and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("report_schedule", s.cfg.Reporting.CronSchedule),
		zap.String("sweep_schedule", s.cfg.Alerts.SweepSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.runDailyReport); err != nil {
		s.logger.Error("failed to schedule daily report", zap.Error(err))
	}
	if _, err := s.cron.AddFunc(s.cfg.Alerts.SweepSchedule, s.runAlertSweep); err != nil {
		s.logger.Error("failed to schedule alert sweep", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reportingSvc.GenerateDailyReport(ctx)
	if err != nil {
		s.logger.Error("failed to generate daily report", zap.Error(err))
		return
	}
	s.logger.Info("daily report generated",
		zap.Int("total_birds", report.TotalBirds),
		zap.Float64("average_mortality", report.AverageMortality))
}

// runAlertSweep discards expired alerts and raises a mortality alert for
// each active batch above the configured threshold that does not already
// have one.
func (s *Scheduler) runAlertSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	swept, err := s.alertsSvc.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("alert sweep failed", zap.Error(err))
	} else if len(swept) > 0 {
		s.logger.Info("expired alerts discarded", zap.Int("count", len(swept)))
	}

	threshold := s.cfg.Alerts.MortalityThreshold
	for _, batch := range s.batchesSvc.Active() {
		if batch.Mortality <= threshold {
			continue
		}
		if s.hasActiveMortalityAlert(batch.ID) {
			continue
		}

		alert, err := s.alertsSvc.Create(ctx, models.Alert{
			Type:        models.AlertMortality,
			Priority:    models.PriorityCritical,
			Title:       fmt.Sprintf("Mortalidad elevada - %s", batch.Name),
			Description: fmt.Sprintf("La mortalidad del lote supera el umbral configurado de %.1f%%.", threshold),
			BatchID:     batch.ID,
			Status:      models.AlertActive,
			Actions: []string{
				"Revisión veterinaria del galpón",
				"Análisis de agua y alimento",
			},
			Params: &models.AlertParams{
				CurrentValue:  batch.Mortality,
				ExpectedValue: threshold,
				Unit:          "%",
			},
		})
		if err != nil {
			s.logger.Error("failed to raise mortality alert", zap.String("lote", batch.ID), zap.Error(err))
			continue
		}
		s.logger.Warn("mortality alert raised", zap.String("lote", batch.ID), zap.Float64("mortality", batch.Mortality))

		if s.notifier != nil {
			if err := s.notifier.PushAlert(ctx, alert); err != nil {
				s.logger.Error("failed to push alert notification", zap.String("alerta", alert.ID), zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) hasActiveMortalityAlert(batchID string) bool {
	matches := s.alertsSvc.FilterBy(alerts.Filter{
		Type:    models.AlertMortality,
		Status:  models.AlertActive,
		BatchID: batchID,
	})
	return len(matches) > 0
}
