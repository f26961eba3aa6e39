// Package reporting aggregates the entity stores into the dashboard
// metrics block and the daily report persisted by the scheduler.
package reporting

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/service/alerts"
	"github.com/avicontrol/avicontrol/internal/service/batches"
	"github.com/avicontrol/avicontrol/internal/service/birds"
)

// Sink receives finished daily reports. Mongo and Google Sheets both
// implement it.
type Sink interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Service computes aggregates over the live store snapshots.
type Service struct {
	batches *batches.Service
	birds   *birds.Service
	alerts  *alerts.Service
	sinks   []Sink
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(batchSvc *batches.Service, birdSvc *birds.Service, alertSvc *alerts.Service, sinks []Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		batches: batchSvc,
		birds:   birdSvc,
		alerts:  alertSvc,
		sinks:   sinks,
		logger:  logger,
		now:     time.Now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Metrics builds the dashboard metrics block from the current snapshots.
// Reads only; no store is loaded or mutated.
func (s *Service) Metrics() models.DashboardMetrics {
	healthy := s.birds.CountByStatus(models.BirdHealthy)
	sick := s.birds.CountByStatus(models.BirdSick)
	dead := s.birds.CountByStatus(models.BirdDead)

	total := s.batches.TotalCurrentBirds()
	var healthyPercent float64
	if tracked := healthy + sick + dead; tracked > 0 {
		healthyPercent = round2(float64(healthy) / float64(tracked) * 100)
	}

	return models.DashboardMetrics{
		ActiveBatches:    len(s.batches.Active()),
		TotalBirds:       total,
		HealthyBirds:     healthy,
		SickBirds:        sick,
		DeadBirds:        dead,
		HealthyPercent:   healthyPercent,
		AverageMortality: round2(s.batches.AverageMortality()),
		AverageWeight:    round2(s.batches.AverageWeight()),
		ActiveAlerts:     s.alerts.ActiveCount(),
	}
}

// GenerateDailyReport snapshots the farm metrics and pushes the report to
// every configured sink. A sink failure does not stop the remaining
// sinks; the first error is returned after all sinks ran.
func (s *Service) GenerateDailyReport(ctx context.Context) (models.DailyReport, error) {
	now := s.now()
	metrics := s.Metrics()

	report := models.DailyReport{
		Date:             now.Truncate(24 * time.Hour),
		ActiveBatches:    metrics.ActiveBatches,
		TotalBirds:       metrics.TotalBirds,
		HealthyBirds:     metrics.HealthyBirds,
		SickBirds:        metrics.SickBirds,
		DeadBirds:        metrics.DeadBirds,
		AverageMortality: metrics.AverageMortality,
		AverageWeight:    metrics.AverageWeight,
		ActiveAlerts:     metrics.ActiveAlerts,
		CreatedAt:        now,
	}

	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.SaveDailyReport(ctx, report); err != nil {
			s.logger.Error("daily report sink failed", zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("save daily report: %w", err)
			}
		}
	}
	return report, firstErr
}
