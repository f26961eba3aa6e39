package reporting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/repository/memory"
	"github.com/avicontrol/avicontrol/internal/service/alerts"
	"github.com/avicontrol/avicontrol/internal/service/batches"
	"github.com/avicontrol/avicontrol/internal/service/birds"
	"github.com/avicontrol/avicontrol/internal/service/reporting"
)

type captureSink struct {
	reports []models.DailyReport
	err     error
}

func (c *captureSink) SaveDailyReport(_ context.Context, report models.DailyReport) error {
	if c.err != nil {
		return c.err
	}
	c.reports = append(c.reports, report)
	return nil
}

func seededReporting(t *testing.T, sinks ...reporting.Sink) *reporting.Service {
	t.Helper()
	ctx := context.Background()

	batchSvc := batches.NewService(memory.NewCollection(memory.SeedBatches()), batches.CascadeOrphan, nil, nil, nil)
	require.NoError(t, batchSvc.Load(ctx))
	birdSvc := birds.NewService(memory.NewCollection(memory.SeedBirds()), nil)
	require.NoError(t, birdSvc.Load(ctx))
	alertSvc := alerts.NewService(memory.NewCollection(memory.SeedAlerts()), nil)
	require.NoError(t, alertSvc.Load(ctx))

	return reporting.NewService(batchSvc, birdSvc, alertSvc, sinks, nil)
}

func TestMetricsFromSeedData(t *testing.T) {
	svc := seededReporting(t)

	metrics := svc.Metrics()
	assert.Equal(t, 3, metrics.ActiveBatches)
	assert.Equal(t, 2847, metrics.TotalBirds)
	assert.Equal(t, 3, metrics.HealthyBirds)
	assert.Equal(t, 1, metrics.SickBirds)
	assert.Equal(t, 1, metrics.DeadBirds)
	assert.InDelta(t, 60.0, metrics.HealthyPercent, 0.001)
	assert.InDelta(t, 6.07, metrics.AverageMortality, 0.001)
	assert.InDelta(t, 1.93, metrics.AverageWeight, 0.001)
	assert.Equal(t, 4, metrics.ActiveAlerts)
}

func TestGenerateDailyReportPushesToSinks(t *testing.T) {
	sink := &captureSink{}
	svc := seededReporting(t, sink)

	report, err := svc.GenerateDailyReport(context.Background())
	require.NoError(t, err)
	require.Len(t, sink.reports, 1)
	assert.Equal(t, report, sink.reports[0])
	assert.Equal(t, 2847, report.TotalBirds)
	assert.False(t, report.CreatedAt.IsZero())
}

func TestGenerateDailyReportRunsAllSinksOnFailure(t *testing.T) {
	failing := &captureSink{err: errors.New("sheet unreachable")}
	healthy := &captureSink{}
	svc := seededReporting(t, failing, healthy)

	_, err := svc.GenerateDailyReport(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "sheet unreachable")
	// The failing sink must not starve the others.
	assert.Len(t, healthy.reports, 1)
}
