package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/repository/memory"
	"github.com/avicontrol/avicontrol/internal/service/alerts"
)

func alert(id string, typ models.AlertType, priority models.AlertPriority) models.Alert {
	return models.Alert{
		ID: id, Type: typ, Priority: priority,
		Title:     "alerta " + id,
		CreatedAt: time.Date(2024, 2, 20, 8, 0, 0, 0, time.UTC),
		Status:    models.AlertActive,
	}
}

func serviceWith(t *testing.T, seed []models.Alert) *alerts.Service {
	t.Helper()
	svc := alerts.NewService(memory.NewCollection(seed), nil)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestFilterByIsConjunctive(t *testing.T) {
	svc := serviceWith(t, []models.Alert{
		alert("1", models.AlertHealth, models.PriorityHigh),
		alert("2", models.AlertHealth, models.PriorityMedium),
		alert("3", models.AlertProduction, models.PriorityHigh),
		alert("4", models.AlertMortality, models.PriorityMedium),
	})

	got := svc.FilterBy(alerts.Filter{Type: models.AlertHealth, Priority: models.PriorityHigh})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilterByOmittedFieldsMatchEverything(t *testing.T) {
	svc := serviceWith(t, []models.Alert{
		alert("1", models.AlertHealth, models.PriorityHigh),
		alert("2", models.AlertProduction, models.PriorityMedium),
	})

	assert.Len(t, svc.FilterBy(alerts.Filter{}), 2)
	assert.Len(t, svc.FilterBy(alerts.Filter{Priority: models.PriorityHigh}), 1)
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2024, 2, 23, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := alert("1", models.AlertHealth, models.PriorityHigh)
	expired.ExpiresAt = &past
	assert.True(t, alerts.IsExpired(expired, now))

	pending := alert("2", models.AlertHealth, models.PriorityHigh)
	pending.ExpiresAt = &future
	assert.False(t, alerts.IsExpired(pending, now))

	noExpiry := alert("3", models.AlertHealth, models.PriorityHigh)
	assert.False(t, alerts.IsExpired(noExpiry, now))

	resolved := alert("4", models.AlertHealth, models.PriorityHigh)
	resolved.ExpiresAt = &past
	resolved.Status = models.AlertResolved
	assert.False(t, alerts.IsExpired(resolved, now))
}

func TestSweepExpiredDiscardsOnlyExpiredActives(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := alert("1", models.AlertHealth, models.PriorityHigh)
	expired.ExpiresAt = &past
	pending := alert("2", models.AlertProduction, models.PriorityMedium)
	pending.ExpiresAt = &future

	svc := serviceWith(t, []models.Alert{expired, pending})

	swept, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Len(t, swept, 1)
	assert.Equal(t, "1", swept[0].ID)
	assert.Equal(t, models.AlertDiscarded, swept[0].Status)

	still, err := svc.Get("2")
	require.NoError(t, err)
	assert.Equal(t, models.AlertActive, still.Status)
}

func TestResolve(t *testing.T) {
	svc := serviceWith(t, []models.Alert{alert("1", models.AlertHealth, models.PriorityHigh)})

	resolved, err := svc.Resolve(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, models.AlertResolved, resolved.Status)
	assert.Zero(t, svc.ActiveCount())
}

func TestCreateStampsCreationTime(t *testing.T) {
	svc := serviceWith(t, nil)

	created, err := svc.Create(context.Background(), models.Alert{
		Type:     models.AlertAtmosphere,
		Priority: models.PriorityLow,
		Title:    "Temperatura alta",
		Status:   models.AlertActive,
	})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())
}
