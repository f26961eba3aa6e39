package health_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/repository/memory"
	"github.com/avicontrol/avicontrol/internal/service/health"
	"github.com/avicontrol/avicontrol/internal/store"
)

func day(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func record(id, birdID, identifier string, date time.Time) models.HealthRecord {
	return models.HealthRecord{
		ID: id, BirdID: birdID, BirdIdentifier: identifier, BatchID: "1",
		Date: date, Type: models.RecordRoutine,
	}
}

func serviceWith(t *testing.T, seed []models.HealthRecord) *health.Service {
	t.Helper()
	svc := health.NewService(memory.NewCollection(seed), nil)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestLatestForPicksMaxDate(t *testing.T) {
	svc := serviceWith(t, []models.HealthRecord{
		record("1", "2", "A002", day("2024-02-18")),
		record("2", "2", "A002", day("2024-02-20")),
		record("3", "1", "A001", day("2024-02-25")),
	})

	latest, found := svc.LatestFor("A002")
	require.True(t, found)
	assert.Equal(t, "2", latest.ID)
	assert.Equal(t, day("2024-02-20"), latest.Date)
}

func TestLatestForMatchesBirdIDOrIdentifier(t *testing.T) {
	svc := serviceWith(t, []models.HealthRecord{
		record("1", "2", "A002", day("2024-02-18")),
	})

	byID, found := svc.LatestFor("2")
	require.True(t, found)
	byCode, foundCode := svc.LatestFor("A002")
	require.True(t, foundCode)
	assert.Equal(t, byID.ID, byCode.ID)
}

func TestLatestForBreaksDateTiesByInsertionOrder(t *testing.T) {
	same := day("2024-02-20")
	svc := serviceWith(t, []models.HealthRecord{
		record("1", "2", "A002", same),
		record("2", "2", "A002", same),
	})

	latest, found := svc.LatestFor("A002")
	require.True(t, found)
	// Most recently created wins on an exact date tie.
	assert.Equal(t, "2", latest.ID)
}

func TestLatestForUnknownBird(t *testing.T) {
	svc := serviceWith(t, nil)

	_, found := svc.LatestFor("Z999")
	assert.False(t, found)
}

func TestCreateRequiresBirdDateAndType(t *testing.T) {
	svc := serviceWith(t, nil)

	_, err := svc.Create(context.Background(), models.HealthRecord{})
	require.Error(t, err)

	var ve *store.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 3)
}

func TestForBatch(t *testing.T) {
	svc := serviceWith(t, memory.SeedHealthRecords())

	for _, rec := range svc.ForBatch("1") {
		assert.Equal(t, "1", rec.BatchID)
	}
	assert.Len(t, svc.ForBatch("1"), 2)
}
