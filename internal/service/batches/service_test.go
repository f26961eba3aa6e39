package batches_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/repository/memory"
	"github.com/avicontrol/avicontrol/internal/service/batches"
	"github.com/avicontrol/avicontrol/internal/service/birds"
	"github.com/avicontrol/avicontrol/internal/service/health"
	"github.com/avicontrol/avicontrol/internal/store"
)

func day(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func activeBatch(id string, mortality, weight float64) models.Batch {
	return models.Batch{
		ID: id, Name: "Lote " + id,
		InitialCount: 1000, CurrentCount: 950,
		StartDate: day("2024-01-15"), Breed: "Ross 308",
		Status: models.BatchActive, AverageWeight: weight, Mortality: mortality,
	}
}

func newService(t *testing.T, policy batches.CascadePolicy, seed []models.Batch) *batches.Service {
	t.Helper()
	svc := batches.NewService(memory.NewCollection(seed), policy, nil, nil, nil)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestValidateRejectsCountExceedingInitial(t *testing.T) {
	svc := newService(t, batches.CascadeOrphan, nil)

	draft := activeBatch("", 4.5, 1.2)
	draft.InitialCount = 100
	draft.CurrentCount = 150

	_, err := svc.Create(context.Background(), draft)
	require.Error(t, err)

	var ve *store.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cantidadActual", ve.Fields[0].Field)
}

func TestValidateAllowsZeroCounts(t *testing.T) {
	svc := newService(t, batches.CascadeOrphan, nil)

	draft := activeBatch("", 0, 0)
	draft.InitialCount = 0
	draft.CurrentCount = 0

	created, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestValidateRejectsMortalityOutOfRange(t *testing.T) {
	svc := newService(t, batches.CascadeOrphan, nil)

	draft := activeBatch("", 120, 1.2)
	_, err := svc.Create(context.Background(), draft)
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
}

func TestAverageMortality(t *testing.T) {
	seed := []models.Batch{
		activeBatch("1", 4.5, 1.2),
		activeBatch("2", 6.3, 2.5),
		activeBatch("3", 7.4, 2.1),
	}
	done := activeBatch("4", 50, 2.8)
	done.Status = models.BatchDone
	seed = append(seed, done)

	svc := newService(t, batches.CascadeOrphan, seed)

	// Completed batches are excluded from the mean.
	assert.InDelta(t, 6.0667, svc.AverageMortality(), 0.001)
}

func TestAggregatesOnEmptySetAreZero(t *testing.T) {
	svc := newService(t, batches.CascadeOrphan, nil)

	assert.Zero(t, svc.AverageMortality())
	assert.Zero(t, svc.AverageWeight())
	assert.Zero(t, svc.TotalCurrentBirds())
}

func TestTotalCurrentBirds(t *testing.T) {
	seed := []models.Batch{activeBatch("1", 1, 1), activeBatch("2", 1, 1)}
	seed[0].CurrentCount = 1050
	seed[1].CurrentCount = 890

	svc := newService(t, batches.CascadeOrphan, seed)
	assert.Equal(t, 1940, svc.TotalCurrentBirds())
}

func TestResolveRefAcceptsIDAndName(t *testing.T) {
	svc := newService(t, batches.CascadeOrphan, []models.Batch{activeBatch("1", 4.5, 1.2)})

	id, ok := svc.ResolveRef("1")
	require.True(t, ok)
	assert.Equal(t, "1", id)

	id, ok = svc.ResolveRef("Lote 1")
	require.True(t, ok)
	assert.Equal(t, "1", id)

	_, ok = svc.ResolveRef("Lote Z")
	assert.False(t, ok)
}

func cascadeFixture(t *testing.T, policy batches.CascadePolicy) (*batches.Service, *birds.Service, *health.Service) {
	t.Helper()

	birdSvc := birds.NewService(memory.NewCollection(memory.SeedBirds()), nil)
	require.NoError(t, birdSvc.Load(context.Background()))
	healthSvc := health.NewService(memory.NewCollection(memory.SeedHealthRecords()), nil)
	require.NoError(t, healthSvc.Load(context.Background()))

	batchSvc := batches.NewService(memory.NewCollection(memory.SeedBatches()), policy, birdSvc, healthSvc, nil)
	require.NoError(t, batchSvc.Load(context.Background()))
	return batchSvc, birdSvc, healthSvc
}

func TestDeleteOrphanLeavesChildren(t *testing.T) {
	batchSvc, birdSvc, healthSvc := cascadeFixture(t, batches.CascadeOrphan)

	require.NoError(t, batchSvc.Delete(context.Background(), "1"))

	_, err := batchSvc.Get("1")
	assert.True(t, store.IsNotFound(err))
	assert.NotEmpty(t, birdSvc.InBatch("1"))
	assert.NotEmpty(t, healthSvc.ForBatch("1"))
}

func TestDeleteCascadeRemovesChildren(t *testing.T) {
	batchSvc, birdSvc, healthSvc := cascadeFixture(t, batches.CascadeDelete)

	require.NoError(t, batchSvc.Delete(context.Background(), "1"))

	assert.Empty(t, birdSvc.InBatch("1"))
	assert.Empty(t, healthSvc.ForBatch("1"))
	// Other batches untouched.
	assert.NotEmpty(t, birdSvc.InBatch("2"))
}

func TestDeleteBlockRefusesWhileBirdsRemain(t *testing.T) {
	batchSvc, birdSvc, _ := cascadeFixture(t, batches.CascadeBlock)

	err := batchSvc.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, store.IsValidation(err))
	_, getErr := batchSvc.Get("1")
	assert.NoError(t, getErr)

	for _, bird := range birdSvc.InBatch("1") {
		require.NoError(t, birdSvc.Delete(context.Background(), bird.ID))
	}
	assert.NoError(t, batchSvc.Delete(context.Background(), "1"))
}

func TestParseCascadePolicy(t *testing.T) {
	policy, err := batches.ParseCascadePolicy("")
	require.NoError(t, err)
	assert.Equal(t, batches.CascadeOrphan, policy)

	policy, err = batches.ParseCascadePolicy("CASCADE")
	require.NoError(t, err)
	assert.Equal(t, batches.CascadeDelete, policy)

	_, err = batches.ParseCascadePolicy("yolo")
	assert.Error(t, err)
}
