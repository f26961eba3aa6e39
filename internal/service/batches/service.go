// Package batches instantiates the entity store for batches ("lotes") and
// the aggregate views on the dashboard landing page. Batch deletion honors
// a configurable policy for the birds and records left behind.
package batches

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/store"
)

// CascadePolicy decides what happens to a batch's birds and health records
// when the batch is deleted.
type CascadePolicy string

const (
	// CascadeOrphan deletes only the batch, leaving children in place.
	CascadeOrphan CascadePolicy = "orphan"
	// CascadeDelete removes the batch, then its birds, then their records.
	CascadeDelete CascadePolicy = "cascade"
	// CascadeBlock refuses to delete a batch that still has birds.
	CascadeBlock CascadePolicy = "block"
)

// ParseCascadePolicy maps a config string to a policy, defaulting to
// orphan.
func ParseCascadePolicy(value string) (CascadePolicy, error) {
	switch CascadePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case CascadeOrphan, "":
		return CascadeOrphan, nil
	case CascadeDelete:
		return CascadeDelete, nil
	case CascadeBlock:
		return CascadeBlock, nil
	}
	return "", fmt.Errorf("unknown cascade policy %q", value)
}

// CascadeError reports a partially applied cascade delete: the batch and
// some children are gone while others survived. Nothing is hidden from the
// caller.
type CascadeError struct {
	BatchID string
	Removed []string
	Errs    []error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade delete of lote %q incomplete: removed %d children, %d failures (first: %v)",
		e.BatchID, len(e.Removed), len(e.Errs), e.Errs[0])
}

func (e *CascadeError) Unwrap() error { return e.Errs[0] }

// BirdPurger is the slice of the bird service the cascade needs.
type BirdPurger interface {
	InBatch(batchID string) []models.Bird
	Delete(ctx context.Context, id string) error
}

// RecordPurger is the slice of the health service the cascade needs.
type RecordPurger interface {
	ForBatch(batchID string) []models.HealthRecord
	Delete(ctx context.Context, id string) error
}

// Patch is a partial batch update; nil fields keep their current value.
type Patch struct {
	Name          *string             `json:"nombre"`
	InitialCount  *int                `json:"cantidadInicial"`
	CurrentCount  *int                `json:"cantidadActual"`
	StartDate     *time.Time          `json:"fechaInicio"`
	Breed         *string             `json:"raza"`
	Status        *models.BatchStatus `json:"estado"`
	AverageWeight *float64            `json:"pesoPromedio"`
	Mortality     *float64            `json:"mortalidad"`
	Notes         *string             `json:"observaciones"`
}

func (p Patch) apply(b models.Batch) models.Batch {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.InitialCount != nil {
		b.InitialCount = *p.InitialCount
	}
	if p.CurrentCount != nil {
		b.CurrentCount = *p.CurrentCount
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.Breed != nil {
		b.Breed = *p.Breed
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.AverageWeight != nil {
		b.AverageWeight = *p.AverageWeight
	}
	if p.Mortality != nil {
		b.Mortality = *p.Mortality
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	return b
}

// Service wraps the batch store.
type Service struct {
	store   *store.Store[models.Batch]
	birds   BirdPurger
	records RecordPurger
	policy  CascadePolicy
	logger  *zap.Logger
}

// NewService builds the batch service over the given backing source. birds
// and records may be nil when the policy is orphan.
func NewService(source store.Source[models.Batch], policy CascadePolicy, birds BirdPurger, records RecordPurger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == "" {
		policy = CascadeOrphan
	}
	return &Service{
		store: store.New("lote", source,
			store.WithValidator(Validate),
			store.WithLogger[models.Batch](logger)),
		birds:   birds,
		records: records,
		policy:  policy,
		logger:  logger,
	}
}

// Validate enforces the batch field constraints.
func Validate(b models.Batch) error {
	var fields []store.FieldError
	if b.Name == "" {
		fields = append(fields, store.FieldError{Field: "nombre", Reason: "must not be empty"})
	}
	if b.InitialCount < 0 {
		fields = append(fields, store.FieldError{Field: "cantidadInicial", Reason: "must be >= 0"})
	}
	if b.CurrentCount < 0 {
		fields = append(fields, store.FieldError{Field: "cantidadActual", Reason: "must be >= 0"})
	} else if b.CurrentCount > b.InitialCount {
		fields = append(fields, store.FieldError{Field: "cantidadActual", Reason: "must not exceed cantidadInicial"})
	}
	if b.StartDate.IsZero() {
		fields = append(fields, store.FieldError{Field: "fechaInicio", Reason: "must be set"})
	}
	if !b.Status.Valid() {
		fields = append(fields, store.FieldError{Field: "estado", Reason: "unknown batch status"})
	}
	if b.AverageWeight < 0 || math.IsNaN(b.AverageWeight) || math.IsInf(b.AverageWeight, 0) {
		fields = append(fields, store.FieldError{Field: "pesoPromedio", Reason: "must be a finite value >= 0"})
	}
	if b.Mortality < 0 || b.Mortality > 100 || math.IsNaN(b.Mortality) {
		fields = append(fields, store.FieldError{Field: "mortalidad", Reason: "must be between 0 and 100"})
	}
	if len(fields) > 0 {
		return &store.ValidationError{Kind: "lote", Fields: fields}
	}
	return nil
}

// Load populates the snapshot from the backing source.
func (s *Service) Load(ctx context.Context) error { return s.store.Load(ctx) }

// List returns the current snapshot.
func (s *Service) List() []models.Batch { return s.store.List() }

// Get returns one batch by id.
func (s *Service) Get(id string) (models.Batch, error) { return s.store.Get(id) }

// ResolveRef maps a batch reference to its id. It accepts an id directly
// and falls back to the display name so links built by the old dashboard
// keep working.
func (s *Service) ResolveRef(ref string) (string, bool) {
	if _, err := s.store.Get(ref); err == nil {
		return ref, true
	}
	for _, batch := range s.store.List() {
		if batch.Name == ref {
			return batch.ID, true
		}
	}
	return "", false
}

// Create registers a new batch.
func (s *Service) Create(ctx context.Context, draft models.Batch) (models.Batch, error) {
	return s.store.Create(ctx, draft)
}

// Update applies a partial patch to the batch with the given id.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (models.Batch, error) {
	return s.store.Update(ctx, id, patch.apply)
}

// Subscribe registers an observer on the underlying store.
func (s *Service) Subscribe(fn func(store.Event)) func() { return s.store.Subscribe(fn) }

// Delete removes the batch according to the configured cascade policy.
// Under CascadeDelete a partial failure is reported as a CascadeError
// naming what was removed; orphans are never silently left undetected.
func (s *Service) Delete(ctx context.Context, id string) error {
	switch s.policy {
	case CascadeBlock:
		if s.birds != nil && len(s.birds.InBatch(id)) > 0 {
			return store.Invalid("lote", "id", "batch still has birds; delete or move them first")
		}
		return s.store.Delete(ctx, id)

	case CascadeDelete:
		if err := s.store.Delete(ctx, id); err != nil {
			return err
		}
		cascade := &CascadeError{BatchID: id}
		if s.birds != nil {
			for _, bird := range s.birds.InBatch(id) {
				if err := s.birds.Delete(ctx, bird.ID); err != nil {
					cascade.Errs = append(cascade.Errs, fmt.Errorf("pollo %s: %w", bird.ID, err))
					continue
				}
				cascade.Removed = append(cascade.Removed, "pollo:"+bird.ID)
			}
		}
		if s.records != nil {
			for _, rec := range s.records.ForBatch(id) {
				if err := s.records.Delete(ctx, rec.ID); err != nil {
					cascade.Errs = append(cascade.Errs, fmt.Errorf("registro %s: %w", rec.ID, err))
					continue
				}
				cascade.Removed = append(cascade.Removed, "registro:"+rec.ID)
			}
		}
		if len(cascade.Errs) > 0 {
			s.logger.Warn("cascade delete incomplete",
				zap.String("lote", id),
				zap.Int("removed", len(cascade.Removed)),
				zap.Int("failed", len(cascade.Errs)))
			return cascade
		}
		return nil

	default:
		return s.store.Delete(ctx, id)
	}
}

// Active returns the batches currently in the activo state.
func (s *Service) Active() []models.Batch {
	var out []models.Batch
	for _, batch := range s.store.List() {
		if batch.Status == models.BatchActive {
			out = append(out, batch)
		}
	}
	return out
}

// TotalCurrentBirds sums the current headcount over active batches.
func (s *Service) TotalCurrentBirds() int {
	var total int
	for _, batch := range s.Active() {
		total += batch.CurrentCount
	}
	return total
}

// AverageMortality returns the mean mortality percentage over active
// batches, 0 when there are none.
func (s *Service) AverageMortality() float64 {
	active := s.Active()
	if len(active) == 0 {
		return 0
	}
	var sum float64
	for _, batch := range active {
		sum += batch.Mortality
	}
	return sum / float64(len(active))
}

// AverageWeight returns the mean average weight over active batches, 0
// when there are none.
func (s *Service) AverageWeight() float64 {
	active := s.Active()
	if len(active) == 0 {
		return 0
	}
	var sum float64
	for _, batch := range active {
		sum += batch.AverageWeight
	}
	return sum / float64(len(active))
}
