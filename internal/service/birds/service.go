// Package birds instantiates the entity store for individual birds and
// exposes the batch-scoped views the dashboard pages consume.
package birds

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/store"
)

// Patch is a partial bird update; nil fields keep their current value.
type Patch struct {
	Identifier    *string             `json:"identificador"`
	BatchID       *string             `json:"lote"`
	Breed         *string             `json:"raza"`
	BirthDate     *time.Time          `json:"fechaNacimiento"`
	CurrentWeight *float64            `json:"pesoActual"`
	Status        *models.HealthState `json:"estado"`
	Notes         *string             `json:"observaciones"`
	LastCheck     *time.Time          `json:"ultimaRevision"`
}

func (p Patch) apply(b models.Bird) models.Bird {
	if p.Identifier != nil {
		b.Identifier = *p.Identifier
	}
	if p.BatchID != nil {
		b.BatchID = *p.BatchID
	}
	if p.Breed != nil {
		b.Breed = *p.Breed
	}
	if p.BirthDate != nil {
		b.BirthDate = *p.BirthDate
	}
	if p.LastCheck != nil {
		b.LastCheck = *p.LastCheck
	}
	if p.CurrentWeight != nil {
		b.CurrentWeight = *p.CurrentWeight
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	return b
}

// Service wraps the bird store.
type Service struct {
	store  *store.Store[models.Bird]
	logger *zap.Logger
}

// NewService builds the bird service over the given backing source.
func NewService(source store.Source[models.Bird], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store: store.New("pollo", source,
			store.WithValidator(Validate),
			store.WithLogger[models.Bird](logger)),
		logger: logger,
	}
}

// Validate enforces the bird field constraints.
func Validate(b models.Bird) error {
	var fields []store.FieldError
	if b.Identifier == "" {
		fields = append(fields, store.FieldError{Field: "identificador", Reason: "must not be empty"})
	}
	if b.BatchID == "" {
		fields = append(fields, store.FieldError{Field: "lote", Reason: "must reference a batch id"})
	}
	if b.CurrentWeight < 0 || math.IsNaN(b.CurrentWeight) || math.IsInf(b.CurrentWeight, 0) {
		fields = append(fields, store.FieldError{Field: "pesoActual", Reason: "must be a finite value >= 0"})
	}
	if !b.Status.Valid() {
		fields = append(fields, store.FieldError{Field: "estado", Reason: "unknown health state"})
	}
	if len(fields) > 0 {
		return &store.ValidationError{Kind: "pollo", Fields: fields}
	}
	return nil
}

// Load populates the snapshot from the backing source.
func (s *Service) Load(ctx context.Context) error { return s.store.Load(ctx) }

// List returns the current snapshot.
func (s *Service) List() []models.Bird { return s.store.List() }

// Get returns one bird by id.
func (s *Service) Get(id string) (models.Bird, error) { return s.store.Get(id) }

// Create registers a new bird.
func (s *Service) Create(ctx context.Context, draft models.Bird) (models.Bird, error) {
	return s.store.Create(ctx, draft)
}

// Update applies a partial patch to the bird with the given id.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (models.Bird, error) {
	return s.store.Update(ctx, id, patch.apply)
}

// Delete removes the bird with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Subscribe registers an observer on the underlying store.
func (s *Service) Subscribe(fn func(store.Event)) func() { return s.store.Subscribe(fn) }

// InBatch returns the birds owned by the given batch id. Batch display
// names are not matched here; resolving a name to an id is the HTTP
// layer's job.
func (s *Service) InBatch(batchID string) []models.Bird {
	var out []models.Bird
	for _, bird := range s.store.List() {
		if bird.BatchID == batchID {
			out = append(out, bird)
		}
	}
	return out
}

// CountByStatus counts birds currently in the given health state.
func (s *Service) CountByStatus(status models.HealthState) int {
	var n int
	for _, bird := range s.store.List() {
		if bird.Status == status {
			n++
		}
	}
	return n
}
