// Package health instantiates the entity store for veterinary records.
package health

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/store"
)

// Patch is a partial health-record update; nil fields keep their current
// value.
type Patch struct {
	Date         *time.Time         `json:"fecha"`
	Type         *models.RecordType `json:"tipoRegistro"`
	Symptoms     *[]string          `json:"sintomas"`
	Diagnosis    *string            `json:"diagnostico"`
	Treatment    *string            `json:"tratamiento"`
	Medication   *string            `json:"medicamento"`
	Dosage       *string            `json:"dosis"`
	Veterinarian *string            `json:"veterinario"`
	NextCheck    *time.Time         `json:"proximaRevision"`
	Notes        *string            `json:"observaciones"`
}

func (p Patch) apply(r models.HealthRecord) models.HealthRecord {
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Symptoms != nil {
		r.Symptoms = append([]string(nil), (*p.Symptoms)...)
	}
	if p.Diagnosis != nil {
		r.Diagnosis = *p.Diagnosis
	}
	if p.Treatment != nil {
		r.Treatment = *p.Treatment
	}
	if p.Medication != nil {
		r.Medication = *p.Medication
	}
	if p.Dosage != nil {
		r.Dosage = *p.Dosage
	}
	if p.Veterinarian != nil {
		r.Veterinarian = *p.Veterinarian
	}
	if p.NextCheck != nil {
		next := *p.NextCheck
		r.NextCheck = &next
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	return r
}

// Service wraps the health-record store.
type Service struct {
	store  *store.Store[models.HealthRecord]
	logger *zap.Logger
}

// NewService builds the health service over the given backing source.
func NewService(source store.Source[models.HealthRecord], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store: store.New("registro", source,
			store.WithValidator(Validate),
			store.WithLogger[models.HealthRecord](logger)),
		logger: logger,
	}
}

// Validate enforces the health-record field constraints.
func Validate(r models.HealthRecord) error {
	var fields []store.FieldError
	if r.BirdID == "" {
		fields = append(fields, store.FieldError{Field: "polloId", Reason: "must not be empty"})
	}
	if r.Date.IsZero() {
		fields = append(fields, store.FieldError{Field: "fecha", Reason: "must be set"})
	}
	if !r.Type.Valid() {
		fields = append(fields, store.FieldError{Field: "tipoRegistro", Reason: "unknown record type"})
	}
	if len(fields) > 0 {
		return &store.ValidationError{Kind: "registro", Fields: fields}
	}
	return nil
}

// Load populates the snapshot from the backing source.
func (s *Service) Load(ctx context.Context) error { return s.store.Load(ctx) }

// List returns the current snapshot.
func (s *Service) List() []models.HealthRecord { return s.store.List() }

// Get returns one record by id.
func (s *Service) Get(id string) (models.HealthRecord, error) { return s.store.Get(id) }

// Create registers a new veterinary record.
func (s *Service) Create(ctx context.Context, draft models.HealthRecord) (models.HealthRecord, error) {
	return s.store.Create(ctx, draft)
}

// Update applies a partial patch to the record with the given id.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (models.HealthRecord, error) {
	return s.store.Update(ctx, id, patch.apply)
}

// Delete removes the record with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Subscribe registers an observer on the underlying store.
func (s *Service) Subscribe(fn func(store.Event)) func() { return s.store.Subscribe(fn) }

// ForBird returns every record whose bird id or denormalized identifier
// matches birdRef, in snapshot order.
func (s *Service) ForBird(birdRef string) []models.HealthRecord {
	var out []models.HealthRecord
	for _, rec := range s.store.List() {
		if rec.BirdID == birdRef || rec.BirdIdentifier == birdRef {
			out = append(out, rec)
		}
	}
	return out
}

// ForBatch returns every record belonging to the given batch id.
func (s *Service) ForBatch(batchID string) []models.HealthRecord {
	var out []models.HealthRecord
	for _, rec := range s.store.List() {
		if rec.BatchID == batchID {
			out = append(out, rec)
		}
	}
	return out
}

// LatestFor returns the most recent record for the bird, matching either
// the bird id or its identifier code. Exact date ties go to the record
// created later (later snapshot position). The boolean reports whether any
// record matched.
func (s *Service) LatestFor(birdRef string) (models.HealthRecord, bool) {
	var latest models.HealthRecord
	var found bool
	for _, rec := range s.store.List() {
		if rec.BirdID != birdRef && rec.BirdIdentifier != birdRef {
			continue
		}
		if !found || !rec.Date.Before(latest.Date) {
			latest = rec
			found = true
		}
	}
	return latest, found
}
