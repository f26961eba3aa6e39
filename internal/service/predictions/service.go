// Package predictions instantiates the entity store for batch projections.
package predictions

import (
	"context"

	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/store"
)

// Service wraps the prediction store. Predictions are produced by an
// external model run; the dashboard only reads and curates them, so no
// patch surface is exposed.
type Service struct {
	store  *store.Store[models.Prediction]
	logger *zap.Logger
}

// NewService builds the prediction service over the given backing source.
func NewService(source store.Source[models.Prediction], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store: store.New("prediccion", source,
			store.WithValidator(Validate),
			store.WithLogger[models.Prediction](logger)),
		logger: logger,
	}
}

// Validate enforces the prediction field constraints.
func Validate(p models.Prediction) error {
	var fields []store.FieldError
	if p.BatchID == "" {
		fields = append(fields, store.FieldError{Field: "lote", Reason: "must reference a batch id"})
	}
	if !p.Type.Valid() {
		fields = append(fields, store.FieldError{Field: "tipo", Reason: "unknown prediction type"})
	}
	if p.Confidence < 0 || p.Confidence > 100 {
		fields = append(fields, store.FieldError{Field: "confianza", Reason: "must be between 0 and 100"})
	}
	if len(fields) > 0 {
		return &store.ValidationError{Kind: "prediccion", Fields: fields}
	}
	return nil
}

// Load populates the snapshot from the backing source.
func (s *Service) Load(ctx context.Context) error { return s.store.Load(ctx) }

// List returns the current snapshot.
func (s *Service) List() []models.Prediction { return s.store.List() }

// Create registers a new prediction.
func (s *Service) Create(ctx context.Context, draft models.Prediction) (models.Prediction, error) {
	return s.store.Create(ctx, draft)
}

// Delete removes the prediction with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// ForBatch returns the predictions targeting the given batch id.
func (s *Service) ForBatch(batchID string) []models.Prediction {
	var out []models.Prediction
	for _, p := range s.store.List() {
		if p.BatchID == batchID {
			out = append(out, p)
		}
	}
	return out
}
