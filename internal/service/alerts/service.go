// Package alerts instantiates the entity store for alerts and the filters
// the alert page and the background sweep rely on.
package alerts

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/avicontrol/avicontrol/internal/domain/models"
	"github.com/avicontrol/avicontrol/internal/store"
)

// Filter selects alerts by type, priority and status. Empty fields match
// everything; set fields are combined with AND semantics.
type Filter struct {
	Type     models.AlertType
	Priority models.AlertPriority
	Status   models.AlertStatus
	BatchID  string
}

func (f Filter) matches(a models.Alert) bool {
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.Priority != "" && a.Priority != f.Priority {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.BatchID != "" && a.BatchID != f.BatchID {
		return false
	}
	return true
}

// Patch is a partial alert update; nil fields keep their current value.
type Patch struct {
	Type        *models.AlertType     `json:"tipo"`
	Priority    *models.AlertPriority `json:"prioridad"`
	Title       *string               `json:"titulo"`
	Description *string               `json:"descripcion"`
	BatchID     *string               `json:"lote"`
	ExpiresAt   *time.Time            `json:"fechaVencimiento"`
	Status      *models.AlertStatus   `json:"estado"`
	Actions     *[]string             `json:"accionesRecomendadas"`
	Params      *models.AlertParams   `json:"parametros"`
}

func (p Patch) apply(a models.Alert) models.Alert {
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.BatchID != nil {
		a.BatchID = *p.BatchID
	}
	if p.ExpiresAt != nil {
		exp := *p.ExpiresAt
		a.ExpiresAt = &exp
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Actions != nil {
		a.Actions = append([]string(nil), (*p.Actions)...)
	}
	if p.Params != nil {
		params := *p.Params
		a.Params = &params
	}
	return a
}

// Service wraps the alert store.
type Service struct {
	store  *store.Store[models.Alert]
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds the alert service over the given backing source.
func NewService(source store.Source[models.Alert], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store: store.New("alerta", source,
			store.WithValidator(Validate),
			store.WithLogger[models.Alert](logger)),
		logger: logger,
		now:    time.Now,
	}
}

// Validate enforces the alert field constraints.
func Validate(a models.Alert) error {
	var fields []store.FieldError
	if a.Title == "" {
		fields = append(fields, store.FieldError{Field: "titulo", Reason: "must not be empty"})
	}
	if !a.Type.Valid() {
		fields = append(fields, store.FieldError{Field: "tipo", Reason: "unknown alert type"})
	}
	if !a.Priority.Valid() {
		fields = append(fields, store.FieldError{Field: "prioridad", Reason: "unknown priority"})
	}
	if !a.Status.Valid() {
		fields = append(fields, store.FieldError{Field: "estado", Reason: "unknown status"})
	}
	if len(fields) > 0 {
		return &store.ValidationError{Kind: "alerta", Fields: fields}
	}
	return nil
}

// Load populates the snapshot from the backing source.
func (s *Service) Load(ctx context.Context) error { return s.store.Load(ctx) }

// List returns the current snapshot.
func (s *Service) List() []models.Alert { return s.store.List() }

// Get returns one alert by id.
func (s *Service) Get(id string) (models.Alert, error) { return s.store.Get(id) }

// Create registers a new alert, stamping CreatedAt when the caller left it
// zero.
func (s *Service) Create(ctx context.Context, draft models.Alert) (models.Alert, error) {
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = s.now()
	}
	return s.store.Create(ctx, draft)
}

// Update applies a partial patch to the alert with the given id.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (models.Alert, error) {
	return s.store.Update(ctx, id, patch.apply)
}

// Delete removes the alert with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Subscribe registers an observer on the underlying store.
func (s *Service) Subscribe(fn func(store.Event)) func() { return s.store.Subscribe(fn) }

// Resolve marks the alert resolved.
func (s *Service) Resolve(ctx context.Context, id string) (models.Alert, error) {
	resolved := models.AlertResolved
	return s.Update(ctx, id, Patch{Status: &resolved})
}

// FilterBy returns the alerts matching every set field of the filter.
func (s *Service) FilterBy(f Filter) []models.Alert {
	var out []models.Alert
	for _, alert := range s.store.List() {
		if f.matches(alert) {
			out = append(out, alert)
		}
	}
	return out
}

// ActiveCount counts alerts currently active.
func (s *Service) ActiveCount() int {
	return len(s.FilterBy(Filter{Status: models.AlertActive}))
}

// IsExpired reports whether the alert carries an expiry in the past while
// still active.
func IsExpired(a models.Alert, now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now) && a.Status == models.AlertActive
}

// SweepExpired discards every active alert whose expiry has passed and
// returns the alerts it touched.
func (s *Service) SweepExpired(ctx context.Context) ([]models.Alert, error) {
	now := s.now()
	var swept []models.Alert
	for _, alert := range s.store.List() {
		if !IsExpired(alert, now) {
			continue
		}
		discarded := models.AlertDiscarded
		updated, err := s.Update(ctx, alert.ID, Patch{Status: &discarded})
		if err != nil {
			return swept, err
		}
		swept = append(swept, updated)
	}
	return swept, nil
}
