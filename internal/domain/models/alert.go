package models

import "time"

// AlertType classifies what an alert is about.
type AlertType string

const (
	AlertHealth     AlertType = "salud"
	AlertProduction AlertType = "produccion"
	AlertMortality  AlertType = "mortalidad"
	AlertAtmosphere AlertType = "ambiente"
	AlertFeeding    AlertType = "alimentacion"
)

// Valid reports whether the type is one of the known tags.
func (t AlertType) Valid() bool {
	switch t {
	case AlertHealth, AlertProduction, AlertMortality, AlertAtmosphere, AlertFeeding:
		return true
	}
	return false
}

// AlertPriority orders alerts by urgency.
type AlertPriority string

const (
	PriorityLow      AlertPriority = "baja"
	PriorityMedium   AlertPriority = "media"
	PriorityHigh     AlertPriority = "alta"
	PriorityCritical AlertPriority = "critica"
)

// Valid reports whether the priority is one of the known tags.
func (p AlertPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// AlertStatus is the lifecycle state of an alert.
type AlertStatus string

const (
	AlertActive    AlertStatus = "activa"
	AlertResolved  AlertStatus = "resuelta"
	AlertDiscarded AlertStatus = "descartada"
)

// Valid reports whether the status is one of the known tags.
func (s AlertStatus) Valid() bool {
	switch s {
	case AlertActive, AlertResolved, AlertDiscarded:
		return true
	}
	return false
}

// AlertParams carries the measured-versus-expected values behind a
// parameterized alert (for example mortality percentage).
type AlertParams struct {
	CurrentValue  float64 `json:"valorActual" bson:"valor_actual"`
	ExpectedValue float64 `json:"valorEsperado" bson:"valor_esperado"`
	Unit          string  `json:"unidad" bson:"unidad"`
}

// Alert is a notice requiring attention, raised either by a user or by the
// background sweep, with a priority and recommended actions.
type Alert struct {
	ID          string        `json:"id" bson:"_id"`
	Type        AlertType     `json:"tipo" bson:"tipo"`
	Priority    AlertPriority `json:"prioridad" bson:"prioridad"`
	Title       string        `json:"titulo" bson:"titulo"`
	Description string        `json:"descripcion" bson:"descripcion"`
	BatchID     string        `json:"lote,omitempty" bson:"lote,omitempty"`
	CreatedAt   time.Time     `json:"fechaCreacion" bson:"fecha_creacion"`
	ExpiresAt   *time.Time    `json:"fechaVencimiento,omitempty" bson:"fecha_vencimiento,omitempty"`
	Status      AlertStatus   `json:"estado" bson:"estado"`
	Actions     []string      `json:"accionesRecomendadas" bson:"acciones_recomendadas"`
	Params      *AlertParams  `json:"parametros,omitempty" bson:"parametros,omitempty"`
}

// EntityID returns the unique identity of the alert.
func (a Alert) EntityID() string { return a.ID }

// WithEntityID returns a copy of the alert carrying the given id.
func (a Alert) WithEntityID(id string) Alert {
	a.ID = id
	return a
}

// Clone returns a deep copy safe to hand across the store boundary.
func (a Alert) Clone() Alert {
	cp := a
	cp.Actions = append([]string(nil), a.Actions...)
	if a.ExpiresAt != nil {
		exp := *a.ExpiresAt
		cp.ExpiresAt = &exp
	}
	if a.Params != nil {
		params := *a.Params
		cp.Params = &params
	}
	return cp
}
