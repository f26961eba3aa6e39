package models

import "time"

// BatchStatus is the lifecycle state of a batch. Serialized with the
// Spanish tags the dashboard displays.
type BatchStatus string

const (
	BatchActive    BatchStatus = "activo"
	BatchDone      BatchStatus = "completado"
	BatchSuspended BatchStatus = "suspendido"
)

// Valid reports whether the status is one of the known tags.
func (s BatchStatus) Valid() bool {
	switch s {
	case BatchActive, BatchDone, BatchSuspended:
		return true
	}
	return false
}

// Batch represents a cohort of birds ("lote") raised together from a start
// date and tracked as a unit for weight, mortality and status.
type Batch struct {
	ID            string      `json:"id" bson:"_id"`
	Name          string      `json:"nombre" bson:"nombre"`
	InitialCount  int         `json:"cantidadInicial" bson:"cantidad_inicial"`
	CurrentCount  int         `json:"cantidadActual" bson:"cantidad_actual"`
	StartDate     time.Time   `json:"fechaInicio" bson:"fecha_inicio"`
	Breed         string      `json:"raza" bson:"raza"`
	Status        BatchStatus `json:"estado" bson:"estado"`
	AverageWeight float64     `json:"pesoPromedio" bson:"peso_promedio"`
	Mortality     float64     `json:"mortalidad" bson:"mortalidad"`
	Notes         string      `json:"observaciones" bson:"observaciones"`
}

// EntityID returns the unique identity of the batch.
func (b Batch) EntityID() string { return b.ID }

// WithEntityID returns a copy of the batch carrying the given id.
func (b Batch) WithEntityID(id string) Batch {
	b.ID = id
	return b
}

// Clone returns a deep copy safe to hand across the store boundary.
func (b Batch) Clone() Batch { return b }
