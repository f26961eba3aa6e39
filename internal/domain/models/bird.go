package models

import "time"

// HealthState is the current condition of an individual bird.
type HealthState string

const (
	BirdHealthy HealthState = "sano"
	BirdSick    HealthState = "enfermo"
	BirdDead    HealthState = "muerto"
)

// Valid reports whether the state is one of the known tags.
func (s HealthState) Valid() bool {
	switch s {
	case BirdHealthy, BirdSick, BirdDead:
		return true
	}
	return false
}

// Bird represents an individually tracked animal ("pollo") belonging to a
// batch. BatchID always holds the owning batch's id, never its display
// name; name-based lookups are resolved before they reach the store.
type Bird struct {
	ID            string      `json:"id" bson:"_id"`
	Identifier    string      `json:"identificador" bson:"identificador"`
	BatchID       string      `json:"lote" bson:"lote"`
	Breed         string      `json:"raza" bson:"raza"`
	BirthDate     time.Time   `json:"fechaNacimiento" bson:"fecha_nacimiento"`
	CurrentWeight float64     `json:"pesoActual" bson:"peso_actual"`
	Status        HealthState `json:"estado" bson:"estado"`
	Notes         string      `json:"observaciones" bson:"observaciones"`
	LastCheck     time.Time   `json:"ultimaRevision" bson:"ultima_revision"`
}

// EntityID returns the unique identity of the bird.
func (b Bird) EntityID() string { return b.ID }

// WithEntityID returns a copy of the bird carrying the given id.
func (b Bird) WithEntityID(id string) Bird {
	b.ID = id
	return b
}

// Clone returns a deep copy safe to hand across the store boundary.
func (b Bird) Clone() Bird { return b }
