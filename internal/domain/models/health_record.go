package models

import "time"

// RecordType classifies a veterinary event.
type RecordType string

const (
	RecordRoutine     RecordType = "revision"
	RecordSickness    RecordType = "enfermedad"
	RecordTreatment   RecordType = "tratamiento"
	RecordVaccination RecordType = "vacunacion"
)

// Valid reports whether the record type is one of the known tags.
func (t RecordType) Valid() bool {
	switch t {
	case RecordRoutine, RecordSickness, RecordTreatment, RecordVaccination:
		return true
	}
	return false
}

// HealthRecord is a dated veterinary event ("registro de salud") for a
// bird. BirdIdentifier denormalizes the bird's display code so records
// remain searchable even when the bird row is gone.
type HealthRecord struct {
	ID             string     `json:"id" bson:"_id"`
	BirdID         string     `json:"polloId" bson:"pollo_id"`
	BirdIdentifier string     `json:"polloIdentificador" bson:"pollo_identificador"`
	BatchID        string     `json:"lote" bson:"lote"`
	Date           time.Time  `json:"fecha" bson:"fecha"`
	Type           RecordType `json:"tipoRegistro" bson:"tipo_registro"`
	Symptoms       []string   `json:"sintomas" bson:"sintomas"`
	Diagnosis      string     `json:"diagnostico" bson:"diagnostico"`
	Treatment      string     `json:"tratamiento" bson:"tratamiento"`
	Medication     string     `json:"medicamento" bson:"medicamento"`
	Dosage         string     `json:"dosis" bson:"dosis"`
	Veterinarian   string     `json:"veterinario" bson:"veterinario"`
	NextCheck      *time.Time `json:"proximaRevision,omitempty" bson:"proxima_revision,omitempty"`
	Notes          string     `json:"observaciones" bson:"observaciones"`
}

// EntityID returns the unique identity of the record.
func (r HealthRecord) EntityID() string { return r.ID }

// WithEntityID returns a copy of the record carrying the given id.
func (r HealthRecord) WithEntityID(id string) HealthRecord {
	r.ID = id
	return r
}

// Clone returns a deep copy safe to hand across the store boundary.
func (r HealthRecord) Clone() HealthRecord {
	cp := r
	cp.Symptoms = append([]string(nil), r.Symptoms...)
	if r.NextCheck != nil {
		next := *r.NextCheck
		cp.NextCheck = &next
	}
	return cp
}
