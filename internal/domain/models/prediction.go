package models

import "time"

// PredictionType classifies what a prediction estimates.
type PredictionType string

const (
	PredictionWeight     PredictionType = "peso"
	PredictionSacrifice  PredictionType = "sacrificio"
	PredictionConversion PredictionType = "conversion"
	PredictionMortality  PredictionType = "mortalidad"
)

// Valid reports whether the type is one of the known tags.
func (t PredictionType) Valid() bool {
	switch t {
	case PredictionWeight, PredictionSacrifice, PredictionConversion, PredictionMortality:
		return true
	}
	return false
}

// Prediction is a projected metric for a batch (target weight, sacrifice
// date, feed conversion) with a confidence percentage.
type Prediction struct {
	ID          string         `json:"id" bson:"_id"`
	Type        PredictionType `json:"tipo" bson:"tipo"`
	BatchID     string         `json:"lote" bson:"lote"`
	Date        time.Time      `json:"fechaPrediccion" bson:"fecha_prediccion"`
	Value       float64        `json:"valor" bson:"valor"`
	Confidence  float64        `json:"confianza" bson:"confianza"`
	Description string         `json:"descripcion" bson:"descripcion"`
}

// EntityID returns the unique identity of the prediction.
func (p Prediction) EntityID() string { return p.ID }

// WithEntityID returns a copy of the prediction carrying the given id.
func (p Prediction) WithEntityID(id string) Prediction {
	p.ID = id
	return p
}

// Clone returns a deep copy safe to hand across the store boundary.
func (p Prediction) Clone() Prediction { return p }
