package memory

import (
	"time"

	"github.com/avicontrol/avicontrol/internal/domain/models"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func stamp(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		panic(err)
	}
	return t
}

func stampPtr(value string) *time.Time {
	t := stamp(value)
	return &t
}

func dayPtr(value string) *time.Time {
	t := day(value)
	return &t
}

// SeedBatches returns the demo batch fixtures.
func SeedBatches() []models.Batch {
	return []models.Batch{
		{
			ID:           "1",
			Name:         "Lote A - Ene 2024",
			InitialCount: 1100, CurrentCount: 1050,
			StartDate: day("2024-01-15"),
			Breed:     "Ross 308",
			Status:    models.BatchActive,
			AverageWeight: 1.2, Mortality: 4.5,
			Notes: "Desarrollo normal, buena conversión alimenticia",
		},
		{
			ID:           "2",
			Name:         "Lote B - Dic 2023",
			InitialCount: 950, CurrentCount: 890,
			StartDate: day("2023-12-01"),
			Breed:     "Cobb 500",
			Status:    models.BatchActive,
			AverageWeight: 2.5, Mortality: 6.3,
			Notes: "Listo para procesamiento la próxima semana",
		},
		{
			ID:           "3",
			Name:         "Lote C - Ene 2024",
			InitialCount: 980, CurrentCount: 907,
			StartDate: day("2024-01-20"),
			Breed:     "Ross 308",
			Status:    models.BatchActive,
			AverageWeight: 2.1, Mortality: 7.4,
			Notes: "Crecimiento dentro de parámetros esperados",
		},
		{
			ID:           "4",
			Name:         "Lote D - Nov 2023",
			InitialCount: 1200, CurrentCount: 0,
			StartDate: day("2023-11-01"),
			Breed:     "Cobb 500",
			Status:    models.BatchDone,
			AverageWeight: 2.8, Mortality: 5.2,
			Notes: "Completado exitosamente. Buen rendimiento",
		},
	}
}

// SeedBirds returns the demo bird fixtures. BatchID references batch ids,
// not display names.
func SeedBirds() []models.Bird {
	return []models.Bird{
		{
			ID: "1", Identifier: "A001", BatchID: "1",
			Breed: "Ross 308", BirthDate: day("2024-01-15"),
			CurrentWeight: 1.25, Status: models.BirdHealthy,
			Notes: "Desarrollo normal", LastCheck: day("2024-02-20"),
		},
		{
			ID: "2", Identifier: "A002", BatchID: "1",
			Breed: "Ross 308", BirthDate: day("2024-01-15"),
			CurrentWeight: 1.18, Status: models.BirdSick,
			Notes: "Síntomas respiratorios leves", LastCheck: day("2024-02-20"),
		},
		{
			ID: "3", Identifier: "B001", BatchID: "2",
			Breed: "Cobb 500", BirthDate: day("2023-12-01"),
			CurrentWeight: 2.65, Status: models.BirdHealthy,
			Notes: "Listo para procesamiento", LastCheck: day("2024-02-19"),
		},
		{
			ID: "4", Identifier: "A003", BatchID: "1",
			Breed: "Ross 308", BirthDate: day("2024-01-15"),
			CurrentWeight: 0, Status: models.BirdDead,
			Notes: "Mortalidad natural - semana 4", LastCheck: day("2024-02-15"),
		},
		{
			ID: "5", Identifier: "C001", BatchID: "3",
			Breed: "Ross 308", BirthDate: day("2024-01-20"),
			CurrentWeight: 2.15, Status: models.BirdHealthy,
			Notes: "Crecimiento óptimo", LastCheck: day("2024-02-20"),
		},
	}
}

// SeedHealthRecords returns the demo veterinary records.
func SeedHealthRecords() []models.HealthRecord {
	return []models.HealthRecord{
		{
			ID: "1", BirdID: "2", BirdIdentifier: "A002", BatchID: "1",
			Date: day("2024-02-20"), Type: models.RecordSickness,
			Symptoms:  []string{"Respiración dificultosa", "Secreción nasal", "Letargo"},
			Diagnosis: "Infección respiratoria leve",
			Treatment: "Antibiótico oral + aislamiento",
			Medication: "Enrofloxacina", Dosage: "10mg/kg durante 5 días",
			Veterinarian: "Dr. María González",
			NextCheck:    dayPtr("2024-02-25"),
			Notes:        "Mejoría notable después de 2 días de tratamiento",
		},
		{
			ID: "2", BirdID: "1", BirdIdentifier: "A001", BatchID: "1",
			Date: day("2024-02-18"), Type: models.RecordRoutine,
			Symptoms:     []string{},
			Diagnosis:    "Estado de salud normal",
			Treatment:    "Ninguno",
			Veterinarian: "Dr. Carlos Ruiz",
			Notes:        "Desarrollo dentro de parámetros normales",
		},
		{
			ID: "3", BirdID: "3", BirdIdentifier: "B001", BatchID: "2",
			Date: day("2024-02-19"), Type: models.RecordRoutine,
			Symptoms:     []string{},
			Diagnosis:    "Peso objetivo alcanzado",
			Treatment:    "Ninguno",
			Veterinarian: "Dr. Carlos Ruiz",
			Notes:        "Apto para procesamiento",
		},
		{
			ID: "4", BirdID: "5", BirdIdentifier: "C001", BatchID: "3",
			Date: day("2024-02-10"), Type: models.RecordVaccination,
			Symptoms:   []string{},
			Diagnosis:  "Vacunación preventiva",
			Treatment:  "Vacuna Newcastle",
			Medication: "Vacuna NDV", Dosage: "Dosis única",
			Veterinarian: "Dr. María González",
			Notes:        "Sin reacciones adversas",
		},
	}
}

// SeedAlerts returns the demo alert fixtures.
func SeedAlerts() []models.Alert {
	return []models.Alert{
		{
			ID: "1", Type: models.AlertHealth, Priority: models.PriorityHigh,
			Title:       "Brote respiratorio detectado - Lote A",
			Description: "Incremento significativo de síntomas respiratorios en el 15% del lote. Posible infección viral.",
			BatchID:     "1",
			CreatedAt:   stamp("2024-02-20T08:30:00"),
			ExpiresAt:   stampPtr("2024-02-22T18:00:00"),
			Status:      models.AlertActive,
			Actions: []string{
				"Aislamiento inmediato de pollos afectados",
				"Consulta veterinaria urgente",
				"Mejora ventilación en galpón",
				"Monitoreo intensivo cada 4 horas",
			},
			Params: &models.AlertParams{CurrentValue: 15, ExpectedValue: 3, Unit: "% pollos afectados"},
		},
		{
			ID: "2", Type: models.AlertProduction, Priority: models.PriorityMedium,
			Title:       "Lote B listo para procesamiento",
			Description: "El Lote B ha alcanzado el peso objetivo de 2.5kg promedio. Programar sacrificio en 3-5 días.",
			BatchID:     "2",
			CreatedAt:   stamp("2024-02-19T14:15:00"),
			ExpiresAt:   stampPtr("2024-02-25T00:00:00"),
			Status:      models.AlertActive,
			Actions: []string{
				"Coordinar transporte al procesador",
				"Suspender alimentación 12h antes",
				"Preparar documentación sanitaria",
			},
		},
		{
			ID: "3", Type: models.AlertMortality, Priority: models.PriorityHigh,
			Title:       "Mortalidad elevada - Lote C",
			Description: "La mortalidad del Lote C supera el umbral esperado para su edad.",
			BatchID:     "3",
			CreatedAt:   stamp("2024-02-18T09:00:00"),
			Status:      models.AlertActive,
			Actions: []string{
				"Revisión veterinaria del galpón",
				"Análisis de agua y alimento",
			},
			Params: &models.AlertParams{CurrentValue: 7.4, ExpectedValue: 5, Unit: "%"},
		},
		{
			ID: "4", Type: models.AlertAtmosphere, Priority: models.PriorityMedium,
			Title:       "Temperatura alta en galpón 2",
			Description: "Sensores reportan temperatura sostenida por encima del rango recomendado.",
			CreatedAt:   stamp("2024-02-20T12:45:00"),
			Status:      models.AlertActive,
			Actions: []string{
				"Activar ventiladores auxiliares",
				"Verificar sistema de nebulización",
			},
			Params: &models.AlertParams{CurrentValue: 31, ExpectedValue: 26, Unit: "°C"},
		},
	}
}

// SeedPredictions returns the demo prediction fixtures.
func SeedPredictions() []models.Prediction {
	return []models.Prediction{
		{
			ID: "1", Type: models.PredictionSacrifice, BatchID: "2",
			Date: day("2024-02-25"), Value: 2.65, Confidence: 92,
			Description: "Peso óptimo para sacrificio alcanzado en 5 días",
		},
		{
			ID: "2", Type: models.PredictionWeight, BatchID: "1",
			Date: day("2024-03-15"), Value: 2.4, Confidence: 87,
			Description: "Peso esperado de 2.4kg en 3 semanas",
		},
		{
			ID: "3", Type: models.PredictionConversion, BatchID: "3",
			Date: day("2024-03-01"), Value: 1.85, Confidence: 78,
			Description: "Conversión alimenticia proyectada: 1.85:1",
		},
	}
}
