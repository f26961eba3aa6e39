package models

import "time"

// DailyReport is the aggregated farm snapshot persisted once per day by the
// scheduler.
type DailyReport struct {
	Date             time.Time `bson:"date" json:"date"`
	ActiveBatches    int       `bson:"active_batches" json:"activeBatches"`
	TotalBirds       int       `bson:"total_birds" json:"totalBirds"`
	HealthyBirds     int       `bson:"healthy_birds" json:"healthyBirds"`
	SickBirds        int       `bson:"sick_birds" json:"sickBirds"`
	DeadBirds        int       `bson:"dead_birds" json:"deadBirds"`
	AverageMortality float64   `bson:"average_mortality" json:"averageMortality"`
	AverageWeight    float64   `bson:"average_weight" json:"averageWeight"`
	ActiveAlerts     int       `bson:"active_alerts" json:"activeAlerts"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
}

// DashboardMetrics is the live metrics block rendered by the dashboard
// landing page.
type DashboardMetrics struct {
	ActiveBatches    int     `json:"lotesActivos"`
	TotalBirds       int     `json:"totalPollos"`
	HealthyBirds     int     `json:"pollosSanos"`
	SickBirds        int     `json:"pollosEnfermos"`
	DeadBirds        int     `json:"pollosMuertos"`
	HealthyPercent   float64 `json:"porcentajeSanos"`
	AverageMortality float64 `json:"mortalidadPromedio"`
	AverageWeight    float64 `json:"pesoPromedio"`
	ActiveAlerts     int     `json:"alertasActivas"`
}
