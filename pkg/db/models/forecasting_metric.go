package models

import (
	"time"

	dbtypes "github.com/Varun984/Sparkathon-by-Walmart/pkg/db/types"
)

// ForecastingMetric stores a demand forecast sample for an inventory.
type ForecastingMetric struct {
	ForecastID        int64             `gorm:"column:forecast_id;primaryKey;autoIncrement" json:"forecastId"`
	InventoryID       int64             `gorm:"column:inventory_id;not null" json:"inventoryId"`
	HowMuchTimeToFill dbtypes.TimeOfDay `gorm:"column:how_much_time_to_fill;type:time;not null" json:"howMuchTimeToFill" validate:"timeofday"`
	PredictedDemand   float64           `gorm:"column:predicted_demand;not null" json:"predictedDemand"`
	ActualDemand      float64           `gorm:"column:actual_demand;not null" json:"actualDemand"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (ForecastingMetric) TableName() string { return "forecasting_metrics" }
