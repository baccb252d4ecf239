package models

import "time"

// SpikeMonitoring marks an inventory as under demand-spike watch.
type SpikeMonitoring struct {
	SpikeMonitoringID int64     `gorm:"column:spike_monitoring_id;primaryKey;autoIncrement" json:"spikeMonitoringId"`
	InventoryID       int64     `gorm:"column:inventory_id;not null" json:"inventoryId"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (SpikeMonitoring) TableName() string { return "spike_monitoring" }
