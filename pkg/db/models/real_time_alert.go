package models

import "time"

// RealTimeAlert is an operational alert raised against an inventory.
type RealTimeAlert struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InventoryID int64      `gorm:"column:inventory_id;not null" json:"inventoryId"`
	AlertType   string     `gorm:"column:alert_type;type:varchar(100);not null" json:"alertType" validate:"max=100"`
	Severity    string     `gorm:"column:severity;type:varchar(50);not null" json:"severity" validate:"max=50"`
	Message     string     `gorm:"column:message;type:text;not null" json:"message"`
	IsResolved  bool       `gorm:"column:is_resolved;default:false" json:"isResolved"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at" json:"resolvedAt"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (RealTimeAlert) TableName() string { return "real_time_alerts" }
