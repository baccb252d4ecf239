package models

import "time"

// DemandHistory records observed demand for an item at an inventory.
type DemandHistory struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InventoryID    int64     `gorm:"column:inventory_id;not null" json:"inventoryId"`
	ItemID         int64     `gorm:"column:item_id;not null" json:"itemId"`
	DemandQuantity int       `gorm:"column:demand_quantity;not null" json:"demandQuantity"`
	Timestamp      time.Time `gorm:"column:timestamp;not null" json:"timestamp"`
	Source         *string   `gorm:"column:source;type:varchar(100)" json:"source" validate:"omitempty,max=100"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (DemandHistory) TableName() string { return "demand_history" }
