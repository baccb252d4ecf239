package models

import (
	"time"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
)

// Inventory is a store or micro-fulfillment center holding stock.
type Inventory struct {
	ID              int64                 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Location        string                `gorm:"column:location;type:varchar(255);not null" json:"location" validate:"max=255"`
	VolumeOccupied  float64               `gorm:"column:volume_occupied;not null" json:"volumeOccupied"`
	VolumeAvailable float64               `gorm:"column:volume_available;not null" json:"volumeAvailable"`
	VolumeReserved  float64               `gorm:"column:volume_reserved;not null" json:"volumeReserved"`
	Name            string                `gorm:"column:name;type:varchar(255);not null" json:"name" validate:"max=255"`
	Description     string                `gorm:"column:description;type:text;not null" json:"description"`
	Threshold       int                   `gorm:"column:threshold;not null" json:"threshold"`
	LocationID      int64                 `gorm:"column:location_id;not null" json:"locationId"`
	Status          enums.InventoryStatus `gorm:"column:status;type:inventory_status;not null;default:healthy" json:"status" validate:"oneof=critical healthy warning"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Inventory) TableName() string { return "inventory" }

func (i *Inventory) ApplyDefaults(time.Time) {
	if i.Status == "" {
		i.Status = enums.InventoryStatusHealthy
	}
}
