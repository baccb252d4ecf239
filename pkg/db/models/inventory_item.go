package models

import "time"

// InventoryItem links an item to an inventory with the quantity on hand.
// The (inventory, item) pair is its identity.
type InventoryItem struct {
	InventoryID int64     `gorm:"column:inventory_id;primaryKey;autoIncrement:false" json:"inventoryId"`
	ItemID      int64     `gorm:"column:item_id;primaryKey;autoIncrement:false" json:"itemId"`
	Quantity    int       `gorm:"column:quantity;not null" json:"quantity" validate:"gte=0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (InventoryItem) TableName() string { return "inventory_items" }
