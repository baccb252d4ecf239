package models

import "time"

// Item is a catalogue product that can be stocked in inventories.
type Item struct {
	ItemID      int64     `gorm:"column:item_id;primaryKey;autoIncrement" json:"itemId"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name" validate:"max=255"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	Price       float64   `gorm:"column:price;not null" json:"price" validate:"gte=0"`
	Weight      float64   `gorm:"column:weight;not null" json:"weight" validate:"gte=0"`
	Dimensions  string    `gorm:"column:dimensions;type:text;not null" json:"dimensions"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Item) TableName() string { return "items" }
