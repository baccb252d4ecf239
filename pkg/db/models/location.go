package models

import "time"

// Location is the physical address an inventory node sits at.
type Location struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Latitude  float64   `gorm:"column:latitude;not null" json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64   `gorm:"column:longitude;not null" json:"longitude" validate:"gte=-180,lte=180"`
	Address   string    `gorm:"column:address;type:varchar(255);not null" json:"address" validate:"max=255"`
	City      string    `gorm:"column:city;type:varchar(100);not null" json:"city" validate:"max=100"`
	State     string    `gorm:"column:state;type:varchar(100);not null" json:"state" validate:"max=100"`
	Country   string    `gorm:"column:country;type:varchar(100);not null" json:"country" validate:"max=100"`
	ZipCode   string    `gorm:"column:zip_code;type:varchar(10);not null" json:"zipCode" validate:"max=10"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Location) TableName() string { return "location" }
