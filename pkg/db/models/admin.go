package models

import "time"

// Admin is an operator account. Password is stored as supplied by the caller.
type Admin struct {
	AdminID   int64     `gorm:"column:admin_id;primaryKey;autoIncrement" json:"adminId"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name" validate:"max=255"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email" validate:"email,max=255"`
	Password  string    `gorm:"column:password;type:varchar(255);not null" json:"password" validate:"max=255"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Admin) TableName() string { return "admin" }
