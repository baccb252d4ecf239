package models

import (
	"time"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
)

// TriggerMessage is a replenishment request raised for an inventory.
type TriggerMessage struct {
	TriggerMessageID int64               `gorm:"column:trigger_message_id;primaryKey;autoIncrement" json:"triggerMessageId"`
	InventoryID      int64               `gorm:"column:inventory_id;not null" json:"inventoryId"`
	Message          string              `gorm:"column:message;type:text;not null" json:"message"`
	Status           enums.TriggerStatus `gorm:"column:status;type:trigger_status;not null;default:pending" json:"status" validate:"oneof=pending cannot_fulfill fulfilled cancelled"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (TriggerMessage) TableName() string { return "trigger_message" }

func (m *TriggerMessage) ApplyDefaults(time.Time) {
	if m.Status == "" {
		m.Status = enums.TriggerStatusPending
	}
}
