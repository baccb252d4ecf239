package models

import (
	"time"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
)

const DefaultRelocationPriority = "medium"

// RelocationMessage describes a transfer of item quantity between two inventories.
type RelocationMessage struct {
	RelocationMessageID     int64                  `gorm:"column:relocation_message_id;primaryKey;autoIncrement" json:"relocationMessageId"`
	ItemID                  int64                  `gorm:"column:item_id;not null" json:"itemId"`
	FromInventoryID         int64                  `gorm:"column:from_inventory_id;not null" json:"fromInventoryId"`
	ToInventoryID           int64                  `gorm:"column:to_inventory_id;not null" json:"toInventoryId"`
	Quantity                int                    `gorm:"column:quantity;not null" json:"quantity" validate:"gte=0"`
	Priority                *string                `gorm:"column:priority;type:varchar(50);default:medium" json:"priority" validate:"omitempty,max=50"`
	EstimatedCompletionTime *time.Time             `gorm:"column:estimated_completion_time" json:"estimatedCompletionTime"`
	Status                  enums.RelocationStatus `gorm:"column:status;type:relocation_status;not null;default:pending" json:"status" validate:"oneof=pending in_progress completed failed"`
	CreatedAt               time.Time              `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt               time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (RelocationMessage) TableName() string { return "relocation_message" }

func (m *RelocationMessage) ApplyDefaults(time.Time) {
	if m.Status == "" {
		m.Status = enums.RelocationStatusPending
	}
	if m.Priority == nil {
		priority := DefaultRelocationPriority
		m.Priority = &priority
	}
}
