package relocations

import (
	"context"
	"fmt"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/repo"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/store"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
)

// Service applies relocations to inventory volumes.
type Service interface {
	Execute(ctx context.Context, relocationID int64) (*Execution, error)
}

type service struct {
	store *store.Store
	logg  *logger.Logger
}

// Execution reports the rows as they stand after a relocation is applied.
type Execution struct {
	Relocation models.RelocationMessage `json:"relocation"`
	From       models.Inventory         `json:"from"`
	To         models.Inventory         `json:"to"`
}

// NewService wires relocation dependencies.
func NewService(s *store.Store, logg *logger.Logger) (Service, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "relocations store required")
	}
	return &service{store: s, logg: logg}, nil
}

// Execute moves the relocation quantity of volume from the source inventory
// to the destination and marks the relocation completed, all in one
// transaction.
func (s *service) Execute(ctx context.Context, relocationID int64) (*Execution, error) {
	var out Execution
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		rel, err := tx.Relocations.GetByID(ctx, relocationID)
		if err != nil {
			return err
		}
		if rel == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("relocation %d not found", relocationID))
		}
		if rel.Status == enums.RelocationStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("relocation %d already completed", relocationID))
		}

		quantity := float64(rel.Quantity)
		from, err := shiftVolume(ctx, tx, rel.FromInventoryID, -quantity)
		if err != nil {
			return err
		}
		to, err := shiftVolume(ctx, tx, rel.ToInventoryID, quantity)
		if err != nil {
			return err
		}

		rows, err := tx.Relocations.UpdateByID(ctx, relocationID, repo.Patch{"status": enums.RelocationStatusCompleted})
		if err != nil {
			return err
		}
		out = Execution{Relocation: rows[0], From: *from, To: *to}
		return nil
	})
	if err != nil {
		return nil, db.Classify(err, "execute relocation")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"relocation_id":     relocationID,
			"from_inventory_id": out.From.ID,
			"to_inventory_id":   out.To.ID,
			"quantity":          out.Relocation.Quantity,
		})
		s.logg.Info(logCtx, "relocation.executed")
	}
	return &out, nil
}

// shiftVolume adds delta to occupied volume and removes it from available
// volume.
func shiftVolume(ctx context.Context, tx *store.Store, inventoryID int64, delta float64) (*models.Inventory, error) {
	inv, err := tx.Inventories.GetByID(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("inventory %d not found", inventoryID))
	}
	rows, err := tx.Inventories.UpdateByID(ctx, inventoryID, repo.Patch{
		"volume_occupied":  inv.VolumeOccupied + delta,
		"volume_available": inv.VolumeAvailable - delta,
	})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}
