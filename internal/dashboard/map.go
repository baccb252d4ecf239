package dashboard

import (
	"context"
	"fmt"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/repo"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
)

// MapLocation is one inventory node placed on the map.
type MapLocation struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Address         string  `json:"address"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	Status          string  `json:"status"`
	Utilization     float64 `json:"utilization"`
	VolumeOccupied  float64 `json:"volumeOccupied"`
	VolumeAvailable float64 `json:"volumeAvailable"`
	TotalCapacity   float64 `json:"totalCapacity"`
	AlertCount      int     `json:"alertCount"`
	CriticalAlerts  int     `json:"criticalAlerts"`
}

type LocationDetails struct {
	Inventory         models.Inventory           `json:"inventory"`
	Location          *models.Location           `json:"location"`
	Alerts            []models.RealTimeAlert     `json:"alerts"`
	RecentRelocations []models.RelocationMessage `json:"recentRelocations"`
	Utilization       float64                    `json:"utilization"`
}

// Utilization is the occupied share of total capacity as a percentage.
func Utilization(inv models.Inventory) float64 {
	total := inv.VolumeOccupied + inv.VolumeAvailable
	if total == 0 {
		return 0
	}
	return inv.VolumeOccupied / total * 100
}

// MapLocations lists every inventory that has a location, with alert counts.
func (s *service) MapLocations(ctx context.Context) ([]MapLocation, error) {
	inventories, err := s.store.Inventories.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventories")
	}
	locations, err := s.store.Locations.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	alerts, err := s.store.Alerts.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list alerts")
	}

	byID := make(map[int64]models.Location, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}
	type counts struct{ all, critical int }
	alertCounts := map[int64]counts{}
	for _, alert := range alerts {
		c := alertCounts[alert.InventoryID]
		c.all++
		if alert.Severity == criticalSeverity {
			c.critical++
		}
		alertCounts[alert.InventoryID] = c
	}

	out := make([]MapLocation, 0, len(inventories))
	for _, inv := range inventories {
		loc, ok := byID[inv.LocationID]
		if !ok {
			continue
		}
		c := alertCounts[inv.ID]
		out = append(out, MapLocation{
			ID:              inv.ID,
			Name:            inv.Name,
			Latitude:        loc.Latitude,
			Longitude:       loc.Longitude,
			Address:         loc.Address,
			City:            loc.City,
			State:           loc.State,
			Status:          string(inv.Status),
			Utilization:     Utilization(inv),
			VolumeOccupied:  inv.VolumeOccupied,
			VolumeAvailable: inv.VolumeAvailable,
			TotalCapacity:   inv.VolumeOccupied + inv.VolumeAvailable,
			AlertCount:      c.all,
			CriticalAlerts:  c.critical,
		})
	}
	return out, nil
}

// MapLocationDetails returns one inventory with its location, latest alerts
// and latest relocations touching it.
func (s *service) MapLocationDetails(ctx context.Context, inventoryID int64) (*LocationDetails, error) {
	inv, err := s.store.Inventories.GetByID(ctx, inventoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	if inv == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("inventory %d not found", inventoryID))
	}

	loc, err := s.store.Locations.GetByID(ctx, inv.LocationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	alerts, err := s.store.Alerts.FindBy(ctx, "inventory_id", inventoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory alerts")
	}
	relocations, err := s.store.Relocations.Find(ctx, repo.Query{
		Conditions: []repo.Condition{{
			Expr: "from_inventory_id = ? OR to_inventory_id = ?",
			Args: []any{inventoryID, inventoryID},
		}},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory relocations")
	}

	return &LocationDetails{
		Inventory:         *inv,
		Location:          loc,
		Alerts:            lastN(alerts, detailAlertLimit),
		RecentRelocations: lastN(relocations, detailRelocationLimit),
		Utilization:       Utilization(*inv),
	}, nil
}
