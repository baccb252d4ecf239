package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
)

// OverviewRow is one (inventory, contained item) pair. Item side fields are
// nil when the inventory holds nothing; Location is nil only if the location
// row is missing.
type OverviewRow struct {
	Inventory     models.Inventory      `json:"inventory"`
	InventoryItem *models.InventoryItem `json:"inventory_items"`
	Item          *models.Item          `json:"items"`
	Location      *models.Location      `json:"location"`
}

const overviewSQL = `
SELECT
	inv.id AS inv_id, inv.location AS inv_location, inv.volume_occupied AS inv_volume_occupied,
	inv.volume_available AS inv_volume_available, inv.volume_reserved AS inv_volume_reserved,
	inv.name AS inv_name, inv.description AS inv_description, inv.threshold AS inv_threshold,
	inv.location_id AS inv_location_id, inv.status AS inv_status,
	inv.created_at AS inv_created_at, inv.updated_at AS inv_updated_at,
	ii.inventory_id AS ii_inventory_id, ii.item_id AS ii_item_id, ii.quantity AS ii_quantity,
	ii.created_at AS ii_created_at, ii.updated_at AS ii_updated_at,
	it.item_id AS it_item_id, it.name AS it_name, it.description AS it_description,
	it.price AS it_price, it.weight AS it_weight, it.dimensions AS it_dimensions,
	it.created_at AS it_created_at, it.updated_at AS it_updated_at,
	loc.id AS loc_id, loc.latitude AS loc_latitude, loc.longitude AS loc_longitude,
	loc.address AS loc_address, loc.city AS loc_city, loc.state AS loc_state,
	loc.country AS loc_country, loc.zip_code AS loc_zip_code,
	loc.created_at AS loc_created_at, loc.updated_at AS loc_updated_at
FROM inventory inv
LEFT JOIN inventory_items ii ON ii.inventory_id = inv.id
LEFT JOIN items it ON it.item_id = ii.item_id
LEFT JOIN location loc ON loc.id = inv.location_id
WHERE inv.id = ?
ORDER BY it.name ASC`

type overviewScan struct {
	InvID              int64                 `gorm:"column:inv_id"`
	InvLocation        string                `gorm:"column:inv_location"`
	InvVolumeOccupied  float64               `gorm:"column:inv_volume_occupied"`
	InvVolumeAvailable float64               `gorm:"column:inv_volume_available"`
	InvVolumeReserved  float64               `gorm:"column:inv_volume_reserved"`
	InvName            string                `gorm:"column:inv_name"`
	InvDescription     string                `gorm:"column:inv_description"`
	InvThreshold       int                   `gorm:"column:inv_threshold"`
	InvLocationID      int64                 `gorm:"column:inv_location_id"`
	InvStatus          enums.InventoryStatus `gorm:"column:inv_status"`
	InvCreatedAt       time.Time             `gorm:"column:inv_created_at"`
	InvUpdatedAt       time.Time             `gorm:"column:inv_updated_at"`

	IIInventoryID sql.NullInt64 `gorm:"column:ii_inventory_id"`
	IIItemID      sql.NullInt64 `gorm:"column:ii_item_id"`
	IIQuantity    sql.NullInt64 `gorm:"column:ii_quantity"`
	IICreatedAt   sql.NullTime  `gorm:"column:ii_created_at"`
	IIUpdatedAt   sql.NullTime  `gorm:"column:ii_updated_at"`

	ItItemID      sql.NullInt64   `gorm:"column:it_item_id"`
	ItName        sql.NullString  `gorm:"column:it_name"`
	ItDescription sql.NullString  `gorm:"column:it_description"`
	ItPrice       sql.NullFloat64 `gorm:"column:it_price"`
	ItWeight      sql.NullFloat64 `gorm:"column:it_weight"`
	ItDimensions  sql.NullString  `gorm:"column:it_dimensions"`
	ItCreatedAt   sql.NullTime    `gorm:"column:it_created_at"`
	ItUpdatedAt   sql.NullTime    `gorm:"column:it_updated_at"`

	LocID        sql.NullInt64   `gorm:"column:loc_id"`
	LocLatitude  sql.NullFloat64 `gorm:"column:loc_latitude"`
	LocLongitude sql.NullFloat64 `gorm:"column:loc_longitude"`
	LocAddress   sql.NullString  `gorm:"column:loc_address"`
	LocCity      sql.NullString  `gorm:"column:loc_city"`
	LocState     sql.NullString  `gorm:"column:loc_state"`
	LocCountry   sql.NullString  `gorm:"column:loc_country"`
	LocZipCode   sql.NullString  `gorm:"column:loc_zip_code"`
	LocCreatedAt sql.NullTime    `gorm:"column:loc_created_at"`
	LocUpdatedAt sql.NullTime    `gorm:"column:loc_updated_at"`
}

// InventoryOverview joins one inventory with its items and location, one row
// per contained item ordered by item name. An unknown id yields no rows.
func (s *Store) InventoryOverview(ctx context.Context, inventoryID int64) ([]OverviewRow, error) {
	var scanned []overviewScan
	if err := s.DB(ctx).Raw(overviewSQL, inventoryID).Scan(&scanned).Error; err != nil {
		return nil, err
	}

	out := make([]OverviewRow, 0, len(scanned))
	for _, r := range scanned {
		row := OverviewRow{
			Inventory: models.Inventory{
				ID:              r.InvID,
				Location:        r.InvLocation,
				VolumeOccupied:  r.InvVolumeOccupied,
				VolumeAvailable: r.InvVolumeAvailable,
				VolumeReserved:  r.InvVolumeReserved,
				Name:            r.InvName,
				Description:     r.InvDescription,
				Threshold:       r.InvThreshold,
				LocationID:      r.InvLocationID,
				Status:          r.InvStatus,
				CreatedAt:       r.InvCreatedAt,
				UpdatedAt:       r.InvUpdatedAt,
			},
		}
		if r.IIInventoryID.Valid {
			row.InventoryItem = &models.InventoryItem{
				InventoryID: r.IIInventoryID.Int64,
				ItemID:      r.IIItemID.Int64,
				Quantity:    int(r.IIQuantity.Int64),
				CreatedAt:   r.IICreatedAt.Time,
				UpdatedAt:   r.IIUpdatedAt.Time,
			}
		}
		if r.ItItemID.Valid {
			row.Item = &models.Item{
				ItemID:      r.ItItemID.Int64,
				Name:        r.ItName.String,
				Description: r.ItDescription.String,
				Price:       r.ItPrice.Float64,
				Weight:      r.ItWeight.Float64,
				Dimensions:  r.ItDimensions.String,
				CreatedAt:   r.ItCreatedAt.Time,
				UpdatedAt:   r.ItUpdatedAt.Time,
			}
		}
		if r.LocID.Valid {
			row.Location = &models.Location{
				ID:        r.LocID.Int64,
				Latitude:  r.LocLatitude.Float64,
				Longitude: r.LocLongitude.Float64,
				Address:   r.LocAddress.String,
				City:      r.LocCity.String,
				State:     r.LocState.String,
				Country:   r.LocCountry.String,
				ZipCode:   r.LocZipCode.String,
				CreatedAt: r.LocCreatedAt.Time,
				UpdatedAt: r.LocUpdatedAt.Time,
			}
		}
		out = append(out, row)
	}
	return out, nil
}
