package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Varun984/Sparkathon-by-Walmart/api/responses"
	"github.com/Varun984/Sparkathon-by-Walmart/api/validators"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
)

type inventoryItemQuantityBody struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// InventoryDetails is the capacity view of a single inventory.
type InventoryDetails struct {
	VolumeOccupied float64                `json:"volume_occupied"`
	VolumeReserved float64                `json:"volume_reserved"`
	Threshold      int                    `json:"threshold"`
	TotalCapacity  float64                `json:"total_capacity"`
	Alerts         []models.RealTimeAlert `json:"alerts"`
}

// InventoryAddItem stores an item in the inventory named by the path,
// overriding any inventoryId in the body.
func InventoryAddItem(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventoryID, err := validators.ParsePathID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithInventoryID(r.Context(), inventoryID)
		body, err := validators.ReadJSONObject(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		payload, err := withInventoryID(body, inventoryID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteResult(ctx, logg, w, http.StatusCreated, g.InventoryItems.Create(ctx, payload))
	}
}

func InventoryUpdateItemQuantity(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, inventoryID, itemID, ok := inventoryItemKey(w, r, logg)
		if !ok {
			return
		}
		var body inventoryItemQuantityBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeFound(ctx, logg, w, g.InventoryItems.UpdateQuantity(ctx, inventoryID, itemID, *body.Quantity), "inventory item")
	}
}

func InventoryRemoveItem(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, inventoryID, itemID, ok := inventoryItemKey(w, r, logg)
		if !ok {
			return
		}
		writeFound(ctx, logg, w, g.InventoryItems.RemoveItem(ctx, inventoryID, itemID), "inventory item")
	}
}

// InventoryDetailsHandler reports capacity figures and alerts for one inventory.
func InventoryDetailsHandler(g *gateway.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventoryID, err := validators.ParsePathID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithInventoryID(r.Context(), inventoryID)

		res := g.Inventory.GetByID(ctx, inventoryID)
		if !res.Success {
			responses.WriteError(ctx, logg, w, res.Err())
			return
		}
		found, _ := res.Data.([]models.Inventory)
		if len(found) == 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found"))
			return
		}
		inv := found[0]

		alerts := g.Alerts.GetByInventoryID(ctx, inventoryID)
		if !alerts.Success {
			responses.WriteError(ctx, logg, w, alerts.Err())
			return
		}
		list, _ := alerts.Data.([]models.RealTimeAlert)
		if list == nil {
			list = []models.RealTimeAlert{}
		}

		responses.WriteSuccess(w, InventoryDetails{
			VolumeOccupied: inv.VolumeOccupied,
			VolumeReserved: inv.VolumeReserved,
			Threshold:      inv.Threshold,
			TotalCapacity:  inv.VolumeOccupied + inv.VolumeReserved + inv.VolumeAvailable,
			Alerts:         list,
		})
	}
}

// inventoryItemKey reads the (inventory, item) pair from the path and
// returns a request context tagged with both.
func inventoryItemKey(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (context.Context, int64, int64, bool) {
	inventoryID, err := validators.ParsePathID(r, "inventoryId")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, 0, 0, false
	}
	itemID, err := validators.ParsePathID(r, "itemId")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, 0, 0, false
	}
	ctx := logg.WithItemID(logg.WithInventoryID(r.Context(), inventoryID), itemID)
	return ctx, inventoryID, itemID, true
}

func withInventoryID(object json.RawMessage, inventoryID int64) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(object, &fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body must be a JSON object")
	}
	fields["inventoryId"] = json.RawMessage(strconv.FormatInt(inventoryID, 10))
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode inventory item")
	}
	return payload, nil
}
