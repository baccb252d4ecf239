package loadbalancer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/repo"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/store"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/metrics"
)

const (
	HighPriority    = "high"
	BreachAlertType = "threshold_breach"
	breachSeverity  = "high"
)

// Service finds inventories above their alert threshold and recommends
// where their excess load should go.
type Service interface {
	// Plan evaluates one inventory without writing anything.
	Plan(ctx context.Context, inventoryID int64) (*Plan, error)
	// Rebalance plans and records a pending high priority relocation plus a
	// breach alert. A pending relocation already raised for the inventory is
	// returned instead of a new one.
	Rebalance(ctx context.Context, inventoryID int64) (*Plan, error)
	// Scan rebalances every inventory currently in breach.
	Scan(ctx context.Context) (*ScanReport, error)
}

type Params struct {
	Store   *store.Store
	Logger  *logger.Logger
	Metrics *metrics.LoadBalancerMetrics
}

// Candidate is one possible destination for the excess load.
type Candidate struct {
	InventoryID    int64           `json:"inventoryId"`
	Name           string          `json:"name"`
	DistanceKm     decimal.Decimal `json:"distanceKm"`
	CurrentDemand  int             `json:"currentDemand"`
	ForecastDemand int             `json:"forecastDemand"`
	VolumeFree     float64         `json:"volumeFree"`
	Capacity       int             `json:"capacity"`
	Score          decimal.Decimal `json:"score"`

	score float64
}

// Plan is the load balancer's verdict for one source inventory.
type Plan struct {
	SourceInventoryID int64       `json:"sourceInventoryId"`
	CurrentLoad       float64     `json:"currentLoad"`
	Threshold         float64     `json:"threshold"`
	ThresholdExceeded bool        `json:"thresholdExceeded"`
	ExcessLoad        float64     `json:"excessLoad"`
	Candidates        []Candidate `json:"candidates"`
	Placed            bool        `json:"placed"`
	TargetInventoryID int64       `json:"targetInventoryId,omitempty"`
	ItemID            int64       `json:"itemId,omitempty"`
	Quantity          int         `json:"quantity"`
	RemainingExcess   float64     `json:"remainingExcess"`
	Recommendation    string      `json:"recommendation"`

	Relocation     *models.RelocationMessage `json:"relocation,omitempty"`
	AlreadyPending bool                      `json:"alreadyPending,omitempty"`
	Alert          *models.RealTimeAlert     `json:"alert,omitempty"`
}

// ScanReport summarises one pass over every inventory.
type ScanReport struct {
	Scanned     int                        `json:"scanned"`
	Breached    []int64                    `json:"breached"`
	Unplaced    []int64                    `json:"unplaced"`
	Relocations []models.RelocationMessage `json:"relocations"`
}

type service struct {
	store   *store.Store
	logg    *logger.Logger
	metrics *metrics.LoadBalancerMetrics
}

func NewService(params Params) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "load balancer store required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "load balancer logger required")
	}
	return &service{
		store:   params.Store,
		logg:    params.Logger.Child(map[string]any{"component": "loadbalancer"}),
		metrics: params.Metrics,
	}, nil
}

func (s *service) Plan(ctx context.Context, inventoryID int64) (*Plan, error) {
	plan, err := s.plan(ctx, s.store, inventoryID)
	if err != nil {
		return nil, db.Classify(err, "plan relocation")
	}
	return plan, nil
}

func (s *service) Rebalance(ctx context.Context, inventoryID int64) (*Plan, error) {
	ctx = s.logg.WithInventoryID(ctx, inventoryID)

	var plan *Plan
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		plan, err = s.plan(ctx, tx, inventoryID)
		if err != nil || !plan.ThresholdExceeded {
			return err
		}
		if err := recordAlert(ctx, tx, plan); err != nil {
			return err
		}
		if !plan.Placed {
			return nil
		}
		return recordRelocation(ctx, tx, plan)
	})
	if err != nil {
		return nil, db.Classify(err, "rebalance inventory")
	}

	if !plan.ThresholdExceeded {
		return plan, nil
	}
	s.metrics.IncBreach()
	switch {
	case !plan.Placed:
		s.metrics.IncUnplaced()
		s.logg.Warn(s.logg.WithField(ctx, "excess_load", plan.ExcessLoad), "loadbalancer.unplaced")
	case !plan.AlreadyPending:
		s.metrics.ObserveRelocation(plan.Quantity)
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"to_inventory_id": plan.TargetInventoryID,
			"item_id":         plan.ItemID,
			"quantity":        plan.Quantity,
			"relocation_id":   plan.Relocation.RelocationMessageID,
		}), "loadbalancer.relocation_recommended")
	}
	return plan, nil
}

func (s *service) Scan(ctx context.Context) (*ScanReport, error) {
	inventories, err := s.store.Inventories.GetAll(ctx)
	if err != nil {
		return nil, db.Classify(err, "list inventories")
	}

	report := &ScanReport{
		Scanned:     len(inventories),
		Breached:    []int64{},
		Unplaced:    []int64{},
		Relocations: []models.RelocationMessage{},
	}
	var errs error
	for _, inv := range inventories {
		if !ThresholdExceeded(inv) {
			continue
		}
		report.Breached = append(report.Breached, inv.ID)
		plan, err := s.Rebalance(ctx, inv.ID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("inventory %d: %w", inv.ID, err))
			continue
		}
		switch {
		case !plan.Placed:
			report.Unplaced = append(report.Unplaced, inv.ID)
		case plan.Relocation != nil && !plan.AlreadyPending:
			report.Relocations = append(report.Relocations, *plan.Relocation)
		}
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"scanned":     report.Scanned,
		"breached":    len(report.Breached),
		"unplaced":    len(report.Unplaced),
		"relocations": len(report.Relocations),
	}), "loadbalancer.scan_completed")
	return report, errs
}

func (s *service) plan(ctx context.Context, st *store.Store, inventoryID int64) (*Plan, error) {
	inventories, err := st.Inventories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var source *models.Inventory
	for i := range inventories {
		if inventories[i].ID == inventoryID {
			source = &inventories[i]
			break
		}
	}
	if source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("inventory %d not found", inventoryID))
	}

	plan := &Plan{
		SourceInventoryID: source.ID,
		CurrentLoad:       source.VolumeOccupied,
		Threshold:         AlertThreshold(*source),
		ThresholdExceeded: ThresholdExceeded(*source),
		ExcessLoad:        Excess(*source),
		Candidates:        []Candidate{},
	}
	if !plan.ThresholdExceeded {
		plan.Recommendation = fmt.Sprintf("inventory %d is within its threshold; no relocation needed", source.ID)
		return plan, nil
	}

	candidates, err := rankCandidates(ctx, st, *source, inventories, plan.ExcessLoad)
	if err != nil {
		return nil, err
	}
	plan.Candidates = candidates
	plan.RemainingExcess = plan.ExcessLoad

	var target *Candidate
	for i := range candidates {
		if candidates[i].Capacity > 0 {
			target = &candidates[i]
			break
		}
	}
	if target == nil {
		plan.Recommendation = fmt.Sprintf("no inventory has room for the excess load of inventory %d", source.ID)
		return plan, nil
	}

	holding, err := largestHolding(ctx, st, source.ID)
	if err != nil {
		return nil, err
	}
	if holding == nil {
		plan.Recommendation = fmt.Sprintf("inventory %d holds no stock to relocate", source.ID)
		return plan, nil
	}

	plan.Placed = true
	plan.TargetInventoryID = target.InventoryID
	plan.ItemID = holding.ItemID
	plan.Quantity = min(target.Capacity, holding.Quantity)
	plan.RemainingExcess = math.Max(plan.ExcessLoad-float64(plan.Quantity), 0)
	plan.Recommendation = fmt.Sprintf("move %d units of item %d from inventory %d to inventory %d",
		plan.Quantity, plan.ItemID, source.ID, target.InventoryID)
	return plan, nil
}

// rankCandidates scores every other inventory, best first. Ties keep id order.
func rankCandidates(ctx context.Context, st *store.Store, source models.Inventory, inventories []models.Inventory, excess float64) ([]Candidate, error) {
	locations, err := st.Locations.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Location, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}
	origin, hasOrigin := byID[source.LocationID]

	out := make([]Candidate, 0, len(inventories))
	for _, inv := range inventories {
		if inv.ID == source.ID {
			continue
		}
		demand, err := currentDemand(ctx, st, inv.ID)
		if err != nil {
			return nil, err
		}
		var distance float64
		if loc, ok := byID[inv.LocationID]; ok && hasOrigin {
			distance = DistanceKm(origin, loc)
		}
		forecast := ForecastDemand(demand)
		score := Score(distance, demand, forecast, inv.VolumeAvailable)
		out = append(out, Candidate{
			InventoryID:    inv.ID,
			Name:           inv.Name,
			DistanceKm:     decimal.NewFromFloat(distance).Round(1),
			CurrentDemand:  demand,
			ForecastDemand: forecast,
			VolumeFree:     inv.VolumeAvailable,
			Capacity:       RelocatableAmount(excess, inv),
			Score:          decimal.NewFromFloat(score).Round(3),
			score:          score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out, nil
}

// currentDemand sums the most recent demand samples of an inventory.
func currentDemand(ctx context.Context, st *store.Store, inventoryID int64) (int, error) {
	rows, err := st.DemandHistory.Find(ctx, repo.Query{
		Where: map[string]any{"inventory_id": inventoryID},
		Order: `"timestamp" DESC, id DESC`,
		Limit: demandWindow,
	})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, row := range rows {
		total += row.DemandQuantity
	}
	return total, nil
}

// largestHolding returns the item the inventory holds most of, or nil.
func largestHolding(ctx context.Context, st *store.Store, inventoryID int64) (*models.InventoryItem, error) {
	rows, err := st.InventoryItems.Find(ctx, repo.Query{
		Where:      map[string]any{"inventory_id": inventoryID},
		Conditions: []repo.Condition{{Expr: "quantity > ?", Args: []any{0}}},
		Order:      "quantity DESC, item_id ASC",
		Limit:      1,
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func recordAlert(ctx context.Context, tx *store.Store, plan *Plan) error {
	open, err := tx.Alerts.Count(ctx, map[string]any{
		"inventory_id": plan.SourceInventoryID,
		"alert_type":   BreachAlertType,
		"is_resolved":  false,
	})
	if err != nil || open > 0 {
		return err
	}
	alert := models.RealTimeAlert{
		InventoryID: plan.SourceInventoryID,
		AlertType:   BreachAlertType,
		Severity:    breachSeverity,
		Message: fmt.Sprintf("inventory %d load %s exceeds threshold %s",
			plan.SourceInventoryID,
			decimal.NewFromFloat(plan.CurrentLoad).StringFixed(2),
			decimal.NewFromFloat(plan.Threshold).StringFixed(2)),
	}
	if err := tx.Alerts.Create(ctx, &alert); err != nil {
		return err
	}
	plan.Alert = &alert
	return nil
}

func recordRelocation(ctx context.Context, tx *store.Store, plan *Plan) error {
	pending, err := tx.Relocations.Find(ctx, repo.Query{
		Where: map[string]any{
			"from_inventory_id": plan.SourceInventoryID,
			"status":            enums.RelocationStatusPending,
			"priority":          HighPriority,
		},
		Order: "relocation_message_id DESC",
		Limit: 1,
	})
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		plan.Relocation = &pending[0]
		plan.AlreadyPending = true
		return nil
	}

	priority := HighPriority
	rel := models.RelocationMessage{
		ItemID:          plan.ItemID,
		FromInventoryID: plan.SourceInventoryID,
		ToInventoryID:   plan.TargetInventoryID,
		Quantity:        plan.Quantity,
		Priority:        &priority,
		Status:          enums.RelocationStatusPending,
	}
	if err := tx.Relocations.Create(ctx, &rel); err != nil {
		return err
	}
	plan.Relocation = &rel
	return nil
}
