package dashboard

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/enums"
	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
)

// Stat is a formatted figure with its change against the previous sample.
type Stat struct {
	Value  string `json:"value"`
	Change string `json:"change"`
}

type Stats struct {
	Migrated       Stat `json:"migrated"`
	Reallocated    Stat `json:"reallocated"`
	Saved          Stat `json:"saved"`
	CriticalAlerts Stat `json:"critical_alerts"`
}

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// Stats compares each live figure with the latest stored sample of the same
// metric inside the configured window. A missing sample counts as no change.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	overview, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}

	change := func(metricType enums.DashboardMetricType, current int64) (string, error) {
		previous, ok, err := s.previousValue(ctx, metricType)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load previous dashboard metric")
		}
		if !ok {
			previous = current
		}
		return FormatChange(PercentChange(current, previous)), nil
	}

	var out Stats
	if out.Migrated.Change, err = change(enums.DashboardMetricMigrated, overview.ItemsMigrated); err != nil {
		return nil, err
	}
	if out.Reallocated.Change, err = change(enums.DashboardMetricReallocated, overview.ReallocatedItems); err != nil {
		return nil, err
	}
	if out.Saved.Change, err = change(enums.DashboardMetricCostSavings, overview.CostSavings); err != nil {
		return nil, err
	}
	if out.CriticalAlerts.Change, err = change(enums.DashboardMetricCriticalAlerts, overview.CriticalAlerts); err != nil {
		return nil, err
	}

	out.Migrated.Value = humanize.Comma(overview.ItemsMigrated)
	out.Reallocated.Value = humanize.Comma(overview.ReallocatedItems)
	out.Saved.Value = FormatSavings(overview.CostSavings)
	out.CriticalAlerts.Value = decimal.NewFromInt(overview.CriticalAlerts).String()
	return &out, nil
}

// PercentChange returns (current - previous) / previous * 100, or zero when
// there is no previous value.
func PercentChange(current, previous int64) decimal.Decimal {
	if previous == 0 {
		return decimal.Zero
	}
	prev := decimal.NewFromInt(previous)
	return decimal.NewFromInt(current).Sub(prev).Div(prev).Mul(hundred)
}

// FormatChange renders a percentage as "+N%" or "-N%", rounded half to even.
func FormatChange(change decimal.Decimal) string {
	rounded := change.RoundBank(0)
	if rounded.Sign() >= 0 {
		return "+" + rounded.StringFixed(0) + "%"
	}
	return rounded.StringFixed(0) + "%"
}

// FormatSavings renders dollars in thousands with one decimal, e.g. "$4.3K".
func FormatSavings(dollars int64) string {
	return "$" + decimal.NewFromInt(dollars).Div(thousand).StringFixedBank(1) + "K"
}
