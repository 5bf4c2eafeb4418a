package rebalance

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/username/finsight/backend/src/models"
)

// Trade deltas inside the dead band are left alone; they cost more in
// friction than they recover in tracking error.
const deadBandPct = 0.5

const (
	turnoverLimitMax   = 10.0
	defaultTurnoverPct = 1.0
	dustThreshold      = 1.0
)

// InvalidRequestError reports a rebalance request that cannot be priced.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid rebalance request: " + e.Reason
}

// Options tune a rebalance proposal. The zero value means sells allowed,
// default turnover budget, goals considered.
type Options struct {
	CashOnly         bool
	TurnoverLimitPct float64
	ConsiderGoals    bool
}

// Propose builds a constrained trade plan that moves the portfolio toward
// its target mix. With goals present and considered, the target blends
// per-goal plans before the liquidity floor; the turnover budget caps
// sells, and cash-only mode drops sells entirely and funds all buys from
// contributions.
func Propose(plan *models.AllocationPlan, holdings []models.Holding, goals []models.Goal, constraints models.Constraints, opts Options, now time.Time) (*models.RebalanceProposal, error) {
	if plan == nil || len(plan.Buckets) == 0 {
		return nil, &InvalidRequestError{Reason: "missing or empty plan"}
	}
	if now.IsZero() {
		now = time.Now()
	}

	turnoverLimit := clampFloat(opts.TurnoverLimitPct, 0, turnoverLimitMax)
	if turnoverLimit == 0 {
		turnoverLimit = defaultTurnoverPct
	}

	efMonths := clampInt(constraints.EFMonths, 0, 24)
	liqAmt := math.Max(0, constraints.LiquidityAmount)

	var blended map[models.AssetClass]int
	if opts.ConsiderGoals && len(goals) > 0 {
		var err error
		blended, err = BlendGoalTargets(goals, plan.RiskLevel, constraints, now)
		if err != nil {
			return nil, err
		}
	}

	byClass, total := classValues(holdings)
	classes := make(map[models.AssetClass]bool)
	for _, b := range plan.Buckets {
		classes[b.Class] = true
	}
	for c := range byClass {
		classes[c] = true
	}

	currentPct := make(map[models.AssetClass]float64, len(classes))
	targetPct := make(map[models.AssetClass]int, len(classes))
	for class := range classes {
		cur := 0.0
		if total > 0 {
			cur = byClass[class] / total * 100
		}
		currentPct[class] = round2(cur)
		target := plan.BucketPct(class)
		if blended != nil {
			if t, ok := blended[class]; ok {
				target = t
			}
		}
		targetPct[class] = target
	}

	// The plan's own targets get the liquidity floor too, not just the
	// goal-blended mix.
	for class, pct := range ApplyLiquidFloor(targetPct, efMonths, liqAmt) {
		targetPct[class] = pct
	}

	var sells, buys []models.Trade
	for class, cur := range currentPct {
		target := float64(targetPct[class])
		delta := target - cur
		if math.Abs(delta) < deadBandPct {
			continue
		}
		trade := models.Trade{
			Class:     class,
			Amount:    round2(total * math.Abs(delta) / 100),
			ActualPct: cur,
			TargetPct: target,
			Reason:    "to target",
		}
		if delta > 0 {
			trade.Action = "Increase"
			buys = append(buys, trade)
		} else {
			trade.Action = "Reduce"
			sells = append(sells, trade)
		}
	}
	sortTrades(sells)
	sortTrades(buys)

	// Sells are bounded by the turnover budget; largest dislocations first.
	var filteredSells []models.Trade
	if !opts.CashOnly {
		sellBudget := turnoverLimit / 100 * total
		for _, t := range sells {
			if sellBudget <= 0 {
				break
			}
			take := math.Min(t.Amount, sellBudget)
			if take >= dustThreshold {
				t.Amount = round2(take)
				filteredSells = append(filteredSells, t)
				sellBudget -= take
			}
		}
	}

	// Buys spend sale proceeds, or fresh contributions in cash-only mode.
	sellsSum := 0.0
	for _, t := range filteredSells {
		sellsSum += t.Amount
	}
	buyBudget := sellsSum
	if opts.CashOnly {
		buyBudget = 0
		for _, t := range buys {
			buyBudget += t.Amount
		}
	}
	var filteredBuys []models.Trade
	for _, t := range buys {
		if buyBudget <= 0 {
			break
		}
		take := math.Min(t.Amount, buyBudget)
		if take >= dustThreshold {
			t.Amount = round2(take)
			filteredBuys = append(filteredBuys, t)
			buyBudget -= take
		}
	}

	trades := append(filteredSells, filteredBuys...)
	tradedSum := 0.0
	for _, t := range trades {
		tradedSum += t.Amount
	}
	turnoverPct := 0.0
	if total > 0 {
		turnoverPct = round2(tradedSum / total * 100)
	}

	afterMix := make(map[models.AssetClass]float64, len(currentPct))
	for class, cur := range currentPct {
		afterMix[class] = math.Round(cur)
		if _, ok := targetPct[class]; ok {
			afterMix[class] = float64(targetPct[class])
		}
	}

	goalsCount := 0
	if opts.ConsiderGoals {
		goalsCount = len(goals)
	}

	return &models.RebalanceProposal{
		Mode:          "to-target",
		Trades:        trades,
		BeforeMix:     currentPct,
		AfterMix:      afterMix,
		TurnoverPct:   turnoverPct,
		Rationale:     proposalRationale(opts, turnoverLimit, efMonths, liqAmt, constraints.LiquidityMonths, goalsCount),
		GoalsCount:    goalsCount,
		BlendedTarget: blended,
	}, nil
}

func proposalRationale(opts Options, turnoverLimit float64, efMonths int, liqAmt float64, liqMonths, goalsCount int) string {
	var b strings.Builder
	b.WriteString("We realign to targets")
	if opts.ConsiderGoals && goalsCount > 0 {
		b.WriteString(" blended from your goals")
	}
	if opts.CashOnly {
		b.WriteString(" using contributions only")
	}
	fmt.Fprintf(&b, ", keeping turnover under %.0f%%", turnoverLimit)
	if efMonths > 0 || liqAmt > 0 {
		b.WriteString(" while respecting ")
		if efMonths > 0 {
			fmt.Fprintf(&b, "%d months EF", efMonths)
		}
		if efMonths > 0 && liqAmt > 0 {
			b.WriteString(" and ")
		}
		if liqAmt > 0 {
			fmt.Fprintf(&b, "%.0f over %d months", liqAmt, liqMonths)
		}
	}
	if goalsCount > 0 {
		fmt.Fprintf(&b, " and considering %d goal(s)", goalsCount)
	}
	b.WriteString(".")
	return b.String()
}

func sortTrades(trades []models.Trade) {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].Amount != trades[j].Amount {
			return trades[i].Amount > trades[j].Amount
		}
		return string(trades[i].Class) < string(trades[j].Class)
	})
}

func clampFloat(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
