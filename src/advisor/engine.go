package advisor

import (
	"math"

	"github.com/username/finsight/backend/src/models"
)

var bucketNotes = map[models.AssetClass]struct {
	Category string
	Notes    string
}{
	models.AssetStocks:     {"Equity", "Direct stock investments for growth"},
	models.AssetEquityMF:   {"Equity", "Diversified equity exposure through funds"},
	models.AssetDebt:       {"Defensive", "Fixed income for stability"},
	models.AssetLiquid:     {"Defensive", "Cash and liquid assets for emergencies"},
	models.AssetGold:       {"Satellite", "Hedge against inflation and market volatility"},
	models.AssetRealEstate: {"Satellite", "Long-term real asset investment"},
}

// BuildPlan runs the full advisory pipeline: validate the answers, derive
// weighted signals, position the equity base, split both sleeves, apply
// goal and insurance adjustments, then round into a 100-point allocation
// that respects the risk tier's per-asset bounds. The same answers always
// produce the same plan.
func BuildPlan(a models.QuestionnaireAnswers) (*models.AllocationPlan, error) {
	if err := validateAnswers(a); err != nil {
		return nil, err
	}

	ctx := inferContext(a)
	signals := calculateSignals(a)

	equityBase, safetyBase, riskScore := dynamicBase(signals)
	level := riskLevelForScore(riskScore)
	equityBase, safetyBase = clampEquityToTier(equityBase, level)

	alloc := make(map[models.AssetClass]float64, len(models.AssetClasses))
	splitEquity(alloc, equityBase, a.InvestmentKnowledge)
	splitSafety(alloc, safetyBase, a, ctx)

	applyGoalAdjustments(alloc, a)
	avoided := applyAvoidedAssets(alloc, a.AvoidAssets)
	applyInsuranceAdjustment(alloc, a.HasInsurance)

	rounded := NormalizeTo100(alloc)
	rounded = enforceBounds(rounded, level.Level, avoided)

	warnings := behavioralWarnings(a, ctx)

	buckets := make([]models.Bucket, 0, len(models.AssetClasses))
	for _, c := range models.AssetClasses {
		pct := rounded[c]
		meta := bucketNotes[c]
		buckets = append(buckets, models.Bucket{
			Class:        c,
			Pct:          pct,
			Range:        dynamicRange(c, pct, level.Level, a, ctx, avoided[c]),
			RiskCategory: meta.Category,
			Notes:        meta.Notes,
		})
	}

	plan := &models.AllocationPlan{
		Buckets: buckets,
		RiskProfile: models.RiskProfile{
			Level:       level.Level,
			Score:       riskScore,
			Min:         level.Min,
			Max:         level.Max,
			Description: level.Description,
		},
		RiskLevel:        level.Level,
		RiskScore:        riskScore,
		Signals:          signals,
		Warnings:         warnings,
		ConsistencyScore: consistencyScore(warnings),
		StressTest:       runStressTests(rounded, a),
	}
	plan.Rationale = generateRationale(rounded, signals, a, ctx, level.Level, warnings)
	return plan, nil
}

func consistencyScore(warnings []models.Warning) int {
	score := 100 - len(warnings)*consistencyPenaltyPerWarning
	if score < 0 {
		return 0
	}
	return score
}

// dynamicBase aggregates the weighted signals into the equity/safety split
// and the risk score. Signals are averaged over their total weight, so
// partial weight budgets do not skew the baseline.
func dynamicBase(signals []models.Signal) (equityBase, safetyBase, riskScore float64) {
	var totalEquity, totalSafety, totalWeight float64
	for _, s := range signals {
		totalEquity += s.Equity * s.Weight
		totalSafety += s.Safety * s.Weight
		totalWeight += s.Weight
	}
	avgEquity := totalEquity / totalWeight
	avgSafety := totalSafety / totalWeight

	equityBase = clamp(50+avgEquity-avgSafety*0.5, 10, 85)
	safetyBase = 100 - equityBase

	raw := scoreBase + avgEquity - avgSafety*scoreSafetyCoef
	riskScore = clamp(raw+scoreOffset, scoreMin, scoreMax)
	return equityBase, safetyBase, riskScore
}

// clampEquityToTier keeps the equity sleeve inside the resolved tier's
// envelope so the stated risk level and the equity share cannot disagree.
func clampEquityToTier(equityBase float64, level riskLevelDef) (float64, float64) {
	eb := clamp(equityBase, level.EquityMin, level.EquityMax)
	return eb, 100 - eb
}

// splitEquity divides the equity sleeve between direct stocks and funds
// according to investment knowledge.
func splitEquity(alloc map[models.AssetClass]float64, equityBase float64, knowledge string) {
	split, ok := equitySplits[knowledge]
	if !ok {
		split = equitySplits["some_knowledge"]
	}
	alloc[models.AssetStocks] = math.Round(equityBase * split.Stocks)
	alloc[models.AssetEquityMF] = math.Round(equityBase * split.Funds)
}

// splitSafety divides the safety sleeve across liquid, gold, real estate
// and debt, tilting toward liquidity when the horizon is short, withdrawals
// loom, or the emergency fund is thin.
func splitSafety(alloc map[models.AssetClass]float64, safetyBase float64, a models.QuestionnaireAnswers, ctx InferredContext) {
	liquid := safetyBaseLiquid
	gold := safetyBaseGold
	realEstate := safetyBaseRE
	debt := safetyBaseDebt

	switch a.InvestmentHorizon {
	case "<2 years":
		liquid, gold, realEstate, debt = 0.60, 0.15, 0.15, 0.10
	case "20+ years":
		liquid, gold, realEstate, debt = 0.25, 0.25, 0.35, 0.15
	}

	if ctx.LiquidityNeeds == "frequently" || ctx.LiquidityNeeds == "monthly" || ctx.WithdrawalNext2Years {
		liquid = math.Min(0.70, liquid+0.20)
		gold *= 0.8
		realEstate *= 0.8
		debt *= 0.8
	}

	if a.EmergencyFundMonths == "0-1" || a.EmergencyFundMonths == "2-3" {
		liquid = math.Min(0.60, liquid+0.15)
		gold *= 0.9
		realEstate *= 0.9
		debt *= 0.9
	}

	total := liquid + gold + realEstate + debt
	alloc[models.AssetLiquid] = math.Round(safetyBase * liquid / total)
	alloc[models.AssetGold] = math.Round(safetyBase * gold / total)
	alloc[models.AssetRealEstate] = math.Round(safetyBase * realEstate / total)
	alloc[models.AssetDebt] = math.Round(safetyBase * debt / total)
}

// applyGoalAdjustments tilts the allocation toward safety for near-term
// goals and toward growth for distant ones. High-priority goals add a
// small stability buffer regardless of timeline.
func applyGoalAdjustments(alloc map[models.AssetClass]float64, a models.QuestionnaireAnswers) {
	if len(a.Goals) == 0 {
		return
	}
	now := a.At()

	var shortTerm, longTerm, highPriority bool
	for _, g := range a.Goals {
		years := g.TargetDate.Sub(now).Hours() / 24 / 365.25
		if years < 5 {
			shortTerm = true
		}
		if years > 10 {
			longTerm = true
		}
		if g.Priority == models.PriorityHigh {
			highPriority = true
		}
	}

	if shortTerm {
		alloc[models.AssetLiquid] = math.Min(30, alloc[models.AssetLiquid]+5)
		alloc[models.AssetDebt] = math.Min(25, alloc[models.AssetDebt]+5)
		alloc[models.AssetStocks] = math.Max(20, alloc[models.AssetStocks]-5)
		alloc[models.AssetEquityMF] = math.Max(15, alloc[models.AssetEquityMF]-5)
	}
	if longTerm {
		alloc[models.AssetStocks] = math.Min(50, alloc[models.AssetStocks]+5)
		alloc[models.AssetEquityMF] = math.Min(40, alloc[models.AssetEquityMF]+5)
		alloc[models.AssetLiquid] = math.Max(5, alloc[models.AssetLiquid]-5)
		alloc[models.AssetDebt] = math.Max(5, alloc[models.AssetDebt]-5)
	}
	if highPriority {
		alloc[models.AssetLiquid] = math.Min(25, alloc[models.AssetLiquid]+3)
		alloc[models.AssetDebt] = math.Max(5, alloc[models.AssetDebt]+2)
	}
}

// applyAvoidedAssets zeroes out excluded classes and redistributes their
// share proportionally across what remains. Returns the avoided set so
// later stages keep those classes at zero.
func applyAvoidedAssets(alloc map[models.AssetClass]float64, avoid []models.AssetClass) map[models.AssetClass]bool {
	avoided := make(map[models.AssetClass]bool, len(avoid))
	if len(avoid) == 0 {
		return avoided
	}

	redistribute := 0.0
	for _, c := range avoid {
		avoided[c] = true
		redistribute += alloc[c]
		alloc[c] = 0
	}
	if redistribute == 0 {
		return avoided
	}

	remaining := 0.0
	for _, c := range models.AssetClasses {
		if !avoided[c] {
			remaining += alloc[c]
		}
	}
	if remaining <= 0 {
		return avoided
	}
	for _, c := range models.AssetClasses {
		if !avoided[c] && alloc[c] > 0 {
			alloc[c] += redistribute * (alloc[c] / remaining)
		}
	}
	return avoided
}

// applyInsuranceAdjustment shaves up to ten points of equity exposure for
// uninsured investors and parks the proceeds in liquid and debt.
func applyInsuranceAdjustment(alloc map[models.AssetClass]float64, hasInsurance bool) {
	if hasInsurance {
		return
	}

	equityTotal := alloc[models.AssetStocks] + alloc[models.AssetEquityMF]
	if equityTotal <= 0 {
		return
	}
	reduction := math.Min(equityTotal*0.1, 10)

	if alloc[models.AssetStocks] > 0 {
		cut := alloc[models.AssetStocks] / equityTotal * reduction
		alloc[models.AssetStocks] = math.Max(0, alloc[models.AssetStocks]-cut)
	}
	if alloc[models.AssetEquityMF] > 0 {
		cut := alloc[models.AssetEquityMF] / equityTotal * reduction
		alloc[models.AssetEquityMF] = math.Max(0, alloc[models.AssetEquityMF]-cut)
	}

	alloc[models.AssetLiquid] = math.Min(100, alloc[models.AssetLiquid]+math.Min(10, reduction*0.5))
	alloc[models.AssetDebt] = math.Min(100, alloc[models.AssetDebt]+math.Min(5, reduction*0.3))
}
