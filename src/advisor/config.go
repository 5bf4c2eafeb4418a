package advisor

import "github.com/username/finsight/backend/src/models"

// Closed answer vocabularies. Anything outside these bands is rejected
// with a ValidationError naming the offending field.
var (
	ageBands       = []string{"<25", "25-35", "35-45", "45-55", "55-65", "65+"}
	horizonBands   = []string{"<2 years", "2-5 years", "5-10 years", "10-20 years", "20+ years"}
	incomeBands    = []string{"<50K", "50K-1L", "1L-2L", "2L-5L", "5L+"}
	efBands        = []string{"0-1", "2-3", "4-6", "7-12", "12+"}
	dependentBands = []string{"0", "1-2", "3-4", "5+"}
	volatilityBands = []string{
		"panic_sell", "very_uncomfortable", "somewhat_concerned", "stay_calm", "buy_more",
	}
	lossBands      = []string{"5%", "10%", "20%", "30%", "40%+"}
	knowledgeBands = []string{"beginner", "some_knowledge", "experienced", "expert"}
)

// Risk scoring parameters.
const (
	scoreBase       = 55.0
	scoreSafetyCoef = 0.30
	scoreOffset     = 5.0
	scoreMin        = 10.0
	scoreMax        = 90.0
)

// riskLevelDef describes one tier of the risk ladder.
type riskLevelDef struct {
	Level       models.RiskLevel
	Min         int
	Max         int
	EquityMin   float64
	EquityMax   float64
	Description string
}

// Tier cut-points sit inside the span the capped signals can actually
// produce: with every signal clamped to +/-10, raw scores land roughly
// between 47 and 73.
var riskLevels = []riskLevelDef{
	{
		Level:       models.RiskConservative,
		Min:         0,
		Max:         51,
		EquityMin:   15,
		EquityMax:   45,
		Description: "Capital preservation first. Most of the portfolio sits in debt and liquid assets, with a modest equity sleeve for growth.",
	},
	{
		Level:       models.RiskModerate,
		Min:         52,
		Max:         67,
		EquityMin:   35,
		EquityMax:   65,
		Description: "Balanced growth. Equity carries roughly half the portfolio while debt and liquid assets cushion drawdowns.",
	},
	{
		Level:       models.RiskAggressive,
		Min:         68,
		Max:         100,
		EquityMin:   55,
		EquityMax:   85,
		Description: "Growth oriented. Equity dominates the mix and short-term volatility is accepted in exchange for long-run returns.",
	},
}

func riskLevelForScore(score float64) riskLevelDef {
	s := int(score)
	for _, lvl := range riskLevels {
		if s >= lvl.Min && s <= lvl.Max {
			return lvl
		}
	}
	return riskLevels[len(riskLevels)-1]
}

// assetBound is the admissible final percentage window for one asset
// class within a risk tier.
type assetBound struct {
	Min float64
	Max float64
}

var assetBounds = map[models.RiskLevel]map[models.AssetClass]assetBound{
	models.RiskConservative: {
		models.AssetStocks:     {Min: 5, Max: 45},
		models.AssetEquityMF:   {Min: 10, Max: 50},
		models.AssetDebt:       {Min: 25, Max: 60},
		models.AssetLiquid:     {Min: 8, Max: 25},
		models.AssetGold:       {Min: 2, Max: 15},
		models.AssetRealEstate: {Min: 2, Max: 20},
	},
	models.RiskModerate: {
		models.AssetStocks:     {Min: 10, Max: 60},
		models.AssetEquityMF:   {Min: 15, Max: 60},
		models.AssetDebt:       {Min: 20, Max: 50},
		models.AssetLiquid:     {Min: 6, Max: 20},
		models.AssetGold:       {Min: 2, Max: 20},
		models.AssetRealEstate: {Min: 2, Max: 25},
	},
	models.RiskAggressive: {
		models.AssetStocks:     {Min: 15, Max: 75},
		models.AssetEquityMF:   {Min: 20, Max: 70},
		models.AssetDebt:       {Min: 15, Max: 40},
		models.AssetLiquid:     {Min: 5, Max: 15},
		models.AssetGold:       {Min: 2, Max: 25},
		models.AssetRealEstate: {Min: 2, Max: 30},
	},
}

// Base half-widths for the dynamic range calculator, as fractions of
// the target percentage.
var baseRanges = map[models.AssetClass]float64{
	models.AssetStocks:     0.05,
	models.AssetEquityMF:   0.04,
	models.AssetDebt:       0.03,
	models.AssetLiquid:     0.02,
	models.AssetGold:       0.03,
	models.AssetRealEstate: 0.03,
}

// Per-asset caps on the context multiplier.
var assetCaps = map[models.AssetClass]float64{
	models.AssetStocks:     2.5,
	models.AssetEquityMF:   2.2,
	models.AssetDebt:       1.5,
	models.AssetLiquid:     1.3,
	models.AssetGold:       1.8,
	models.AssetRealEstate: 1.6,
}

const (
	rangeMultiplierMin = 0.5
	rangeMultiplierMax = 1.5
	rangeDeltaFloor    = 2.0
)

// Factor weights used when aggregating advisor signals.
const (
	weightAge          = 0.25
	weightHorizon      = 0.25
	weightDependents   = 0.075
	weightEmergency    = 0.075
	weightVolatility   = 0.075
	weightLoss         = 0.075
	weightGoals        = 0.40
	weightGoalsNeutral = 0.15
	weightInsurance    = 0.05
)

// Knowledge multiplier applied to the aggregated equity signal,
// with its effect capped at +/-10 points.
var knowledgeMultipliers = map[string]float64{
	"beginner":       0.8,
	"some_knowledge": 0.9,
	"experienced":    1.0,
	"expert":         1.2,
}

const knowledgeAdjCap = 10.0

// Equity sleeve split between direct stocks and equity funds, keyed by
// investment knowledge. More experienced investors carry more direct
// stock exposure.
type equitySplit struct {
	Stocks float64
	Funds  float64
}

var equitySplits = map[string]equitySplit{
	"beginner":       {Stocks: 0.25, Funds: 0.75},
	"some_knowledge": {Stocks: 0.35, Funds: 0.65},
	"experienced":    {Stocks: 0.40, Funds: 0.60},
	"expert":         {Stocks: 0.50, Funds: 0.50},
}

// Base split of the safety sleeve before situational adjustments.
const (
	safetyBaseLiquid = 0.35
	safetyBaseGold   = 0.20
	safetyBaseRE     = 0.25
	safetyBaseDebt   = 0.20
)

const consistencyPenaltyPerWarning = 15
