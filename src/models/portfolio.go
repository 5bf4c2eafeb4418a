package models

import "time"

// AssetClass is one of the six buckets every allocation is expressed over.
type AssetClass string

const (
	AssetStocks     AssetClass = "Stocks"
	AssetEquityMF   AssetClass = "Equity MF"
	AssetDebt       AssetClass = "Debt"
	AssetLiquid     AssetClass = "Liquid"
	AssetGold       AssetClass = "Gold"
	AssetRealEstate AssetClass = "Real Estate"
)

// AssetClasses is the canonical bucket order. Rounding ties, liquidity-floor
// funding and JSON output all follow this order, so keep it stable.
var AssetClasses = []AssetClass{
	AssetStocks,
	AssetEquityMF,
	AssetDebt,
	AssetLiquid,
	AssetGold,
	AssetRealEstate,
}

func IsAssetClass(s string) bool {
	for _, c := range AssetClasses {
		if string(c) == s {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Goal is a user-defined financial goal. Consumed read-only by the engine.
type Goal struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	TargetAmount float64   `json:"targetAmount"`
	TargetDate   time.Time `json:"targetDate"`
	Priority     Priority  `json:"priority"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// Holding is a single position. Optional fields stay nil when the user did
// not supply them; Value resolves the effective amount.
type Holding struct {
	ID              string     `json:"id,omitempty"`
	Name            string     `json:"name"`
	InstrumentClass AssetClass `json:"instrumentClass"`
	Units           *float64   `json:"units,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	InvestedAmount  *float64   `json:"investedAmount,omitempty"`
	CurrentValue    *float64   `json:"currentValue,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt,omitempty"`
}

// Value resolves a holding's worth by priority: explicit current value,
// else units x price, else invested amount, else zero. The drift monitor
// and rebalance proposer must both use this rule.
func (h Holding) Value() float64 {
	if h.CurrentValue != nil {
		return *h.CurrentValue
	}
	if h.Units != nil && h.Price != nil {
		return *h.Units * *h.Price
	}
	if h.InvestedAmount != nil {
		return *h.InvestedAmount
	}
	return 0
}

// Constraints are per-portfolio user settings read by the range calculator
// and rebalance proposer. Owned and persisted by the storage layer.
type Constraints struct {
	EFMonths        int     `json:"efMonths"`
	LiquidityAmount float64 `json:"liquidityAmount"`
	LiquidityMonths int     `json:"liquidityMonths"`
	Notes           string  `json:"notes,omitempty"`
}

// QuestionnaireAnswers is the immutable input snapshot for plan building.
// Banded fields must come from the closed vocabularies in the advisor
// package; unknown values fail validation rather than defaulting.
type QuestionnaireAnswers struct {
	Age                 string       `json:"age"`
	InvestmentHorizon   string       `json:"investmentHorizon"`
	AnnualIncome        string       `json:"annualIncome"`
	InvestmentAmount    float64      `json:"investmentAmount"`
	EmergencyFundMonths string       `json:"emergencyFundMonths"`
	Dependents          string       `json:"dependents"`
	VolatilityComfort   string       `json:"volatilityComfort"`
	MaxAcceptableLoss   string       `json:"maxAcceptableLoss"`
	InvestmentKnowledge string       `json:"investmentKnowledge"`
	HasInsurance        bool         `json:"hasInsurance"`
	Goals               []Goal       `json:"goals,omitempty"`
	AvoidAssets         []AssetClass `json:"avoidAssets,omitempty"`

	// AsOf pins the reference time for goal-date math. Zero means "now";
	// tests set it so BuildPlan stays a pure function of its input.
	AsOf time.Time `json:"asOf,omitempty"`
}

// At returns the reference time for date-derived signals.
func (a QuestionnaireAnswers) At() time.Time {
	if a.AsOf.IsZero() {
		return time.Now()
	}
	return a.AsOf
}
