package models

// RiskLevel is the three-tier classification of how much volatility a plan
// should tolerate.
type RiskLevel string

const (
	RiskConservative RiskLevel = "Conservative"
	RiskModerate     RiskLevel = "Moderate"
	RiskAggressive   RiskLevel = "Aggressive"
)

// BucketRange is the advisory [min,max] tolerance band around a bucket's
// recommended percentage. It never feeds back into the allocation numbers.
type BucketRange struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Range       float64 `json:"range"`
	Base        float64 `json:"base"`
	Multiplier  float64 `json:"multiplier"`
	Cap         float64 `json:"cap"`
	Explanation string  `json:"explanation"`
}

type Bucket struct {
	Class        AssetClass  `json:"class"`
	Pct          int         `json:"pct"`
	Range        BucketRange `json:"range"`
	RiskCategory string      `json:"riskCategory"`
	Notes        string      `json:"notes"`
}

type RiskProfile struct {
	Level       RiskLevel `json:"level"`
	Score       float64   `json:"score"`
	Min         int       `json:"min"`
	Max         int       `json:"max"`
	Description string    `json:"description"`
}

// Warning flags self-contradictory questionnaire answers.
type Warning struct {
	Severity        string `json:"severity"` // "warning" or "critical"
	Message         string `json:"message"`
	Category        string `json:"category"`
	SuggestedAction string `json:"suggestedAction"`
}

// ScenarioResult is the outcome of one named stress-test scenario.
type ScenarioResult struct {
	PortfolioImpactPct float64 `json:"portfolioImpact"`
	MonthsCovered      float64 `json:"monthsCovered"`
	Recommendation     string  `json:"recommendation"`
	HistoricalDrop     string  `json:"historicalDrop"`
	Evidence           string  `json:"evidence"`
	Recovery           string  `json:"recovery"`
	Comparison         string  `json:"comparison"`
}

// Signal is one weighted equity-vs-safety reading derived from a
// questionnaire factor.
type Signal struct {
	Factor      string  `json:"factor"`
	Equity      float64 `json:"equitySignal"`
	Safety      float64 `json:"safetySignal"`
	Weight      float64 `json:"weight"`
	Explanation string  `json:"explanation"`
}

// AllocationPlan is the engine's primary output, immutable once produced.
// Bucket percentages always sum to exactly 100.
type AllocationPlan struct {
	Buckets          []Bucket                  `json:"buckets"`
	RiskProfile      RiskProfile               `json:"riskProfile"`
	RiskLevel        RiskLevel                 `json:"riskLevel"`
	RiskScore        float64                   `json:"riskScore"`
	Rationale        []string                  `json:"rationale"`
	Signals          []Signal                  `json:"signals,omitempty"`
	Warnings         []Warning                 `json:"behavioralWarnings,omitempty"`
	ConsistencyScore int                       `json:"consistencyScore"`
	StressTest       map[string]ScenarioResult `json:"stressTest,omitempty"`
}

// BucketPct returns the plan percentage for a class, zero when absent.
func (p *AllocationPlan) BucketPct(class AssetClass) int {
	for _, b := range p.Buckets {
		if b.Class == class {
			return b.Pct
		}
	}
	return 0
}

// EquityPct is the combined growth share (Stocks + Equity MF).
func (p *AllocationPlan) EquityPct() int {
	return p.BucketPct(AssetStocks) + p.BucketPct(AssetEquityMF)
}

// RebalanceItem is one row of the drift monitor's report. DriftPct is
// target minus actual: positive means underweight, needing an Increase.
type RebalanceItem struct {
	Class     AssetClass `json:"class"`
	TargetPct float64    `json:"targetPct"`
	ActualPct float64    `json:"actualPct"`
	DriftPct  float64    `json:"driftPct"`
	Action    string     `json:"action"` // "Increase" or "Reduce"
	Amount    float64    `json:"amount"`
}

// Trade is one proposed buy or sell. Ephemeral, recomputed on every call.
type Trade struct {
	Class     AssetClass `json:"class"`
	Action    string     `json:"action"` // "Increase" or "Reduce"
	Amount    float64    `json:"amount"`
	ActualPct float64    `json:"actualPct"`
	TargetPct float64    `json:"targetPct"`
	Reason    string     `json:"reason"`
}

// RebalanceProposal is the constrained trade plan toward a target mix.
type RebalanceProposal struct {
	Mode          string                 `json:"mode"`
	Trades        []Trade                `json:"trades"`
	BeforeMix     map[AssetClass]float64 `json:"beforeMix"`
	AfterMix      map[AssetClass]float64 `json:"afterMix"`
	TurnoverPct   float64                `json:"turnoverPct"`
	Rationale     string                 `json:"rationale"`
	GoalsCount    int                    `json:"goalsCount"`
	BlendedTarget map[AssetClass]int     `json:"blendedTarget,omitempty"`
}
