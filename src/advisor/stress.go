package advisor

import (
	"fmt"
	"math"

	"github.com/username/finsight/backend/src/models"
)

// stressScenario is a historical market event used to sanity-check a
// proposed allocation against real drawdowns.
type stressScenario struct {
	Drops    map[string]float64
	Evidence string
	Recovery string
}

var stressScenarios = map[string]stressScenario{
	"2008 Financial Crisis": {
		Drops:    map[string]float64{"S&P500": -37, "NIFTY": -52},
		Evidence: "2008-2009 global financial crisis",
		Recovery: "3-4 years",
	},
	"COVID Crash": {
		Drops:    map[string]float64{"NIFTY": -38},
		Evidence: "March 2020 pandemic shock",
		Recovery: "6-9 months",
	},
	"Dotcom Bust": {
		Drops:    map[string]float64{"NASDAQ": -78},
		Evidence: "2000-2002 tech bubble burst",
		Recovery: "15 years for NASDAQ",
	},
	"2016 Demonetization": {
		Drops:    map[string]float64{"NIFTY": -15, "Real Estate": -35, "Gold": -20},
		Evidence: "November 2016 currency ban, cash crunch",
		Recovery: "6-8 months",
	},
}

var incomeEstimateByBand = map[string]float64{
	"<50K":   35000,
	"50K-1L": 75000,
	"1L-2L":  150000,
	"2L-5L":  350000,
	"5L+":    750000,
}

var efMonthsByBand = map[string]float64{
	"0-1":  0.5,
	"2-3":  2.5,
	"4-6":  5,
	"7-12": 9,
	"12+":  15,
}

// assetDropPct resolves the historical drop relevant to one asset class in
// a scenario. Equity maps to the broad indices; debt takes a mild hit and
// liquid none unless the scenario says otherwise.
func assetDropPct(s stressScenario, asset models.AssetClass) float64 {
	if d, ok := s.Drops["NIFTY"]; ok && (asset == models.AssetStocks || asset == models.AssetEquityMF) {
		return d
	}
	if d, ok := s.Drops["Real Estate"]; ok && asset == models.AssetRealEstate {
		return d
	}
	if d, ok := s.Drops["Gold"]; ok && asset == models.AssetGold {
		return d
	}
	if d, ok := s.Drops["S&P500"]; ok && asset == models.AssetStocks {
		return d
	}
	if d, ok := s.Drops["NASDAQ"]; ok && asset == models.AssetEquityMF {
		return d
	}
	switch asset {
	case models.AssetDebt:
		return -5
	case models.AssetLiquid:
		return 0
	default:
		return -15
	}
}

func estimateMonthlyExpenses(a models.QuestionnaireAnswers) float64 {
	monthly := incomeEstimateByBand[a.AnnualIncome] / 12

	ratio := 0.8
	switch a.Dependents {
	case "0":
		ratio = 0.6
	case "1-2":
		ratio = 0.7
	}
	return monthly * ratio
}

// runStressTests evaluates the allocation against every historical
// scenario, reporting the weighted portfolio impact and how many months
// of expenses would remain covered.
func runStressTests(alloc map[models.AssetClass]int, a models.QuestionnaireAnswers) map[string]models.ScenarioResult {
	results := make(map[string]models.ScenarioResult, len(stressScenarios))
	monthlyExpenses := estimateMonthlyExpenses(a)
	efValue := monthlyExpenses * efMonthsByBand[a.EmergencyFundMonths]

	for name, scenario := range stressScenarios {
		impact := 0.0
		for asset, pct := range alloc {
			drop := assetDropPct(scenario, asset)
			impact += (float64(pct) / 100) * (drop / 100)
		}

		var monthsCovered float64
		if monthlyExpenses > 0 {
			monthsCovered = (efValue + impact*a.InvestmentAmount) / monthlyExpenses
		} else if efValue > 0 {
			monthsCovered = 12
		}
		monthsCovered = math.Max(0, monthsCovered)

		recommendation := "Portfolio shows good resilience"
		if monthsCovered < 3 {
			recommendation = "Consider increasing emergency fund before investing"
		} else if impact < -0.30 {
			recommendation = "Consider reducing equity exposure for this scenario"
		} else if impact < -0.20 {
			recommendation = "Portfolio within acceptable risk parameters"
		}

		historicalDrop := pickHistoricalDrop(scenario)
		results[name] = models.ScenarioResult{
			PortfolioImpactPct: impact * 100,
			MonthsCovered:      monthsCovered,
			Recommendation:     recommendation,
			HistoricalDrop:     historicalDrop,
			Evidence:           scenario.Evidence,
			Recovery:           scenario.Recovery,
			Comparison:         fmt.Sprintf("Your portfolio: %.1f%% vs Historical: %s", impact*100, historicalDrop),
		}
	}
	return results
}

func pickHistoricalDrop(s stressScenario) string {
	for _, idx := range []string{"NIFTY", "S&P500", "NASDAQ"} {
		if d, ok := s.Drops[idx]; ok {
			return fmt.Sprintf("%.0f%%", d)
		}
	}
	return "-20%"
}
