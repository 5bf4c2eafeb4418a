package advisor

import (
	"errors"
	"testing"

	"github.com/username/finsight/backend/src/models"
)

func tunablePlan() *models.AllocationPlan {
	return &models.AllocationPlan{
		RiskLevel: models.RiskModerate,
		Buckets: []models.Bucket{
			{Class: models.AssetStocks, Pct: 40, Range: models.BucketRange{Min: 30, Max: 50}},
			{Class: models.AssetDebt, Pct: 40, Range: models.BucketRange{Min: 30, Max: 50}},
			{Class: models.AssetLiquid, Pct: 20, Range: models.BucketRange{Min: 10, Max: 30}},
		},
	}
}

func TestTunePlan_SpreadsCutAcrossOtherClasses(t *testing.T) {
	res, err := TunePlan(tunablePlan(), nil, models.AssetStocks, 46, nil)
	if err != nil {
		t.Fatalf("TunePlan: %v", err)
	}
	if res.Clamped {
		t.Error("46 sits inside the Stocks band, nothing should be clamped")
	}
	want := map[models.AssetClass]int{
		models.AssetStocks: 46,
		models.AssetDebt:   37,
		models.AssetLiquid: 17,
	}
	for c, v := range want {
		if res.Allocation[c] != v {
			t.Errorf("%s: expected %d, got %d", c, v, res.Allocation[c])
		}
	}
	if sumInts(res.Allocation) != 100 {
		t.Errorf("expected sum 100, got %d", sumInts(res.Allocation))
	}
}

func TestTunePlan_LockedClassKeepsItsValue(t *testing.T) {
	res, err := TunePlan(tunablePlan(), nil, models.AssetStocks, 46, []models.AssetClass{models.AssetDebt})
	if err != nil {
		t.Fatalf("TunePlan: %v", err)
	}
	if res.Allocation[models.AssetDebt] != 40 {
		t.Errorf("locked Debt must stay at 40, got %d", res.Allocation[models.AssetDebt])
	}
	if res.Allocation[models.AssetStocks] != 46 || res.Allocation[models.AssetLiquid] != 14 {
		t.Errorf("expected Stocks=46 Liquid=14, got Stocks=%d Liquid=%d",
			res.Allocation[models.AssetStocks], res.Allocation[models.AssetLiquid])
	}
	if sumInts(res.Allocation) != 100 {
		t.Errorf("expected sum 100, got %d", sumInts(res.Allocation))
	}
}

func TestTunePlan_RequestBeyondBandIsClamped(t *testing.T) {
	res, err := TunePlan(tunablePlan(), nil, models.AssetStocks, 60, nil)
	if err != nil {
		t.Fatalf("TunePlan: %v", err)
	}
	if !res.Clamped {
		t.Error("expected the 60%% request to be flagged as clamped")
	}
	want := map[models.AssetClass]int{
		models.AssetStocks: 50,
		models.AssetDebt:   35,
		models.AssetLiquid: 15,
	}
	for c, v := range want {
		if res.Allocation[c] != v {
			t.Errorf("%s: expected %d, got %d", c, v, res.Allocation[c])
		}
	}
}

func TestTunePlan_RoundingTieGoesToEarlierClass(t *testing.T) {
	// Cutting Stocks by 5 splits 2.5/2.5 across Debt and Liquid; the two
	// half-point remainders tie and Debt wins by canonical order.
	res, err := TunePlan(tunablePlan(), nil, models.AssetStocks, 45, nil)
	if err != nil {
		t.Fatalf("TunePlan: %v", err)
	}
	want := map[models.AssetClass]int{
		models.AssetStocks: 45,
		models.AssetDebt:   38,
		models.AssetLiquid: 17,
	}
	for c, v := range want {
		if res.Allocation[c] != v {
			t.Errorf("%s: expected %d, got %d", c, v, res.Allocation[c])
		}
	}
	if sumInts(res.Allocation) != 100 {
		t.Errorf("expected sum 100, got %d", sumInts(res.Allocation))
	}
}

func TestTunePlan_InvalidInputsRejected(t *testing.T) {
	cases := []struct {
		name  string
		call  func() (*TuneResult, error)
		field string
	}{
		{
			name:  "nil plan",
			call:  func() (*TuneResult, error) { return TunePlan(nil, nil, models.AssetStocks, 40, nil) },
			field: "plan",
		},
		{
			name: "class not in plan",
			call: func() (*TuneResult, error) {
				return TunePlan(tunablePlan(), nil, models.AssetGold, 10, nil)
			},
			field: "class",
		},
		{
			name: "changed class locked",
			call: func() (*TuneResult, error) {
				return TunePlan(tunablePlan(), nil, models.AssetStocks, 46, []models.AssetClass{models.AssetStocks})
			},
			field: "locked",
		},
	}
	for _, tc := range cases {
		res, err := tc.call()
		if res != nil {
			t.Errorf("%s: expected nil result", tc.name)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected *ValidationError, got %v", tc.name, err)
			continue
		}
		if ve.Field != tc.field {
			t.Errorf("%s: expected field %q, got %q", tc.name, tc.field, ve.Field)
		}
	}
}
