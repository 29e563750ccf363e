package dealquality

import (
	"testing"

	"github.com/dealscope/dealscope/internal/models"
)

func TestEvaluateVerdicts(t *testing.T) {
	cases := []struct {
		name         string
		listing      float64
		hasPrice     bool
		predicted    float64
		wantQuality  models.DealQuality
		wantPosition models.MarketPosition
	}{
		{"well below predicted", 17900, true, 20000, models.DealGood, models.PositionBelowAverage},
		{"slightly below predicted", 19000, true, 20000, models.DealFair, models.PositionAverage},
		{"slightly above predicted", 21000, true, 20000, models.DealFair, models.PositionAverage},
		{"well above predicted", 22500, true, 20000, models.DealPoor, models.PositionAboveAverage},
		{"exactly at predicted", 20000, true, 20000, models.DealFair, models.PositionAverage},
		{"no price", 0, false, 20000, models.DealUnknown, models.PositionUnknown},
		{"zero price flagged present", 0, true, 20000, models.DealUnknown, models.PositionUnknown},
		{"no prediction", 15000, true, 0, models.DealUnknown, models.PositionUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.listing, tc.hasPrice, tc.predicted)
			if got.Quality != tc.wantQuality {
				t.Errorf("quality = %s, want %s", got.Quality, tc.wantQuality)
			}
			if got.MarketPosition != tc.wantPosition {
				t.Errorf("position = %s, want %s", got.MarketPosition, tc.wantPosition)
			}
			if got.Explanation == "" {
				t.Error("explanation must never be empty")
			}
		})
	}
}

func TestEvaluateBoundariesInclusive(t *testing.T) {
	// -10% exactly is still Good, +10% exactly is still Fair.
	atLower := Evaluate(18000, true, 20000)
	if atLower.Quality != models.DealGood {
		t.Errorf("-10%% boundary: got %s, want %s", atLower.Quality, models.DealGood)
	}
	atUpper := Evaluate(22000, true, 20000)
	if atUpper.Quality != models.DealFair {
		t.Errorf("+10%% boundary: got %s, want %s", atUpper.Quality, models.DealFair)
	}
	justOver := Evaluate(22001, true, 20000)
	if justOver.Quality != models.DealPoor {
		t.Errorf("just past +10%%: got %s, want %s", justOver.Quality, models.DealPoor)
	}
}

func TestEvaluateDifferenceFields(t *testing.T) {
	got := Evaluate(18000, true, 20000)
	if got.Difference != -2000 {
		t.Errorf("difference = %v, want -2000", got.Difference)
	}
	if got.DifferencePercent != -10 {
		t.Errorf("difference percent = %v, want -10", got.DifferencePercent)
	}
}

func TestEvaluateNoPriceExplanation(t *testing.T) {
	got := Evaluate(0, false, 20000)
	if got.Explanation != "No listing price available" {
		t.Errorf("explanation = %q", got.Explanation)
	}
	if got.Difference != 0 || got.DifferencePercent != 0 {
		t.Error("unknown verdict must not carry difference figures")
	}
}
