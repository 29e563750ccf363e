package models

import "testing"

func TestParseCondition(t *testing.T) {
	cases := []struct {
		in   string
		want Condition
	}{
		{"new", ConditionNew},
		{"  Brand New ", ConditionNew},
		{"cpo", ConditionLikeNew},
		{"mint", ConditionExcellent},
		{"used", ConditionGood},
		{"average", ConditionFair},
		{"salvage", ConditionPoor},
		{"", ConditionGood},
		{"whatever the seller typed", ConditionGood},
	}
	for _, tc := range cases {
		if got := ParseCondition(tc.in); got != tc.want {
			t.Errorf("ParseCondition(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseFuelType(t *testing.T) {
	cases := []struct {
		in   string
		want FuelType
	}{
		{"Petrol", FuelGasoline},
		{"diesel", FuelDiesel},
		{"Plug-in Hybrid", FuelHybrid},
		{"EV", FuelElectric},
		{"autogas", FuelLPG},
		{"natural gas", FuelCNG},
		{"", FuelGasoline},
		{"steam", FuelGasoline},
	}
	for _, tc := range cases {
		if got := ParseFuelType(tc.in); got != tc.want {
			t.Errorf("ParseFuelType(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestHasPrice(t *testing.T) {
	if (NormalizedListing{Price: 0}).HasPrice() {
		t.Error("zero price is not a price")
	}
	if (NormalizedListing{Price: -1}).HasPrice() {
		t.Error("negative price is not a price")
	}
	if !(NormalizedListing{Price: 17900}).HasPrice() {
		t.Error("positive price should count")
	}
}
