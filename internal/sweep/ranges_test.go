package sweep

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestParseCSVFloat64s(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  []float64
		expectErr bool
	}{
		{"empty_string", "", nil, false},
		{"single_value", "1.5", []float64{1.5}, false},
		{"multiple_values", "1.0,2.5,3.0", []float64{1.0, 2.5, 3.0}, false},
		{"with_spaces", " 1.0 , 2.5 , 3.0 ", []float64{1.0, 2.5, 3.0}, false},
		{"negative_values", "-1.5,-2.5", []float64{-1.5, -2.5}, false},
		{"scientific_notation", "1e-3,2e2", []float64{0.001, 200}, false},
		{"invalid_value", "1.0,abc,3.0", nil, true},
		{"empty_parts", "1.0,,3.0", []float64{1.0, 3.0}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseCSVFloat64s(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got nil", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("ParseCSVFloat64s(%q) = %v, want %v", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseRangeSpec(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  RangeSpec
		expectErr bool
	}{
		{"valid", "0:0.1:0.02", RangeSpec{Min: 0, Max: 0.1, Step: 0.02}, false},
		{"with_spaces", " 1 : 5 : 1 ", RangeSpec{Min: 1, Max: 5, Step: 1}, false},
		{"negative_min", "-1:1:0.5", RangeSpec{Min: -1, Max: 1, Step: 0.5}, false},
		{"too_few_parts", "0:1", RangeSpec{}, true},
		{"too_many_parts", "0:1:0.1:2", RangeSpec{}, true},
		{"bad_min", "x:1:0.1", RangeSpec{}, true},
		{"bad_step", "0:1:y", RangeSpec{}, true},
		{"zero_step", "0:1:0", RangeSpec{}, true},
		{"negative_step", "0:1:-0.1", RangeSpec{}, true},
		{"inverted", "2:1:0.1", RangeSpec{}, true},
		{"nan_step", "0:1:NaN", RangeSpec{}, true},
		{"nan_min", "NaN:1:0.1", RangeSpec{}, true},
		{"nan_max", "0:NaN:0.1", RangeSpec{}, true},
		{"inf_step", "0:1:Inf", RangeSpec{}, true},
		{"inf_max", "0:Inf:0.1", RangeSpec{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := ParseRangeSpec(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("Expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if spec != tc.expected {
				t.Errorf("ParseRangeSpec(%q) = %+v, want %+v", tc.input, spec, tc.expected)
			}
		})
	}
}

func TestRangeSpecValues(t *testing.T) {
	got, err := RangeSpec{Min: 0, Max: 0.1, Step: 0.02}.Values()
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0.02, 0.04, 0.06, 0.08, 0.1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}

	got, err = RangeSpec{Min: 1, Max: 1, Step: 0.5}.Values()
	if err != nil || !reflect.DeepEqual(got, []float64{1}) {
		t.Errorf("degenerate range = %v, %v", got, err)
	}

	got, err = RangeSpec{Min: 0, Max: 1, Step: 0.3}.Values()
	if err != nil || !reflect.DeepEqual(got, []float64{0, 0.3, 0.6, 0.9}) {
		t.Errorf("non-dividing step = %v, %v", got, err)
	}

	if _, err := (RangeSpec{Min: 0, Max: 1, Step: 1e-6}).Values(); err == nil {
		t.Error("expected error for oversized range")
	}
	if _, err := (RangeSpec{Min: 0, Max: 1, Step: 0}).Values(); err == nil {
		t.Error("expected error for zero step")
	}
	for _, r := range []RangeSpec{
		{Min: 0, Max: 1, Step: math.NaN()},
		{Min: math.NaN(), Max: 1, Step: 0.1},
		{Min: 0, Max: math.NaN(), Step: 0.1},
		{Min: 0, Max: math.Inf(1), Step: 0.1},
		{Min: 0, Max: 1, Step: math.Inf(1)},
	} {
		if _, err := r.Values(); err == nil {
			t.Errorf("expected error for non-finite range %+v", r)
		}
	}
}

func TestParseParamList(t *testing.T) {
	got, err := ParseParamList("0:1:0.5")
	if err != nil || !reflect.DeepEqual(got, []float64{0, 0.5, 1}) {
		t.Errorf("range list = %v, %v", got, err)
	}
	got, err = ParseParamList("3,7, 9")
	if err != nil || !reflect.DeepEqual(got, []float64{3, 7, 9}) {
		t.Errorf("csv list = %v, %v", got, err)
	}
	got, err = ParseParamList("  ")
	if err != nil || got != nil {
		t.Errorf("blank list = %v, %v", got, err)
	}
	if _, err := ParseParamList("1:2"); err == nil {
		t.Error("expected error for malformed range")
	}
}

func TestExpandRanges(t *testing.T) {
	got, err := ExpandRanges([][]float64{{1, 2}, nil, {10, 20, 30}}, []float64{0, 5, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]float64{
		{1, 5, 10}, {1, 5, 20}, {1, 5, 30},
		{2, 5, 10}, {2, 5, 20}, {2, 5, 30},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandRanges = %v, want %v", got, want)
	}

	if _, err := ExpandRanges([][]float64{{1}}, nil); err == nil {
		t.Error("expected mismatch error")
	}

	big := make([]float64, 200)
	_, err = ExpandRanges([][]float64{big, big}, []float64{0, 0})
	if err == nil || !strings.Contains(err.Error(), "safe limit") {
		t.Errorf("expected combination limit error, got %v", err)
	}

	got, err = ExpandRanges(nil, nil)
	if err != nil || got != nil {
		t.Errorf("empty expansion = %v, %v", got, err)
	}
}
