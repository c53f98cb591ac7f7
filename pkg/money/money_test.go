package money

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{"500", 50000},
		{"125.50", 12550},
		{"125.5", 12550},
		{"0.05", 5},
		{".5", 50},
		{"7.", 700},
		{"-3.20", -320},
		{" 42 ", 4200},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "-", "abc", "1.234", "1,000", "1e3", "."} {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Parse(%q): expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestString(t *testing.T) {
	if got := Money(253000).String(); got != "2530.00" {
		t.Errorf("String() = %q, want 2530.00", got)
	}
	if got := Money(-5).String(); got != "-0.05" {
		t.Errorf("String() = %q, want -0.05", got)
	}
}

func TestFormat_GroupsDigits(t *testing.T) {
	if got := FromMajor(2530).Format(); got != "₹2,530.00" {
		t.Errorf("Format() = %q, want ₹2,530.00", got)
	}
}

func TestMulAndSum(t *testing.T) {
	// 0.10 added a thousand times is exactly 100.00 in minor units.
	var total Money
	for i := 0; i < 1000; i++ {
		total += MustParse("0.10")
	}
	if total != FromMajor(100) {
		t.Errorf("accumulated %s, want 100.00", total)
	}
	if got := MustParse("125.50").Mul(3); got != MustParse("376.50") {
		t.Errorf("Mul = %s, want 376.50", got)
	}
	if got := Sum(FromMajor(1), FromMajor(2), MustParse("0.25")); got != MustParse("3.25") {
		t.Errorf("Sum = %s, want 3.25", got)
	}
}

func TestApplyRate(t *testing.T) {
	if got := FromMajor(2300).Apply(RateFromPercent(10)); got != FromMajor(230) {
		t.Errorf("10%% of 2300 = %s, want 230.00", got)
	}
	// 0.05 * 12.5% = 0.00625 -> 0.01 after half-up rounding.
	if got := Money(5).Apply(RateFromPercent(12.5)); got != 1 {
		t.Errorf("expected rounding up to 1 minor unit, got %d", got)
	}
	if got := FromMajor(100).Apply(0); got != 0 {
		t.Errorf("zero rate should yield zero, got %s", got)
	}
}

func TestRateString(t *testing.T) {
	if got := RateFromPercent(12.5).String(); got != "12.5%" {
		t.Errorf("String() = %q, want 12.5%%", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type line struct {
		Cost Money `json:"cost"`
	}
	b, err := json.Marshal(line{Cost: MustParse("2000")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"cost":2000.00}` {
		t.Errorf("marshal = %s", b)
	}

	var l line
	if err := json.Unmarshal([]byte(`{"cost":125.5}`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.Cost != 12550 {
		t.Errorf("unmarshal cost = %d, want 12550", l.Cost)
	}
	if err := json.Unmarshal([]byte(`{"cost":"80.25"}`), &l); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if l.Cost != 8025 {
		t.Errorf("unmarshal string cost = %d, want 8025", l.Cost)
	}
}
