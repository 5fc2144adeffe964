package format

import "testing"

func TestTokens(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K"},
		{1500, "1.5K"},
		{25400, "25.4K"},
		{999949, "999.9K"},
		{1_000_000, "1M"},
		{2_340_000, "2.3M"},
	}

	for _, tt := range tests {
		if got := Tokens(tt.in); got != tt.want {
			t.Errorf("Tokens(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCost(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{0.5, "$0.50"},
		{12.345, "$12.35"},
		{999.99, "$999.99"},
		{1000, "$1,000"},
		{1234567, "$1,234,567"},
	}

	for _, tt := range tests {
		if got := Cost(tt.in); got != tt.want {
			t.Errorf("Cost(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(87.4); got != "87%" {
		t.Errorf("Percent(87.4) = %q, want 87%%", got)
	}
}

func TestCredits(t *testing.T) {
	if got := Credits(1250); got != "$12.50" {
		t.Errorf("Credits(1250) = %q, want $12.50", got)
	}
}
