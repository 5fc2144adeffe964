package models

import (
	"testing"
	"time"
)

func TestNewUsageFigures(t *testing.T) {
	u := NewUsageFigures(100, 50)
	if u.TotalTokens != 150 {
		t.Errorf("expected total 150, got %d", u.TotalTokens)
	}
	if u.CostUSD != 0 {
		t.Errorf("expected zero cost, got %f", u.CostUSD)
	}
}

func TestUsageFiguresAdd_Identity(t *testing.T) {
	x := UsageFigures{InputTokens: 10, OutputTokens: 20, TotalTokens: 30, CostUSD: 1.5}
	var zero UsageFigures

	if got := x.Add(zero); got != x {
		t.Errorf("x + identity = %+v, want %+v", got, x)
	}
	if got := zero.Add(x); got != x {
		t.Errorf("identity + x = %+v, want %+v", got, x)
	}
}

func TestUsageFiguresAdd_Commutative(t *testing.T) {
	a := NewUsageFigures(100, 50)
	b := NewUsageFigures(7, 3)
	b.CostUSD = 0.25

	if a.Add(b) != b.Add(a) {
		t.Errorf("a+b != b+a: %+v vs %+v", a.Add(b), b.Add(a))
	}
}

func TestUsageFiguresAdd_Associative(t *testing.T) {
	a := NewUsageFigures(1, 2)
	b := NewUsageFigures(3, 4)
	c := NewUsageFigures(5, 6)

	left := a.Add(b).Add(c)
	right := a.Add(b.Add(c))
	if left != right {
		t.Errorf("(a+b)+c != a+(b+c): %+v vs %+v", left, right)
	}
	if left.TotalTokens != left.InputTokens+left.OutputTokens {
		t.Errorf("total invariant broken: %+v", left)
	}
}

func TestTimeWindowStrings(t *testing.T) {
	w := TimeWindow{
		Start: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC),
	}

	if got := w.StartString(); got != "2026-03-05T00:00:00Z" {
		t.Errorf("StartString = %q", got)
	}
	if got := w.EndString(); got != "2026-03-05T14:30:00Z" {
		t.Errorf("EndString = %q", got)
	}
}
