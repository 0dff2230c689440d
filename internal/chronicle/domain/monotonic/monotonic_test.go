package monotonic

import "testing"

func TestLevelAddSaturates(t *testing.T) {
	l := NewLevel(0, 100)
	for i := 0; i < 150; i++ {
		l = l.Add(1)
	}
	if l.Value() != 100 {
		t.Fatalf("expected level to saturate at 100, got %d", l.Value())
	}
	if !l.Saturated() {
		t.Fatal("expected level to report saturated")
	}
}

func TestLevelAddStaysAtCap(t *testing.T) {
	l := NewLevel(100, 100)
	l = l.Add(50)
	if l.Value() != 100 {
		t.Fatalf("expected saturated level to stay at cap, got %d", l.Value())
	}
}

func TestLevelAddLargeStepClamps(t *testing.T) {
	l := NewLevel(10, 100)
	l = l.Add(1 << 30)
	if l.Value() != 100 {
		t.Fatalf("expected oversized step to clamp at cap, got %d", l.Value())
	}
}

func TestLevelAddOverflowClamps(t *testing.T) {
	l := NewLevel(1<<32-2, 1<<32-1)
	l = l.Add(10)
	if l.Value() != 1<<32-1 {
		t.Fatalf("expected overflowing add to clamp at cap, got %d", l.Value())
	}
}

func TestNewLevelClampsStart(t *testing.T) {
	l := NewLevel(250, 100)
	if l.Value() != 100 {
		t.Fatalf("expected starting value above cap to clamp, got %d", l.Value())
	}
}

func TestCounterInc(t *testing.T) {
	var c Counter
	for i := 0; i < 3; i++ {
		c = c.Inc()
	}
	if c.Value() != 3 {
		t.Fatalf("expected counter 3, got %d", c.Value())
	}
}
