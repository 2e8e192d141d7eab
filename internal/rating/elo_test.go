package rating

import (
	"math"
	"testing"
)

func TestUpdateEqualRatingsSplitsEvenly(t *testing.T) {
	r1, r2 := Update(1000, 1000, DefaultK, WinnerP1)
	if r1 <= 1000 {
		t.Fatalf("winner rating should rise, got %v", r1)
	}
	if r2 >= 1000 {
		t.Fatalf("loser rating should fall, got %v", r2)
	}
	if math.Abs((r1+r2)-2000) > 1e-9 {
		t.Fatalf("rating sum should be conserved when p1+p2=1, got %v", r1+r2)
	}
}

func TestUpdateMonotonicity(t *testing.T) {
	cases := []struct{ r1, r2 float64 }{
		{1000, 1000},
		{1200, 900},
		{800, 1400},
	}
	for _, c := range cases {
		newR1, newR2 := Update(c.r1, c.r2, DefaultK, WinnerP1)
		if newR1 < c.r1 {
			t.Fatalf("winner rating must not decrease: %v -> %v", c.r1, newR1)
		}
		if newR2 > c.r2 {
			t.Fatalf("loser rating must not increase: %v -> %v", c.r2, newR2)
		}
	}
}

func TestUpdateWinnerP2(t *testing.T) {
	r1, r2 := Update(1000, 1000, DefaultK, WinnerP2)
	if r2 <= 1000 || r1 >= 1000 {
		t.Fatalf("expected P2 to gain and P1 to lose, got r1=%v r2=%v", r1, r2)
	}
}

func TestNewEloDefaults(t *testing.T) {
	e := NewElo()
	if e.R1 != InitialElo || e.R2 != InitialElo {
		t.Fatalf("expected both ratings at %v, got %+v", InitialElo, e)
	}
	if e.K != DefaultK {
		t.Fatalf("expected K=%v, got %v", DefaultK, e.K)
	}
}
