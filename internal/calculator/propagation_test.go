package calculator

import (
	"math"
	"testing"

	"signal-metrics/internal/models"
)

func TestFSPLExcludesNonPositiveDistances(t *testing.T) {
	got := FSPL([]float64{0, -3, 10, math.NaN(), 100}, models.DefaultFSPLParams())
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestFSPLGrowsWithDistance(t *testing.T) {
	got := FSPL([]float64{10, 100, 1000}, models.DefaultFSPLParams())
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !(got[i] > got[i-1]) {
			t.Fatalf("loss %v at index %d does not exceed %v", got[i], i, got[i-1])
		}
		// Free space loss rises 20 dB per decade.
		if math.Abs(got[i]-got[i-1]-20) > 1e-9 {
			t.Fatalf("step %d = %v dB, want 20", i, got[i]-got[i-1])
		}
	}

	// The plotted curve is the negated loss, so it falls with distance.
	curve := FSPLCurve([]float64{10, 100, 1000}, models.DefaultFSPLParams())
	for i := 1; i < len(curve.Y); i++ {
		if !(curve.Y[i] < curve.Y[i-1]) {
			t.Fatalf("curve not decreasing at %d: %v", i, curve.Y)
		}
	}
}

func TestFSPLKnownValue(t *testing.T) {
	p := models.FSPLParams{FrequencyHz: 5.18e9, OffsetDB: 30, SpeedOfLight: 3e8}
	want := 20*math.Log10(100) + 20*math.Log10(5.18e9) + 20*math.Log10(4*math.Pi/3e8) - 30
	got := FSPL([]float64{100}, p)[0]
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("FSPL(100) = %v, want %v", got, want)
	}
}

func TestFSPLCurvePairsDistances(t *testing.T) {
	curve := FSPLCurve([]float64{0, 5, 50}, models.DefaultFSPLParams())
	if len(curve.X) != 2 || curve.X[0] != 5 || curve.X[1] != 50 {
		t.Fatalf("curve.X = %v, want [5 50]", curve.X)
	}
	if len(curve.Y) != len(curve.X) {
		t.Fatalf("len(Y) = %d, want %d", len(curve.Y), len(curve.X))
	}
}

func TestTwoRayAtOneMeter(t *testing.T) {
	got := TwoRay([]float64{1}, models.DefaultTwoRayParams())
	// ht²·hr² = 64·4 = 256
	want := 30 + 10*math.Log10(256)
	if math.Abs(got[0]-want) > 1e-9 {
		t.Fatalf("TwoRay(1) = %v, want %v", got[0], want)
	}
	if math.Abs(got[0]-54.08) > 0.01 {
		t.Fatalf("TwoRay(1) = %.3f, want ≈54.08", got[0])
	}
}

func TestTwoRayClampsInsteadOfExcluding(t *testing.T) {
	in := []float64{0, 0.5, 1, 10}
	got := TwoRay(in, models.DefaultTwoRayParams())
	if len(got) != len(in) {
		t.Fatalf("len = %d, want %d", len(got), len(in))
	}
	if got[0] != got[2] || got[1] != got[2] {
		t.Fatalf("sub-meter distances not clamped: %v", got)
	}
	// 40 dB per decade.
	if math.Abs(got[2]-got[3]-40) > 1e-9 {
		t.Fatalf("decade drop = %v, want 40", got[2]-got[3])
	}
}
