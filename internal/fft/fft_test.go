package fft

import "testing"

func almostEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestForward_N4KnownValues(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	Forward(data)
	want := []float64{8, 12, -2, 2}
	for i, w := range want {
		if !almostEqual(data[i], w, 1e-9) {
			t.Errorf("data[%d] = %v, want %v", i, data[i], w)
		}
	}
}

func TestInverse_N4KnownValues(t *testing.T) {
	data := []float64{8, 12, -2, 2}
	Inverse(data)
	want := []float64{2, 4, 6, 8} // N/2 = 2x the original [1,2,3,4]
	for i, w := range want {
		if !almostEqual(data[i], w, 1e-9) {
			t.Errorf("data[%d] = %v, want %v", i, data[i], w)
		}
	}
}

func TestForwardInverse_RoundTripUnnormalized(t *testing.T) {
	for _, n := range []int{4, 8, 16, 32, 64} {
		original := make([]float64, n)
		for i := range original {
			original[i] = float64(i%5) - 2
		}
		data := append([]float64(nil), original...)
		Forward(data)
		Inverse(data)
		for i, v := range original {
			want := v * float64(n) / 2
			if !almostEqual(data[i], want, 1e-6*float64(n)) {
				t.Errorf("n=%d: round trip data[%d] = %v, want %v", n, i, data[i], want)
			}
		}
	}
}

func TestInverse_ZeroSpectrumProducesSilence(t *testing.T) {
	data := make([]float64, 16)
	Inverse(data)
	for i, v := range data {
		if v != 0 {
			t.Errorf("data[%d] = %v, want 0", i, v)
		}
	}
}
