package audio

import "testing"

func TestCriticalBandEdges_EndsAtNyquistBin(t *testing.T) {
	edges := criticalBandEdges(44100, 2048)
	half := 2048 / 2
	if got := edges[len(edges)-1]; got != half {
		t.Errorf("last edge = %d, want %d", got, half)
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			t.Errorf("edges not strictly increasing at %d: %v", i, edges)
		}
	}
}

func TestCriticalBandEdges_ClipsToNyquist(t *testing.T) {
	edges := criticalBandEdges(8000, 512)
	half := 512 / 2
	for _, e := range edges {
		if e > half {
			t.Errorf("edge %d exceeds nyquist bin %d", e, half)
		}
	}
	if edges[len(edges)-1] != half {
		t.Errorf("last edge = %d, want %d", edges[len(edges)-1], half)
	}
}
