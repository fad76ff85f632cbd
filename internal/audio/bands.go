package audio

// criticalFrequencies are the classic 25-band Bark/critical-band edge
// frequencies in Hz (Zwicker scale), clipped per track to half the sample
// rate and mapped to FFT bin indices to form the quantizer bands read in
// spec.md section 4.5 step 3. spec.md does not give numeric edges, so this
// table is an assumption documented in DESIGN.md rather than a value
// carried over from an original source.
var criticalFrequencies = []int{
	100, 200, 300, 400, 510, 630, 770, 920, 1080, 1270,
	1480, 1720, 2000, 2320, 2700, 3150, 3700, 4400, 5300,
	6400, 7700, 9500, 12000, 15500, 24500,
}

// runLengthTable maps the 4-bit run-length index read in step 4 to a
// run-length unit (itself multiplied by 8 by the caller).
var runLengthTable = [16]int{2, 3, 4, 5, 6, 8, 9, 10, 11, 12, 13, 14, 15, 16, 32, 64}

// criticalBandEdges maps criticalFrequencies into FFT bin indices for the
// given sample rate and frame size, appending the Nyquist bin
// (samplesPerFrame/2) as the final edge.
func criticalBandEdges(sampleRate, samplesPerFrame int) []int {
	nyquist := sampleRate / 2
	half := samplesPerFrame / 2
	edges := make([]int, 0, len(criticalFrequencies)+1)
	for _, f := range criticalFrequencies {
		if f > nyquist {
			break
		}
		idx := f * samplesPerFrame / sampleRate
		if idx > half {
			idx = half
		}
		if idx > 0 && (len(edges) == 0 || edges[len(edges)-1] != idx) {
			edges = append(edges, idx)
		}
	}
	if len(edges) == 0 || edges[len(edges)-1] != half {
		edges = append(edges, half)
	}
	return edges
}
