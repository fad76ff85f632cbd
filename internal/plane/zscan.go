package plane

// zScanPairs is the 32-entry Z-pattern over 4x4 sub-blocks from spec.md
// section 9, applied pairwise to produce the full 64-entry permutation.
var zScanPairs = [32]int{
	0, 2, 4, 6, 1, 3, 5, 7, 12, 22, 8, 10, 13, 23, 9, 11,
	14, 16, 24, 26, 15, 17, 25, 27, 18, 20, 28, 30, 19, 21, 29, 31,
}

// zScan maps a raster position (row*8+col) to the decode-order slot that
// the residue/coefficient subdivision machine filled for it.
var zScan [64]int

func init() {
	for i, p := range zScanPairs {
		zScan[2*i] = 2 * p
		zScan[2*i+1] = 2*p + 1
	}
}
