package plane

// baseQuantRow8x8 is the frequency-weighted base table scaled by the 16
// quantizerI sets below. spec.md section 4.4.3 names quantizerI as a
// 4-bit selector into allQuantizers but does not publish the 16x64 table
// itself; DESIGN.md records the synthesis rule used here: set q scales
// this base row by (1 + q%4) / 2^(q/4), clamped to [1, 32767]. The scale
// is not monotonic in q; the DC entry stays the most finely quantized
// position in every set.
var baseQuantRow8x8 = [64]int16{
	16, 17, 18, 21, 24, 29, 35, 43,
	17, 18, 20, 23, 27, 32, 39, 48,
	18, 20, 23, 27, 32, 38, 46, 56,
	21, 23, 27, 32, 38, 46, 55, 67,
	24, 27, 32, 38, 46, 55, 66, 81,
	29, 32, 38, 46, 55, 66, 79, 96,
	35, 39, 46, 55, 66, 79, 95, 116,
	43, 48, 56, 67, 81, 96, 116, 140,
}

// DefaultQuantizers synthesizes the 16 per-quantizerI dequantizer sets
// used by the plane decoder's Intra and Inter IDCT paths.
func DefaultQuantizers() *QuantizerSets {
	var sets QuantizerSets
	for q := 0; q < 16; q++ {
		shift := uint(q / 4)
		num := int16(1 + q%4)
		for pos := 0; pos < 64; pos++ {
			v := int32(baseQuantRow8x8[pos]) * int32(num)
			v >>= shift
			if v < 1 {
				v = 1
			}
			if v > 32767 {
				v = 32767
			}
			sets[q][pos] = int16(v)
		}
	}
	return &sets
}
