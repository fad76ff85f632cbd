package plane

import "github.com/binkcore/bink1/internal/bitio"

// readCoeff implements the "read coefficient" rule from spec.md 4.4.2: the
// magnitude is 1 at the final bit plane, otherwise the current mask bit
// combined with bitCount freshly-read low bits, then negated on a sign bit.
func readCoeff(r *bitio.Reader, bitCount int, mask int16) (int16, error) {
	var magnitude int16
	if bitCount == 0 {
		magnitude = 1
	} else {
		extra, err := r.Read(bitCount)
		if err != nil {
			return 0, err
		}
		magnitude = mask | int16(extra)
	}
	sign, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	if sign != 0 {
		return -magnitude, nil
	}
	return magnitude, nil
}

// decodeCoeffs implements the DCT coefficient block subdivision state
// machine from spec.md section 4.4.2. dc is the already-decoded DC term;
// the returned array is in decode order (index through zScan for raster
// order) and ready for dequantization by dsp.IDCT8x8.
func decodeCoeffs(r *bitio.Reader, dc int16) ([64]int16, error) {
	var coeffs [64]int16
	coeffs[0] = dc

	maxBitCountVal, err := r.Read(4)
	if err != nil {
		return coeffs, err
	}
	maxBitCount := int(maxBitCountVal)

	q := newOpQueue()
	q.push(op{4, 0})
	q.push(op{24, 0})
	q.push(op{44, 0})
	q.push(op{1, 3})
	q.push(op{2, 3})
	q.push(op{3, 3})

	for bitCount := maxBitCount - 1; bitCount >= 0; bitCount-- {
		mask := int16(1) << uint(bitCount)

		for !q.empty() {
			o := q.pop()
			gate, err := r.Read(1)
			if err != nil {
				return coeffs, err
			}
			if gate == 0 {
				continue
			}
			switch o.mode {
			case 0:
				q.push(op{o.index + 4, 1})
				for k := 0; k < 4; k++ {
					sub, err := r.Read(1)
					if err != nil {
						return coeffs, err
					}
					if sub != 0 {
						q.pushHead(op{o.index + k, 3})
						continue
					}
					v, err := readCoeff(r, bitCount, mask)
					if err != nil {
						return coeffs, err
					}
					coeffs[o.index+k] = v
				}
			case 1:
				q.push(op{o.index + 4, 2})
				q.push(op{o.index + 8, 2})
				q.push(op{o.index + 12, 2})
			case 2:
				for k := 0; k < 4; k++ {
					sub, err := r.Read(1)
					if err != nil {
						return coeffs, err
					}
					if sub != 0 {
						q.pushHead(op{o.index + k, 3})
						continue
					}
					v, err := readCoeff(r, bitCount, mask)
					if err != nil {
						return coeffs, err
					}
					coeffs[o.index+k] = v
				}
			case 3:
				v, err := readCoeff(r, bitCount, mask)
				if err != nil {
					return coeffs, err
				}
				coeffs[o.index] = v
			}
		}
	}
	return coeffs, nil
}
