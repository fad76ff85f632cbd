package plane

import "github.com/binkcore/bink1/internal/bitio"

// decodeResidue implements the residue block subdivision state machine from
// spec.md section 4.4.1. It returns a 64-entry decode-order buffer; callers
// index it through zScan to recover raster order.
//
// bitCount is read as 3 bits and used as bitCount+1, so the initial mask
// 1<<(bitCount-1) is always defined; this follows the same "n-1 plane"
// shape the coefficient decoder uses explicitly with its 4-bit maxBitCount.
func decodeResidue(r *bitio.Reader) ([64]int8, error) {
	var residue [64]int8

	maskCountVal, err := r.Read(7)
	if err != nil {
		return residue, err
	}
	maskCount := int(maskCountVal)

	bitCountVal, err := r.Read(3)
	if err != nil {
		return residue, err
	}
	bitCount := int(bitCountVal) + 1

	var discovered []int
	q := newOpQueue()
	q.push(op{4, 0})
	q.push(op{24, 0})
	q.push(op{44, 0})
	q.push(op{0, 2})

	emit := func(idx int, mask int8) error {
		sign, err := r.Read(1)
		if err != nil {
			return err
		}
		v := mask
		if sign != 0 {
			v = -mask
		}
		residue[idx] = v
		discovered = append(discovered, idx)
		maskCount--
		return nil
	}

	for bitCount > 0 {
		mask := int8(1) << uint(bitCount-1)

		for _, idx := range discovered {
			bit, err := r.Read(1)
			if err != nil {
				return residue, err
			}
			if bit != 0 {
				sign := int8(1)
				if residue[idx] < 0 {
					sign = -1
				}
				residue[idx] += sign * mask
				maskCount--
				if maskCount == 0 {
					return residue, nil
				}
			}
		}

		for !q.empty() {
			o := q.pop()
			gate, err := r.Read(1)
			if err != nil {
				return residue, err
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
						return residue, err
					}
					if sub != 0 {
						q.pushHead(op{o.index + k, 3})
						continue
					}
					if err := emit(o.index+k, mask); err != nil {
						return residue, err
					}
					if maskCount == 0 {
						return residue, nil
					}
				}
			case 1:
				q.push(op{o.index + 4, 2})
				q.push(op{o.index + 8, 2})
				q.push(op{o.index + 12, 2})
			case 2:
				for k := 0; k < 4; k++ {
					sub, err := r.Read(1)
					if err != nil {
						return residue, err
					}
					if sub != 0 {
						q.pushHead(op{o.index + k, 3})
						continue
					}
					if err := emit(o.index+k, mask); err != nil {
						return residue, err
					}
					if maskCount == 0 {
						return residue, nil
					}
				}
			case 3:
				if err := emit(o.index, mask); err != nil {
					return residue, err
				}
				if maskCount == 0 {
					return residue, nil
				}
			}
		}

		bitCount--
	}
	return residue, nil
}
