package coinselect

import "math/big"

// normalizeOutputs implements the Output Normalizer (spec §4.1). It
// returns the index of the single SetMax output, or -1 if none, and
// fails with errMultipleSetMax if more than one output requests it.
func normalizeOutputs(oracle Oracle, outputs []UserOutput) (int, error) {
	maxIdx := -1
	for i := range outputs {
		o := &outputs[i]
		if o.SetMax {
			if maxIdx != -1 {
				return -1, errMultipleSetMax
			}
			maxIdx = i
		}

		minOutputAmount, err := oracle.MinAda(o.Assets)
		if err != nil {
			return -1, err
		}

		if len(o.Assets) > 0 && (o.Amount == nil || o.Amount.Cmp(minOutputAmount) < 0) {
			o.Amount = new(big.Int).Set(minOutputAmount)
		}

		if o.SetMax {
			if len(o.Assets) > 0 {
				o.Assets[0].Quantity = big.NewInt(0)
			} else {
				o.Amount = big.NewInt(0)
			}
			continue
		}

		if len(o.Assets) == 0 && o.Amount != nil && o.Amount.Cmp(minOutputAmount) < 0 {
			return -1, ErrUTXOValueTooSmall
		}

		if o.Address == nil {
			placeholder := oracle.PlaceholderAddress()
			o.Address = &placeholder
		}
	}
	return maxIdx, nil
}
