package coinselect

import "math/big"

// finalizeMaxOutput runs exactly once, after the Selection Loop
// converges (spec §4.5). It mutates maxOutput in place and returns a
// new, possibly-shrunk change list; the change slice passed in is left
// unchanged.
func finalizeMaxOutput(oracle Oracle, maxOutput *UserOutput, change []OutputCost) ([]OutputCost, *MaxOutputResult, error) {
	target := maxOutput.TargetUnit()

	if target == LovelaceUnit {
		return finalizeAdaMax(oracle, maxOutput, change)
	}
	return finalizeTokenMax(maxOutput, change, target)
}

func finalizeAdaMax(oracle Oracle, maxOutput *UserOutput, change []OutputCost) ([]OutputCost, *MaxOutputResult, error) {
	if len(change) == 0 {
		maxOutput.Amount = big.NewInt(0)
		return nil, &MaxOutputResult{Unit: LovelaceUnit, Quantity: big.NewInt(0)}, nil
	}

	// Only ever one change output reaches the finalizer without a split
	// (a SetMax request implies at most maxTokensPerOutput-1 tokens are
	// realistic to carry); operate on the first/only bundle.
	c := change[0]
	if len(c.Output.Assets) == 0 {
		drained := new(big.Int).Add(c.Output.Amount, c.OutputFee)
		maxOutput.Amount = new(big.Int).Add(maxOutput.amountOrZero(), drained)
		return nil, &MaxOutputResult{Unit: LovelaceUnit, Quantity: new(big.Int).Set(maxOutput.Amount)}, nil
	}

	minAda, err := oracle.MinAda(c.Output.Assets)
	if err != nil {
		return nil, nil, err
	}
	drained := new(big.Int).Sub(c.Output.Amount, minAda)
	maxOutput.Amount = new(big.Int).Add(maxOutput.amountOrZero(), drained)
	if maxOutput.Amount.Sign() < 0 {
		return nil, nil, ErrUTXOBalanceInsufficient
	}
	reshaped := OutputCost{Output: c.Output, OutputFee: c.OutputFee, MinOutputAmount: minAda}
	reshaped.Output.Amount = new(big.Int).Set(minAda)

	maxOutputMinAda, err := oracle.MinAda(maxOutput.Assets)
	if err != nil {
		return nil, nil, err
	}
	if maxOutput.Amount.Cmp(maxOutputMinAda) < 0 {
		return nil, nil, ErrUTXOBalanceInsufficient
	}
	return []OutputCost{reshaped}, &MaxOutputResult{Unit: LovelaceUnit, Quantity: new(big.Int).Set(maxOutput.Amount)}, nil
}

func finalizeTokenMax(maxOutput *UserOutput, change []OutputCost, unit string) ([]OutputCost, *MaxOutputResult, error) {
	moved := big.NewInt(0)
	newChange := make([]OutputCost, 0, len(change))
	for _, c := range change {
		remainingAssets := make([]Asset, 0, len(c.Output.Assets))
		for _, a := range c.Output.Assets {
			if a.Unit == unit {
				moved.Add(moved, a.Quantity)
				continue
			}
			remainingAssets = append(remainingAssets, a)
		}
		c.Output.Assets = remainingAssets
		newChange = append(newChange, c)
	}

	if len(maxOutput.Assets) == 0 {
		maxOutput.Assets = []Asset{{Unit: unit, Quantity: moved}}
	} else {
		maxOutput.Assets[0].Quantity = new(big.Int).Add(maxOutput.Assets[0].Quantity, moved)
	}
	return newChange, &MaxOutputResult{Unit: unit, Quantity: new(big.Int).Set(maxOutput.Assets[0].Quantity)}, nil
}

func (o *UserOutput) amountOrZero() *Quantity {
	if o.Amount == nil {
		return big.NewInt(0)
	}
	return o.Amount
}
