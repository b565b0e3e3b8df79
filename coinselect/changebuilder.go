package coinselect

import "math/big"

// OutputCost pairs a prepared change output with the marginal fee it
// contributes and the min-ada floor it must satisfy, per spec §4.3.
type OutputCost struct {
	Output          UserOutput
	OutputFee       *Quantity
	MinOutputAmount *Quantity
}

// pickExtraUTXOFunc draws one more UTXO to pull into the selection when
// leftover change is at least dustPullFloor but below the min-ada floor.
// It returns
// ok=false when no UTXO remains to pull.
type pickExtraUTXOFunc func() (UTXO, bool)

// buildChange implements the Change Builder (spec §4.3).
// netLovelaceBeforeChange is the running Σ inputs.lovelace plus
// withdrawals, minus deposits, Σ outputs.lovelace and totalFee, already
// folded together by the caller, so this function only has to reason
// about the change output's own fee and the token vector.
func buildChange(
	oracle Oracle,
	used []UTXO,
	outputs []UserOutput,
	netLovelaceBeforeChange *Quantity, // inputs + withdrawals − deposits − outputs − totalFee
	totalFee *Quantity,
	changeAddress string,
	opts Options,
	pickExtra pickExtraUTXOFunc,
) ([]OutputCost, error) {
	assets := changeAssets(used, outputs)

	if len(assets) >= int(opts.MaxTokensPerOutput) {
		return buildSplitChange(oracle, assets, netLovelaceBeforeChange, changeAddress, int(opts.MaxTokensPerOutput))
	}

	candidate := UserOutput{Address: &changeAddress, Assets: assets}
	minAda, err := oracle.MinAda(assets)
	if err != nil {
		return nil, err
	}
	outputFee, err := oracle.FeeForOutput(candidate)
	if err != nil {
		return nil, err
	}

	changeAda := new(big.Int).Sub(netLovelaceBeforeChange, outputFee)

	needed := len(assets) > 0 || changeAda.Cmp(minAda) >= 0
	if !needed {
		if pickExtra != nil && changeAda.Cmp(big.NewInt(dustPullFloor)) >= 0 {
			if extra, ok := pickExtra(); ok {
				extraFee, err := oracle.FeeForInput(extra)
				if err != nil {
					return nil, err
				}
				used = append(used, extra)
				nextNet := new(big.Int).Add(netLovelaceBeforeChange, extra.Lovelace())
				nextNet.Sub(nextNet, extraFee)
				return buildChange(oracle, used, outputs, nextNet, new(big.Int).Add(totalFee, extraFee), changeAddress, opts, pickExtra)
			}
		}
		// dust burn: leftover lovelace becomes additional fee.
		return nil, nil
	}

	if changeAda.Cmp(minAda) < 0 {
		changeAda = new(big.Int).Set(minAda)
	}
	candidate.Amount = changeAda

	return []OutputCost{{Output: candidate, OutputFee: outputFee, MinOutputAmount: minAda}}, nil
}

// buildSplitChange implements spec §4.3 step 3: chunk change_assets into
// ceil(n/cap) bundles, each with its own min_ada, giving all leftover
// lovelace to the last bundle.
func buildSplitChange(oracle Oracle, assets []Asset, totalLovelace *Quantity, changeAddress string, maxPerOutput int) ([]OutputCost, error) {
	chunks := chunkAssets(assets, maxPerOutput)

	costs := make([]OutputCost, 0, len(chunks))
	remaining := new(big.Int).Set(totalLovelace)

	for _, chunk := range chunks {
		minAda, err := oracle.MinAda(chunk)
		if err != nil {
			return nil, err
		}
		out := UserOutput{Address: &changeAddress, Assets: chunk, Amount: new(big.Int).Set(minAda)}
		fee, err := oracle.FeeForOutput(out)
		if err != nil {
			return nil, err
		}
		remaining.Sub(remaining, minAda)
		remaining.Sub(remaining, fee)
		costs = append(costs, OutputCost{Output: out, OutputFee: fee, MinOutputAmount: minAda})
	}

	// give all leftover lovelace to the last bundle.
	last := &costs[len(costs)-1]
	last.Output.Amount = new(big.Int).Add(last.Output.Amount, remaining)
	if last.Output.Amount.Cmp(last.MinOutputAmount) < 0 {
		last.Output.Amount = new(big.Int).Set(last.MinOutputAmount)
	}

	return costs, nil
}

func chunkAssets(assets []Asset, maxPerOutput int) [][]Asset {
	if maxPerOutput <= 0 {
		maxPerOutput = defaultMaxTokensPerOutput
	}
	chunks := [][]Asset{}
	for i := 0; i < len(assets); i += maxPerOutput {
		end := i + maxPerOutput
		if end > len(assets) {
			end = len(assets)
		}
		chunks = append(chunks, assets[i:end])
	}
	return chunks
}
