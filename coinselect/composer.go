package coinselect

import "math/big"

// Request bundles everything the Composer needs (spec §4.6).
type Request struct {
	UTXOs         []UTXO
	Outputs       []UserOutput
	ChangeAddress string
	Certificates  []Certificate
	Withdrawals   []Withdrawal
	AccountPubKey string // opaque; used only to derive the staking credential for Certificates
	TTL           *uint64
	Options       Options
}

// isPrecompose reports whether any output is missing an address, an
// amount (non-setMax), or a token quantity — spec §4.7.
func (r *Request) isPrecompose() bool {
	for _, o := range r.Outputs {
		if o.Address == nil {
			return true
		}
		if !o.SetMax && o.Amount == nil {
			return true
		}
		for _, a := range o.Assets {
			if a.Quantity == nil {
				return true
			}
		}
	}
	return false
}

// Compose is the Composer entry point (spec §4.6). oracle is expected
// to be freshly constructed for this call and is released on every exit
// path.
func Compose(oracle Oracle, req Request) (*Summary, error) {
	defer oracle.Release()

	opts := req.Options.withDefaults()
	oracle.SetFeeParams(opts.FeeParams.A, opts.FeeParams.B)
	precompose := req.isPrecompose()

	if err := fillPrecomposePlaceholders(oracle, req.Outputs); err != nil {
		return nil, err
	}

	maxIdx, err := normalizeOutputs(oracle, req.Outputs)
	if err != nil {
		return nil, err
	}

	var stakeCredential string
	if len(req.Certificates) > 0 {
		stakeCredential, err = oracle.DeriveStakeCredential(req.AccountPubKey)
		if err != nil {
			return nil, err
		}
	}
	for _, c := range req.Certificates {
		if err := oracle.AddCertificate(c, stakeCredential); err != nil {
			return nil, err
		}
	}
	for _, w := range req.Withdrawals {
		if err := oracle.AddWithdrawal(w); err != nil {
			return nil, err
		}
	}
	for _, o := range req.Outputs {
		if err := oracle.AddOutput(o); err != nil {
			return nil, err
		}
	}
	if req.TTL != nil {
		oracle.SetTTL(*req.TTL)
	}

	change, fee, _, err := runSelection(oracle, req.UTXOs, req.Outputs, req.Certificates, req.Withdrawals, req.ChangeAddress, maxIdx, opts)
	if err != nil {
		return nil, err
	}

	var maxResult *MaxOutputResult
	if maxIdx >= 0 {
		change, maxResult, err = finalizeMaxOutput(oracle, &req.Outputs[maxIdx], change)
		if err != nil {
			return nil, err
		}
		fee, err = oracle.MinFee()
		if err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		Outputs:    req.Outputs,
		Fee:        fee,
		TTL:        req.TTL,
		Max:        maxResult,
	}
	summary.TotalSpent = computeTotalSpent(req.Outputs, fee, change, maxResult)

	if precompose {
		return summary, nil
	}

	for _, c := range change {
		if err := oracle.AddOutput(c.Output); err != nil {
			return nil, err
		}
	}

	tx, err := oracle.Serialize()
	if err != nil {
		return nil, err
	}
	summary.Tx = tx
	summary.Inputs = oracle.Inputs()

	return summary, nil
}

// fillPrecomposePlaceholders substitutes placeholders for absent fields
// so size/fee math has something concrete to work with (spec §4.7):
// a fixed dummy address of the same byte length, a missing token
// quantity under study treated as zero, and a missing top-level amount
// (non-setMax) treated as that output's minOutputAmount.
func fillPrecomposePlaceholders(oracle Oracle, outputs []UserOutput) error {
	for i := range outputs {
		o := &outputs[i]
		if o.Address == nil {
			placeholder := oracle.PlaceholderAddress()
			o.Address = &placeholder
		}
		for j := range o.Assets {
			if o.Assets[j].Quantity == nil {
				o.Assets[j].Quantity = big.NewInt(0)
			}
		}
		if !o.SetMax && o.Amount == nil {
			minOutputAmount, err := oracle.MinAda(o.Assets)
			if err != nil {
				return err
			}
			o.Amount = minOutputAmount
		}
	}
	return nil
}

func computeTotalSpent(outputs []UserOutput, fee *Quantity, change []OutputCost, max *MaxOutputResult) *Quantity {
	if max != nil && max.Unit == LovelaceUnit {
		total := new(big.Int).Add(max.Quantity, fee)
		for _, c := range change {
			total.Add(total, c.Output.amountOrZero())
		}
		return total
	}
	total := new(big.Int).Add(sumOutputs(outputs, LovelaceUnit), fee)
	return total
}
