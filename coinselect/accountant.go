package coinselect

import "math/big"

// sumInputs sums the quantity of unit across a set of UTXOs.
func sumInputs(utxos []UTXO, unit string) *Quantity {
	total := big.NewInt(0)
	for _, u := range utxos {
		total.Add(total, findAsset(u.Amount, unit))
	}
	return total
}

// sumOutputs sums the quantity of unit across a set of outputs.
func sumOutputs(outputs []UserOutput, unit string) *Quantity {
	total := big.NewInt(0)
	for _, o := range outputs {
		if unit == LovelaceUnit {
			if o.Amount != nil {
				total.Add(total, o.Amount)
			}
			continue
		}
		total.Add(total, findAsset(o.Assets, unit))
	}
	return total
}

// uniqueAssetUnits returns the non-lovelace asset units carried by utxos,
// in first-seen order.
func uniqueAssetUnits(utxos []UTXO) []string {
	seen := make(map[string]bool)
	units := []string{}
	for _, u := range utxos {
		for _, a := range u.Amount {
			if a.Unit == LovelaceUnit || seen[a.Unit] {
				continue
			}
			seen[a.Unit] = true
			units = append(units, a.Unit)
		}
	}
	return units
}

// requiredDeposit computes the net ledger deposit (positive) or refund
// (negative) implied by a certificate set, spec §3/§4.2, using opts'
// configured key/pool deposit amounts (spec §6.2).
func requiredDeposit(certs []Certificate, opts Options) (*big.Int, error) {
	net := big.NewInt(0)
	for _, c := range certs {
		switch c.Type {
		case CertStakeRegistration:
			net.Add(net, opts.KeyDeposit)
		case CertStakeDeregistration:
			net.Sub(net, opts.KeyDeposit)
		case CertStakeDelegation:
			// deposit 0
		case CertStakePoolRegistration:
			net.Add(net, opts.PoolDeposit)
		default:
			return nil, ErrUnsupportedCertType
		}
	}
	return net, nil
}

// changeAssets builds the change-asset vector of spec §4.3 step 1:
// Σ inputs[u] − Σ outputs[u] for every non-lovelace unit carried by the
// inputs, with zero entries dropped.
func changeAssets(used []UTXO, outputs []UserOutput) []Asset {
	result := []Asset{}
	for _, unit := range uniqueAssetUnits(used) {
		diff := new(big.Int).Sub(sumInputs(used, unit), sumOutputs(outputs, unit))
		if diff.Sign() != 0 {
			result = append(result, Asset{Unit: unit, Quantity: diff})
		}
	}
	return result
}
