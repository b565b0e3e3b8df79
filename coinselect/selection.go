package coinselect

import (
	"math/big"
	"sort"

	"github.com/cardano-tx/coinselect/internal/log"
)

// selectionState tracks the monotone used/remaining UTXO partition
// across iterations of the Selection Loop (spec §4.4).
type selectionState struct {
	used      []UTXO
	remaining []UTXO
	applied   map[string]bool
}

// runSelection executes the Selection Loop until inputs, outputs, and
// change all balance, or fails with ErrUTXOBalanceInsufficient. It
// returns the converged change outputs (nil when the dust-burn case
// applies) and the final total fee.
func runSelection(
	oracle Oracle,
	utxos []UTXO,
	userOutputs []UserOutput,
	certs []Certificate,
	withdrawals []Withdrawal,
	changeAddress string,
	maxOutputIdx int, // -1 if no SetMax output in the request
	opts Options,
) ([]OutputCost, *Quantity, []UTXO, error) {
	state := initSelectionState(utxos, userOutputs, maxOutputIdx)

	deposit, err := requiredDeposit(certs, opts)
	if err != nil {
		return nil, nil, nil, err
	}

	var changeOutputs []OutputCost

	for {
		if err := applyUsedInputs(oracle, &state); err != nil {
			return nil, nil, nil, err
		}

		totalUserFee := big.NewInt(0)
		for _, o := range userOutputs {
			fee, err := oracle.FeeForOutput(o)
			if err != nil {
				return nil, nil, nil, err
			}
			totalUserFee.Add(totalUserFee, fee)
		}

		minFee, err := oracle.MinFee()
		if err != nil {
			return nil, nil, nil, err
		}
		totalFee := new(big.Int).Add(minFee, totalUserFee)

		netBeforeChange := netLovelaceBeforeChange(state.used, userOutputs, withdrawals, deposit, totalFee)

		pickExtra := makePickExtra(&state)
		changeOutputs, err = buildChange(oracle, state.used, userOutputs, netBeforeChange, totalFee, changeAddress, opts, pickExtra)
		if err != nil {
			return nil, nil, nil, err
		}
		// buildChange may have pulled an extra UTXO into state.used; the
		// change it sized counts that input, so add it to the builder.
		if err := applyUsedInputs(oracle, &state); err != nil {
			return nil, nil, nil, err
		}
		for _, c := range changeOutputs {
			if err := oracle.AddOutput(c.Output); err != nil {
				return nil, nil, nil, err
			}
		}

		totalFee, err = oracle.MinFee()
		if err != nil {
			return nil, nil, nil, err
		}

		allOutputs := append(append([]UserOutput{}, userOutputs...), changeOutputsAsUserOutputs(changeOutputs)...)
		unsatisfied := satisfactionDeficits(state.used, allOutputs, withdrawals, deposit, totalFee)
		// A transaction needs at least one input, even when withdrawals or
		// a deposit refund alone would cover the outputs and fee.
		if len(unsatisfied) == 0 && len(state.used) == 0 {
			unsatisfied = []string{LovelaceUnit}
		}

		if len(unsatisfied) == 0 {
			log.Debug("selection converged", "used", len(state.used), "remaining", len(state.remaining), "fee", totalFee.String())
			return changeOutputs, totalFee, state.used, nil
		}

		next, ok := pickForDeficit(&state, unsatisfied)
		if !ok {
			log.Warn("selection exhausted remaining utxos", "unsatisfied", unsatisfied)
			return nil, nil, nil, ErrUTXOBalanceInsufficient
		}
		log.Trace("selection pulls utxo", "unit", next, "remaining_before", len(state.remaining))
	}
}

// initSelectionState seeds `used` with every UTXO containing the
// max-target asset when a SetMax output is present (ADA max pulls every
// UTXO), then sorts `remaining` descending by the max-target asset
// (ties broken by descending lovelace), spec §4.4 "Initialization".
func initSelectionState(utxos []UTXO, userOutputs []UserOutput, maxOutputIdx int) selectionState {
	if maxOutputIdx < 0 {
		remaining := append([]UTXO{}, utxos...)
		sortRemaining(remaining, LovelaceUnit)
		return selectionState{used: nil, remaining: remaining}
	}

	target := userOutputs[maxOutputIdx].TargetUnit()
	if target == LovelaceUnit {
		used := append([]UTXO{}, utxos...)
		sortRemaining(used, target)
		return selectionState{used: used, remaining: nil}
	}

	var used, remaining []UTXO
	for _, u := range utxos {
		if findAsset(u.Amount, target).Sign() > 0 {
			used = append(used, u)
		} else {
			remaining = append(remaining, u)
		}
	}
	sortRemaining(remaining, target)
	return selectionState{used: used, remaining: remaining}
}

// sortRemaining sorts descending by the given unit's quantity, ties
// broken by descending lovelace, stable on further ties (spec §4.4).
func sortRemaining(utxos []UTXO, unit string) {
	sort.SliceStable(utxos, func(i, j int) bool {
		qi, qj := findAsset(utxos[i].Amount, unit), findAsset(utxos[j].Amount, unit)
		if c := qi.Cmp(qj); c != 0 {
			return c > 0
		}
		return utxos[i].Lovelace().Cmp(utxos[j].Lovelace()) > 0
	})
}

// applyUsedInputs adds every UTXO in state.used to the oracle's builder
// that has not already been added (inputs are added only forward,
// spec §4.4 step 1).
func applyUsedInputs(oracle Oracle, state *selectionState) error {
	for _, u := range state.used {
		if state.applied == nil {
			state.applied = make(map[string]bool)
		}
		if state.applied[u.Key()] {
			continue
		}
		if err := oracle.AddInput(u); err != nil {
			return err
		}
		state.applied[u.Key()] = true
	}
	return nil
}

func netLovelaceBeforeChange(used []UTXO, outputs []UserOutput, withdrawals []Withdrawal, deposit *big.Int, totalFee *Quantity) *Quantity {
	net := sumInputs(used, LovelaceUnit)
	for _, w := range withdrawals {
		net.Add(net, w.Amount)
	}
	net.Sub(net, deposit)
	net.Sub(net, sumOutputs(outputs, LovelaceUnit))
	net.Sub(net, totalFee)
	return net
}

// satisfactionDeficits implements spec §4.4 step 7: the set of asset
// units (including, by convention, LovelaceUnit) whose inputs fall
// short of what all outputs plus fee/deposit require.
func satisfactionDeficits(used []UTXO, allOutputs []UserOutput, withdrawals []Withdrawal, deposit *big.Int, totalFee *Quantity) []string {
	deficits := []string{}

	lovelaceIn := sumInputs(used, LovelaceUnit)
	for _, w := range withdrawals {
		lovelaceIn.Add(lovelaceIn, w.Amount)
	}
	lovelaceIn.Sub(lovelaceIn, deposit)
	lovelaceNeeded := new(big.Int).Add(sumOutputs(allOutputs, LovelaceUnit), totalFee)
	if lovelaceIn.Cmp(lovelaceNeeded) < 0 {
		deficits = append(deficits, LovelaceUnit)
	}

	units := uniqueAssetUnits(used)
	for _, o := range allOutputs {
		for _, a := range o.Assets {
			if !containsStr(units, a.Unit) {
				units = append(units, a.Unit)
			}
		}
	}
	for _, unit := range units {
		if sumInputs(used, unit).Cmp(sumOutputs(allOutputs, unit)) < 0 {
			deficits = append(deficits, unit)
		}
	}
	return deficits
}

// pickForDeficit moves one UTXO from remaining to used that carries an
// unsatisfied asset, preferring lovelace (spec §4.4 step 9). It reports
// ok=false when no eligible UTXO remains.
func pickForDeficit(state *selectionState, unsatisfied []string) (string, bool) {
	ordered := unsatisfied
	if containsStr(unsatisfied, LovelaceUnit) {
		ordered = append([]string{LovelaceUnit}, removeStr(unsatisfied, LovelaceUnit)...)
	}
	for _, unit := range ordered {
		for i, u := range state.remaining {
			if findAsset(u.Amount, unit).Sign() > 0 {
				state.used = append(state.used, u)
				state.remaining = append(state.remaining[:i:i], state.remaining[i+1:]...)
				return unit, true
			}
		}
	}
	return "", false
}

// makePickExtra adapts selectionState into the Change Builder's
// pick_extra_utxo hook (spec §4.3 step 5): it pulls the next highest
// lovelace UTXO from remaining, deterministically (the first one on a
// tie). runSelection always uses this chooser; the package has no hook
// for a caller-supplied one.
func makePickExtra(state *selectionState) pickExtraUTXOFunc {
	return func() (UTXO, bool) {
		if len(state.remaining) == 0 {
			return UTXO{}, false
		}
		best := 0
		for i := 1; i < len(state.remaining); i++ {
			if state.remaining[i].Lovelace().Cmp(state.remaining[best].Lovelace()) > 0 {
				best = i
			}
		}
		u := state.remaining[best]
		state.used = append(state.used, u)
		state.remaining = append(state.remaining[:best:best], state.remaining[best+1:]...)
		return u, true
	}
}

func changeOutputsAsUserOutputs(costs []OutputCost) []UserOutput {
	out := make([]UserOutput, 0, len(costs))
	for _, c := range costs {
		out = append(out, c.Output)
	}
	return out
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeStr(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
