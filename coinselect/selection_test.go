package coinselect

import (
	"testing"
)

func TestRunSelectionCoversTwoUTXOs(t *testing.T) {
	oracle := newFakeOracle()
	utxos := []UTXO{
		utxo(hashN(1), 0, 1_500_000),
		utxo(hashN(2), 0, 1_500_000),
	}
	addr := "addr_out"
	outputs := []UserOutput{lovelaceOut(addr, 2_500_000)}

	_, fee, used, err := runSelection(oracle, utxos, outputs, nil, nil, "addr_change", -1, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(used) < 2 {
		t.Fatalf("expected both utxos to be used, got %d", len(used))
	}
	if fee.Sign() <= 0 {
		t.Fatalf("expected positive fee, got %s", fee)
	}
}

func TestRunSelectionPrefersTokenCarryingUTXO(t *testing.T) {
	oracle := newFakeOracle()
	unit := "policy1234567890123456789012345678901234567890123456789012.tok"
	utxos := []UTXO{
		utxo(hashN(1), 0, 5_000_000, asset(unit, 100)),
		utxo(hashN(2), 0, 5_000_000),
	}
	addr := "addr_out"
	outputs := []UserOutput{
		{Address: &addr, Amount: nil, Assets: []Asset{asset(unit, 50)}},
	}
	if _, err := normalizeOutputs(oracle, outputs); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	_, _, used, err := runSelection(oracle, utxos, outputs, nil, nil, "addr_change", -1, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	foundTokenUTXO := false
	for _, u := range used {
		if u.TxHash == hashN(1) {
			foundTokenUTXO = true
		}
	}
	if !foundTokenUTXO {
		t.Fatalf("expected the token-carrying utxo to be selected")
	}
}

func TestRunSelectionFailsOnInsufficientBalance(t *testing.T) {
	oracle := newFakeOracle()
	utxos := []UTXO{utxo(hashN(1), 0, 1_000_000)}
	addr := "addr_out"
	outputs := []UserOutput{lovelaceOut(addr, 10_000_000)}

	_, _, _, err := runSelection(oracle, utxos, outputs, nil, nil, "addr_change", -1, DefaultOptions())
	if err != ErrUTXOBalanceInsufficient {
		t.Fatalf("expected ErrUTXOBalanceInsufficient, got %v", err)
	}
}

func TestRunSelectionHandlesWithdrawalOnly(t *testing.T) {
	oracle := newFakeOracle()
	utxos := []UTXO{utxo(hashN(1), 0, 500_000)}
	addr := "addr_out"
	outputs := []UserOutput{lovelaceOut(addr, 400_000)}
	withdrawals := []Withdrawal{{StakeAddress: "stake_addr", Amount: bigInt(3_000_000)}}

	_, fee, _, err := runSelection(oracle, utxos, outputs, nil, withdrawals, "addr_change", -1, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee.Sign() <= 0 {
		t.Fatalf("expected positive fee, got %s", fee)
	}
}

func TestRunSelectionHandlesStakeDeregistrationRefund(t *testing.T) {
	oracle := newFakeOracle()
	utxos := []UTXO{utxo(hashN(1), 0, 500_000)}
	addr := "addr_out"
	outputs := []UserOutput{lovelaceOut(addr, 400_000)}
	certs := []Certificate{{Type: CertStakeDeregistration}}

	_, _, used, err := runSelection(oracle, utxos, outputs, certs, nil, "addr_change", -1, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(used) == 0 {
		t.Fatalf("expected at least the seed utxo to be used")
	}
}
