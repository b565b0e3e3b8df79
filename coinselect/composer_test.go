package coinselect

import (
	"math/big"
	"testing"
)

func TestComposeSimplePayment(t *testing.T) {
	oracle := newFakeOracle()
	utxos := []UTXO{utxo(hashN(1), 0, 10_000_000)}
	addr := "addr_recipient"
	req := Request{
		UTXOs:         utxos,
		Outputs:       []UserOutput{{Address: &addr, Amount: big.NewInt(3_000_000)}},
		ChangeAddress: "addr_change",
	}

	summary, err := Compose(oracle, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Tx == nil {
		t.Fatalf("expected a serialized tx in non-precompose mode")
	}
	if summary.Fee.Sign() <= 0 {
		t.Fatalf("expected positive fee, got %s", summary.Fee)
	}
	if len(summary.Inputs) == 0 {
		t.Fatalf("expected at least one input in the summary")
	}
}

func TestComposePrecomposeModeSkipsSerialization(t *testing.T) {
	oracle := newFakeOracle()
	utxos := []UTXO{utxo(hashN(1), 0, 10_000_000)}
	req := Request{
		UTXOs:         utxos,
		Outputs:       []UserOutput{{Amount: big.NewInt(3_000_000)}}, // address absent -> precompose
		ChangeAddress: "addr_change",
	}

	summary, err := Compose(oracle, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Tx != nil {
		t.Fatalf("expected no serialized tx in precompose mode")
	}
}

func TestComposeSetMaxAdaDrainsEverything(t *testing.T) {
	oracle := newFakeOracle()
	utxos := []UTXO{utxo(hashN(1), 0, 10_000_000)}
	addr := "addr_recipient"
	req := Request{
		UTXOs:         utxos,
		Outputs:       []UserOutput{{Address: &addr, SetMax: true}},
		ChangeAddress: "addr_change",
	}

	summary, err := Compose(oracle, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Max == nil || summary.Max.Unit != LovelaceUnit {
		t.Fatalf("expected a lovelace max result, got %v", summary.Max)
	}
	if summary.Max.Quantity.Sign() <= 0 {
		t.Fatalf("expected positive drained amount, got %s", summary.Max.Quantity)
	}
}

func TestComposeDerivesStakeCredentialForCertificates(t *testing.T) {
	oracle := newFakeOracle()
	utxos := []UTXO{utxo(hashN(1), 0, 10_000_000)}
	addr := "addr_recipient"
	req := Request{
		UTXOs:         utxos,
		Outputs:       []UserOutput{{Address: &addr, Amount: big.NewInt(3_000_000)}},
		ChangeAddress: "addr_change",
		Certificates:  []Certificate{{Type: CertStakeRegistration}},
		AccountPubKey: "deadbeef",
	}

	if _, err := Compose(oracle, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(oracle.stakeCredentials) != 1 || oracle.stakeCredentials[0] != "stakecred_deadbeef" {
		t.Fatalf("expected stake credential derived from AccountPubKey, got %v", oracle.stakeCredentials)
	}
}

func TestComposePrecomposeFillsMissingTopLevelAmount(t *testing.T) {
	oracle := newFakeOracle()
	utxos := []UTXO{utxo(hashN(1), 0, 10_000_000)}
	addr := "addr_recipient"
	req := Request{
		UTXOs:         utxos,
		Outputs:       []UserOutput{{Address: &addr}}, // address present, amount absent -> precompose
		ChangeAddress: "addr_change",
	}

	summary, err := Compose(oracle, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Tx != nil {
		t.Fatalf("expected no serialized tx in precompose mode")
	}
	if summary.Outputs[0].Amount == nil || summary.Outputs[0].Amount.Sign() <= 0 {
		t.Fatalf("expected missing amount to be backfilled with minOutputAmount, got %v", summary.Outputs[0].Amount)
	}
}

func TestComposeRejectsUnsupportedCertificate(t *testing.T) {
	oracle := newFakeOracle()
	utxos := []UTXO{utxo(hashN(1), 0, 10_000_000)}
	addr := "addr_recipient"
	req := Request{
		UTXOs:         utxos,
		Outputs:       []UserOutput{{Address: &addr, Amount: big.NewInt(3_000_000)}},
		ChangeAddress: "addr_change",
		Certificates:  []Certificate{{Type: CertificateType(99)}},
	}

	_, err := Compose(oracle, req)
	if err != ErrUnsupportedCertType {
		t.Fatalf("expected ErrUnsupportedCertType, got %v", err)
	}
}
