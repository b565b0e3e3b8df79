package coinselect

import (
	"math/big"
	"testing"
)

func TestFinalizeAdaMaxAbsorbsChangeWithoutTokens(t *testing.T) {
	oracle := newFakeOracle()
	maxAddr := "addr_max"
	maxOutput := &UserOutput{Address: &maxAddr, SetMax: true, Amount: big.NewInt(0)}
	changeAddr := "addr_change"
	change := []OutputCost{
		{Output: UserOutput{Address: &changeAddr, Amount: big.NewInt(3_000_000)}, OutputFee: big.NewInt(180_000)},
	}

	newChange, result, err := finalizeMaxOutput(oracle, maxOutput, change)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(newChange) != 0 {
		t.Fatalf("expected change fully absorbed, got %d outputs", len(newChange))
	}
	if result.Quantity.Cmp(big.NewInt(3_180_000)) != 0 {
		t.Fatalf("expected max output amount 3180000, got %s", result.Quantity)
	}
}

func TestFinalizeAdaMaxReshapesChangeWithTokens(t *testing.T) {
	oracle := newFakeOracle()
	unit := "policy1234567890123456789012345678901234567890123456789012.tok"
	maxAddr := "addr_max"
	maxOutput := &UserOutput{Address: &maxAddr, SetMax: true, Amount: big.NewInt(0)}
	changeAddr := "addr_change"
	minAda, _ := oracle.MinAda([]Asset{asset(unit, 10)})
	changeAmount := new(big.Int).Add(minAda, big.NewInt(5_000_000))
	change := []OutputCost{
		{
			Output:          UserOutput{Address: &changeAddr, Amount: changeAmount, Assets: []Asset{asset(unit, 10)}},
			OutputFee:       big.NewInt(180_000),
			MinOutputAmount: minAda,
		},
	}

	newChange, result, err := finalizeMaxOutput(oracle, maxOutput, change)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(newChange) != 1 {
		t.Fatalf("expected one reshaped change output, got %d", len(newChange))
	}
	if newChange[0].Output.Amount.Cmp(minAda) != 0 {
		t.Fatalf("expected change reshaped to min-ada %s, got %s", minAda, newChange[0].Output.Amount)
	}
	if result.Quantity.Cmp(big.NewInt(5_000_000)) != 0 {
		t.Fatalf("expected max output drained amount 5000000, got %s", result.Quantity)
	}
}

func TestFinalizeTokenMaxMovesEntireQuantity(t *testing.T) {
	unit := "policy1234567890123456789012345678901234567890123456789012.tok"
	maxAddr := "addr_max"
	maxOutput := &UserOutput{Address: &maxAddr, SetMax: true, Assets: []Asset{asset(unit, 0)}}
	changeAddr := "addr_change"
	change := []OutputCost{
		{Output: UserOutput{Address: &changeAddr, Amount: big.NewInt(2_000_000), Assets: []Asset{asset(unit, 42)}}},
	}

	newChange, result, err := finalizeMaxOutput(nil, maxOutput, change)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Quantity.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("expected max output to carry 42 tokens, got %s", result.Quantity)
	}
	if len(newChange[0].Output.Assets) != 0 {
		t.Fatalf("expected token stripped from change, got %v", newChange[0].Output.Assets)
	}
}
