package coinselect

import (
	"math/big"
	"strconv"
)

// fakeOracle is a minimal in-memory Oracle used by this package's own
// tests, standing in for a real ledger SDK the way a hand-rolled stub
// RPC client stands in for a node connection elsewhere in the pack.
type fakeOracle struct {
	coinsPerUTXOByte *big.Int
	feeA             *big.Int
	feeB             *big.Int
	maxTxSize        int

	inputs           []UTXO
	outputs          []UserOutput
	certs            []Certificate
	stakeCredentials []string
	wdrls            []Withdrawal
	ttl              *uint64
	placeholderAddr  string
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		coinsPerUTXOByte: big.NewInt(4310),
		feeA:             big.NewInt(44),
		feeB:             big.NewInt(155381),
		maxTxSize:        16384,
		placeholderAddr:  "addr_placeholder",
	}
}

func (f *fakeOracle) MinAda(assets []Asset) (*Quantity, error) {
	size := int64(27 + 2)
	if len(assets) > 0 {
		size = 27 + 2 + int64(len(assets))*20
	}
	return new(big.Int).Mul(big.NewInt(size), f.coinsPerUTXOByte), nil
}

func (f *fakeOracle) AddInput(u UTXO) error {
	f.inputs = append(f.inputs, u)
	return nil
}

func (f *fakeOracle) AddOutput(o UserOutput) error {
	f.outputs = append(f.outputs, o)
	return nil
}

func (f *fakeOracle) FeeForInput(u UTXO) (*Quantity, error) {
	return new(big.Int).Mul(f.feeA, big.NewInt(41)), nil
}

func (f *fakeOracle) FeeForOutput(o UserOutput) (*Quantity, error) {
	size := int64(27)
	if len(o.Assets) > 0 {
		size += int64(len(o.Assets)) * 20
	} else {
		size += 2
	}
	return new(big.Int).Mul(f.feeA, big.NewInt(size)), nil
}

func (f *fakeOracle) MinFee() (*Quantity, error) {
	size := int64(150 + len(f.inputs)*41 + len(f.outputs)*30)
	fee := new(big.Int).Mul(f.feeA, big.NewInt(size))
	return fee.Add(fee, f.feeB), nil
}

func (f *fakeOracle) SetFeeParams(a, b *Quantity) {
	if a != nil {
		f.feeA = a
	}
	if b != nil {
		f.feeB = b
	}
}

func (f *fakeOracle) AddWithdrawal(w Withdrawal) error {
	f.wdrls = append(f.wdrls, w)
	return nil
}

func (f *fakeOracle) AddCertificate(c Certificate, stakeCredential string) error {
	switch c.Type {
	case CertStakeRegistration, CertStakeDeregistration, CertStakeDelegation, CertStakePoolRegistration:
		f.certs = append(f.certs, c)
		f.stakeCredentials = append(f.stakeCredentials, stakeCredential)
		return nil
	default:
		return ErrUnsupportedCertType
	}
}

func (f *fakeOracle) DeriveStakeCredential(accountPubKey string) (string, error) {
	return "stakecred_" + accountPubKey, nil
}

func (f *fakeOracle) SetTTL(ttl uint64) {
	f.ttl = &ttl
}

func (f *fakeOracle) Inputs() []UTXO {
	return f.inputs
}

func (f *fakeOracle) Serialize() (*TxResult, error) {
	size := 150 + len(f.inputs)*41 + len(f.outputs)*30
	if size > f.maxTxSize {
		return nil, ErrMaxTxSizeReached
	}
	return &TxResult{BodyHex: "deadbeef", HashHex: "cafebabe", Size: size}, nil
}

func (f *fakeOracle) PlaceholderAddress() string {
	return f.placeholderAddr
}

func (f *fakeOracle) Release() {}

func utxo(hash string, idx uint32, lovelace int64, assets ...Asset) UTXO {
	amount := append([]Asset{{Unit: LovelaceUnit, Quantity: big.NewInt(lovelace)}}, assets...)
	return UTXO{TxHash: hash, OutputIndex: idx, Address: "addr_test", Amount: amount}
}

func asset(unit string, qty int64) Asset {
	return Asset{Unit: unit, Quantity: big.NewInt(qty)}
}

func lovelaceOut(addr string, amt int64) UserOutput {
	a := amt
	return UserOutput{Address: &addr, Amount: big.NewInt(a)}
}

func hashN(n int) string {
	return "h" + strconv.Itoa(n) + "00000000000000000000000000000000000000000000000000000"
}

func bigInt(v int64) *big.Int {
	return big.NewInt(v)
}
