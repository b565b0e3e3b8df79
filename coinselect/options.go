package coinselect

import "math/big"

// Protocol constants, spec §6.2 — Cardano mainnet defaults at time of
// writing. The fee coefficients, deposits and token cap are overridable
// per-composition via Options; dustPullFloor is fixed, and the
// coins-per-UTXO-byte, value-size and tx-size limits are not read from
// here (the Oracle applies its own).
const (
	defaultFeeA                = 44
	defaultFeeB                = 155_381
	defaultCoinsPerUTXOByte     = 4_310
	defaultMaxValueSize         = 5_000
	defaultMaxTxSize            = 16_384
	defaultKeyDeposit            = 2_000_000
	defaultPoolDeposit           = 500_000_000
	defaultMaxTokensPerOutput    = 100
	dustPullFloor                = 5_000
)

// FeeParams is the linear fee polynomial fee(size) = a*size + b.
type FeeParams struct {
	A *big.Int
	B *big.Int
}

// Options configures a single composition (spec §6.3). Unknown keys in
// the caller's request document are ignored by the decoder that builds
// this struct, not by this type.
type Options struct {
	MaxTokensPerOutput uint32
	FeeParams          FeeParams
	KeyDeposit         *big.Int
	PoolDeposit        *big.Int
}

// DefaultOptions returns the mainnet defaults, spec §6.2.
func DefaultOptions() Options {
	return Options{
		MaxTokensPerOutput: defaultMaxTokensPerOutput,
		FeeParams: FeeParams{
			A: big.NewInt(defaultFeeA),
			B: big.NewInt(defaultFeeB),
		},
		KeyDeposit:  big.NewInt(defaultKeyDeposit),
		PoolDeposit: big.NewInt(defaultPoolDeposit),
	}
}

// withDefaults fills any zero-valued fields of o with the mainnet
// defaults, mirroring how the teacher's params package layers request
// overrides on top of ChainConfig defaults.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxTokensPerOutput == 0 {
		o.MaxTokensPerOutput = d.MaxTokensPerOutput
	}
	if o.FeeParams.A == nil {
		o.FeeParams.A = d.FeeParams.A
	}
	if o.FeeParams.B == nil {
		o.FeeParams.B = d.FeeParams.B
	}
	if o.KeyDeposit == nil {
		o.KeyDeposit = d.KeyDeposit
	}
	if o.PoolDeposit == nil {
		o.PoolDeposit = d.PoolDeposit
	}
	return o
}
