// Package coinselect implements the fee/change/selection fixed-point loop
// that turns a wallet's UTXO set and a set of requested payments into a
// balanced, serialized Cardano transaction body.
package coinselect

import (
	"math/big"
	"strconv"
)

// LovelaceUnit is the sentinel asset unit denoting the chain's native coin.
const LovelaceUnit = "lovelace"

// Quantity is an arbitrary-precision non-negative integer amount of some
// asset. All arithmetic on it must be exact.
type Quantity = big.Int

// Asset is one unit/quantity pair carried by a UTXO or output.
type Asset struct {
	Unit     string
	Quantity *Quantity
}

// UTXO is an unspent transaction output available for spending.
type UTXO struct {
	TxHash      string // 32-byte hex
	OutputIndex uint32
	Address     string
	Amount      []Asset
}

// Key returns the (txHash, outputIndex) uniqueness key of the UTXO.
func (u UTXO) Key() string {
	return u.TxHash + "#" + strconv.FormatUint(uint64(u.OutputIndex), 10)
}

// Lovelace returns the UTXO's lovelace quantity, or zero if absent.
func (u UTXO) Lovelace() *Quantity {
	return findAsset(u.Amount, LovelaceUnit)
}

// UserOutput is a caller-requested payment. Address and/or the amount
// fields may be absent ("precompose mode", spec §4.7); SetMax designates
// at most one output per request as "drain everything left of this asset".
type UserOutput struct {
	Address *string
	Amount  *Quantity // lovelace; nil means "unspecified"
	Assets  []Asset   // native tokens carried by this output
	SetMax  bool
}

// TargetUnit returns the asset this output is denominated in for SetMax
// purposes: the first token unit if any tokens are present, else lovelace.
func (o *UserOutput) TargetUnit() string {
	if len(o.Assets) > 0 {
		return o.Assets[0].Unit
	}
	return LovelaceUnit
}

// ChangeOutput is a UserOutput returned to the wallet's own change address.
type ChangeOutput struct {
	UserOutput
	IsChange bool
}

// CertificateType tags the four supported certificate variants.
type CertificateType uint8

// Certificate type tags, per spec §3.
const (
	CertStakeRegistration CertificateType = 0
	CertStakeDeregistration CertificateType = 1
	CertStakeDelegation CertificateType = 2
	CertStakePoolRegistration CertificateType = 3
)

// Certificate is a staking certificate to be included in the transaction.
type Certificate struct {
	Type     CertificateType
	PoolHash string // only meaningful for CertStakeDelegation
}

// Withdrawal is a reward withdrawal added to the input side of the
// balance equation.
type Withdrawal struct {
	StakeAddress string
	Amount       *Quantity
}

// TxResult carries the serialized transaction body alongside its hash,
// produced by the Oracle.
type TxResult struct {
	BodyHex string
	HashHex string
	Size    int
}

// MaxOutputResult is included in the summary when a SetMax output was
// present in the request.
type MaxOutputResult struct {
	Unit     string
	Quantity *Quantity
}

// Summary is the transaction summary returned by the Composer (spec §3,
// §6.4).
type Summary struct {
	Inputs     []UTXO
	Outputs    []UserOutput
	Fee        *Quantity
	TotalSpent *Quantity
	TTL        *uint64
	Tx         *TxResult // nil in precompose mode
	Max        *MaxOutputResult
}

func findAsset(assets []Asset, unit string) *Quantity {
	for _, a := range assets {
		if a.Unit == unit {
			return new(big.Int).Set(a.Quantity)
		}
	}
	return big.NewInt(0)
}
