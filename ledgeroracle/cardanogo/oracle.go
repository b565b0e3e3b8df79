// Package cardanogo implements coinselect.Oracle on top of
// github.com/echovl/cardano-go, the same SDK the teacher bridge wraps
// for address derivation and transaction signing.
package cardanogo

import (
	"crypto/rand"
	"math/big"

	cardanosdk "github.com/echovl/cardano-go"
	cardanocrypto "github.com/echovl/cardano-go/crypto"
	"golang.org/x/crypto/blake2b"

	"github.com/pkg/errors"

	"github.com/cardano-tx/coinselect/coinselect"
	"github.com/cardano-tx/coinselect/common"
	"github.com/cardano-tx/coinselect/internal/log"
)

// minUTXOEntrySizeWithoutVal and coinSize are the fixed CBOR-overhead
// constants the coins-per-UTXO-byte rule applies on top of the value's
// own encoded size (the same constants cardano-cli and every Shelley-era
// wallet use); cardano-go v0.1.x does not expose a min-UTXO helper, so
// the Oracle computes it itself rather than asking the SDK to do
// something it cannot.
const (
	minUTXOEntrySizeWithoutVal = 27
	coinSize                   = 2
	policyIDSize               = 28
)

// Oracle adapts a *cardanosdk.ProtocolParams and a *cardanosdk.TxBuilder
// into coinselect.Oracle. A fresh Oracle must be constructed per
// composition (spec §5); it owns the builder's arena for the lifetime
// of one Compose call.
type Oracle struct {
	protocol     *cardanosdk.ProtocolParams
	builder      *cardanosdk.TxBuilder
	network      cardanosdk.Network
	maxValueSize int64

	inputs []coinselect.UTXO
	closed bool
}

// defaultMaxValueSize is the Shelley-era ledger limit on a single
// output's CBOR-encoded value, in bytes (spec §6.2).
const defaultMaxValueSize = 5_000

// New constructs an Oracle for one composition against the given
// protocol parameters and network.
func New(protocol *cardanosdk.ProtocolParams, network cardanosdk.Network) *Oracle {
	return &Oracle{
		protocol:     protocol,
		builder:      cardanosdk.NewTxBuilder(protocol),
		network:      network,
		maxValueSize: defaultMaxValueSize,
	}
}

// SetMaxValueSize overrides the per-output value-size ceiling enforced
// by AddOutput (spec §6.2's configurable max_value_size).
func (o *Oracle) SetMaxValueSize(maxValueSize int64) {
	if maxValueSize > 0 {
		o.maxValueSize = maxValueSize
	}
}

func (o *Oracle) MinAda(assets []coinselect.Asset) (*coinselect.Quantity, error) {
	size := int64(minUTXOEntrySizeWithoutVal)
	if len(assets) > 0 {
		size += valueSizeEstimate(assets)
	} else {
		size += coinSize
	}
	minAda := new(big.Int).Mul(big.NewInt(size), coinToBig(o.protocol.CoinsPerUTXOWord))
	return minAda, nil
}

// valueSizeEstimate approximates the CBOR size in bytes of a
// multi-asset value carrying assets, following the same shape every
// Shelley-era min-UTXO calculator uses: a base coin word plus a
// per-policy and per-asset contribution.
func valueSizeEstimate(assets []coinselect.Asset) int64 {
	policies := map[string]bool{}
	for _, a := range assets {
		policy, _ := splitUnit(a.Unit)
		policies[policy] = true
	}
	numAssets := int64(len(assets))
	numPolicies := int64(len(policies))
	return coinSize + numPolicies*policyIDSize + numAssets*12 + 6
}

func splitUnit(unit string) (policy, name string) {
	if len(unit) <= 56 {
		return unit, ""
	}
	return unit[:56], unit[56:]
}

func (o *Oracle) AddInput(u coinselect.UTXO) error {
	hash, err := cardanosdk.NewHash32(u.TxHash)
	if err != nil {
		return errors.Wrapf(err, "decode input tx hash %q", u.TxHash)
	}
	amount, err := toValue(u.Amount)
	if err != nil {
		return err
	}
	o.builder.AddInputs(&cardanosdk.TxInput{
		TxHash: hash,
		Index:  uint64(u.OutputIndex),
		Amount: amount,
	})
	o.inputs = append(o.inputs, u)
	log.Trace("oracle added input", "utxo", u.Key())
	return nil
}

func (o *Oracle) AddOutput(out coinselect.UserOutput) error {
	if len(out.Assets) > 0 && valueSizeEstimate(out.Assets) > o.maxValueSize {
		return coinselect.ErrMaxValueSizeReached
	}
	addr, err := cardanosdk.NewAddress(addressOf(out))
	if err != nil {
		return errors.Wrapf(err, "decode output address %q", addressOf(out))
	}
	amount, err := toValue(toAssets(out))
	if err != nil {
		return err
	}
	o.builder.AddOutputs(&cardanosdk.TxOutput{Address: addr, Amount: amount})
	return nil
}

func (o *Oracle) FeeForInput(u coinselect.UTXO) (*coinselect.Quantity, error) {
	// A TxInput's marginal fee contribution is constant (it adds one
	// fixed-size CBOR array entry): a*inputSize, independent of value.
	return new(big.Int).Mul(coinToBig(o.protocol.MinFeeA), big.NewInt(inputSizeBytes)), nil
}

func (o *Oracle) FeeForOutput(out coinselect.UserOutput) (*coinselect.Quantity, error) {
	size := outputSizeBytes(toAssets(out))
	return new(big.Int).Mul(coinToBig(o.protocol.MinFeeA), big.NewInt(size)), nil
}

const inputSizeBytes = 41 // txHash(32) + index + CBOR array/tag overhead

func outputSizeBytes(assets []coinselect.Asset) int64 {
	base := int64(minUTXOEntrySizeWithoutVal)
	if len(assets) == 0 {
		return base + coinSize
	}
	return base + valueSizeEstimate(assets)
}

func (o *Oracle) MinFee() (*coinselect.Quantity, error) {
	size, err := o.currentSizeEstimate()
	if err != nil {
		return nil, err
	}
	fee := new(big.Int).Mul(coinToBig(o.protocol.MinFeeA), big.NewInt(size))
	fee.Add(fee, coinToBig(o.protocol.MinFeeB))
	return fee, nil
}

func (o *Oracle) SetFeeParams(a, b *coinselect.Quantity) {
	if a != nil {
		o.protocol.MinFeeA = cardanosdk.Coin(a.Uint64())
	}
	if b != nil {
		o.protocol.MinFeeB = cardanosdk.Coin(b.Uint64())
	}
}

func (o *Oracle) currentSizeEstimate() (int64, error) {
	tx, err := o.builder.Build()
	if err != nil {
		return 0, errors.Wrap(err, "build tx for size estimate")
	}
	raw := tx.Bytes()
	return int64(len(raw)), nil
}

func (o *Oracle) AddWithdrawal(w coinselect.Withdrawal) error {
	// echovl/cardano-go v0.1.14 has no withdrawal support in its
	// TxBuilder (TxBody.Withdrawals is typed interface{} and marked
	// "unsupported" in the SDK itself), so this backend cannot honor
	// withdrawals; surface that instead of silently dropping them.
	return errors.Errorf("cardanogo oracle: reward withdrawals are not supported by echovl/cardano-go v0.1.14")
}

// AddCertificate builds stake registration, deregistration and
// delegation certificates. Stake pool registration (tag 3) is not built
// by this backend: it returns ErrUnsupportedCertType, as for unknown tags.
func (o *Oracle) AddCertificate(c coinselect.Certificate, stakeCredential string) error {
	var cred *cardanosdk.StakeCredential
	if c.Type != coinselect.CertStakePoolRegistration {
		var err error
		cred, err = stakeCredentialFromHash(stakeCredential)
		if err != nil {
			return errors.Wrapf(err, "decode stake credential %q", stakeCredential)
		}
	}

	switch c.Type {
	case coinselect.CertStakeRegistration:
		o.builder.AddCertificate(cardanosdk.Certificate{
			Type:            cardanosdk.StakeRegistration,
			StakeCredential: *cred,
		})
	case coinselect.CertStakeDeregistration:
		o.builder.AddCertificate(cardanosdk.Certificate{
			Type:            cardanosdk.StakeDeregistration,
			StakeCredential: *cred,
		})
	case coinselect.CertStakeDelegation:
		pool, err := cardanosdk.NewHash28(c.PoolHash)
		if err != nil {
			return errors.Wrapf(err, "decode pool hash %q", c.PoolHash)
		}
		o.builder.AddCertificate(cardanosdk.Certificate{
			Type:            cardanosdk.StakeDelegation,
			StakeCredential: *cred,
			PoolKeyHash:     pool,
		})
	case coinselect.CertStakePoolRegistration:
		return coinselect.ErrUnsupportedCertType
	default:
		return coinselect.ErrUnsupportedCertType
	}
	return nil
}

// DeriveStakeCredential derives the staking credential from an account
// public key: soft-derive path 2/0 off the account extended public key,
// then hash the raw child public key (Blake2b-224, the same digest size
// the ledger uses for every key hash).
func (o *Oracle) DeriveStakeCredential(accountPubKeyHex string) (string, error) {
	raw := common.FromHex(accountPubKeyHex)
	if raw == nil {
		return "", errors.Errorf("malformed account public key %q", accountPubKeyHex)
	}
	accountKey := cardanocrypto.XPubKey(raw)
	stakeKeyAccount, err := accountKey.Derive(2)
	if err != nil {
		return "", errors.Wrap(err, "derive stake key account")
	}
	stakeKey, err := stakeKeyAccount.Derive(0)
	if err != nil {
		return "", errors.Wrap(err, "derive stake key")
	}

	h, err := blake2b.New(28, nil)
	if err != nil {
		return "", errors.Wrap(err, "init stake credential hash")
	}
	h.Write(stakeKey)
	return hexEncode(h.Sum(nil)), nil
}

func stakeCredentialFromHash(hash string) (*cardanosdk.StakeCredential, error) {
	keyHash, err := cardanosdk.NewHash28(hash)
	if err != nil {
		return nil, err
	}
	return &cardanosdk.StakeCredential{Type: cardanosdk.KeyCredential, KeyHash: keyHash}, nil
}

func (o *Oracle) SetTTL(ttl uint64) {
	o.builder.SetTTL(ttl)
}

func (o *Oracle) Inputs() []coinselect.UTXO {
	return o.inputs
}

func (o *Oracle) Serialize() (*coinselect.TxResult, error) {
	tx, err := o.builder.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build tx")
	}
	raw := tx.Bytes()
	if len(raw) > int(o.protocol.MaxTxSize) {
		return nil, coinselect.ErrMaxTxSizeReached
	}
	sum := blake2b.Sum256(raw)
	return &coinselect.TxResult{
		BodyHex: hexEncode(raw),
		HashHex: hexEncode(sum[:]),
		Size:    len(raw),
	}, nil
}

func (o *Oracle) PlaceholderAddress() string {
	addr, _ := cardanosdk.NewEnterpriseAddress(o.network, *dummyPaymentCredential())
	return addr.String()
}

func (o *Oracle) Release() {
	if o.closed {
		return
	}
	o.closed = true
	o.builder = nil
	log.Debug("oracle released", "inputs", len(o.inputs))
}

var dummyCredential *cardanosdk.StakeCredential

// dummyPaymentCredential derives a fixed, non-spendable payment
// credential used only to size a placeholder address (spec §4.7); it
// is built once per process from a freshly generated key so its byte
// length matches a real Shelley payment credential.
func dummyPaymentCredential() *cardanosdk.StakeCredential {
	if dummyCredential != nil {
		return dummyCredential
	}
	seed := make([]byte, 32)
	_, _ = rand.Read(seed)
	xprv := cardanocrypto.NewXPrvKeyFromEntropy(seed, "")
	cred, _ := cardanosdk.NewKeyCredential(xprv.PubKey())
	dummyCredential = &cred
	return dummyCredential
}

func coinToBig(c cardanosdk.Coin) *big.Int {
	return new(big.Int).SetUint64(uint64(c))
}

func toAssets(out coinselect.UserOutput) []coinselect.Asset {
	assets := append([]coinselect.Asset{}, out.Assets...)
	if out.Amount != nil {
		assets = append([]coinselect.Asset{{Unit: coinselect.LovelaceUnit, Quantity: out.Amount}}, assets...)
	}
	return assets
}

func addressOf(out coinselect.UserOutput) string {
	if out.Address == nil {
		return ""
	}
	return *out.Address
}

func toValue(assets []coinselect.Asset) (*cardanosdk.Value, error) {
	value := cardanosdk.NewValue(0)
	for _, a := range assets {
		if a.Unit == coinselect.LovelaceUnit {
			value.Coin += cardanosdk.Coin(a.Quantity.Uint64())
			continue
		}
		policy, name := splitUnit(a.Unit)
		policyHash, err := cardanosdk.NewHash28(policy)
		if err != nil {
			return nil, errors.Wrapf(err, "decode policy id %q", policy)
		}
		policyID := cardanosdk.NewPolicyIDFromHash(policyHash)
		assetName := cardanosdk.NewAssetName(name)
		assetSet := value.MultiAsset.Get(policyID)
		if assetSet == nil {
			assetSet = cardanosdk.NewAssets()
			value.MultiAsset.Set(policyID, assetSet)
		}
		assetSet.Set(assetName, cardanosdk.BigNum(assetSet.Get(assetName)+cardanosdk.BigNum(a.Quantity.Uint64())))
	}
	return value, nil
}

func hexEncode(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0x0f]
	}
	return string(out)
}
