package coinselect

// Oracle is the external ledger collaborator this package requires
// (spec §6.1). It owns CBOR serialization, BigInt arithmetic inside the
// tx builder, the min-ada rule, fee-polynomial evaluation, and tx-body
// hashing — none of which this package reimplements. A fresh Oracle (and
// the tx builder state it holds) is created per composition and is never
// shared across compositions (spec §5).
type Oracle interface {
	// MinAda returns the minimum lovelace an output with this asset
	// payload must carry, per the coins-per-UTXO-byte rule.
	MinAda(assets []Asset) (*Quantity, error)

	// AddInput registers a UTXO as a transaction input. Inputs are only
	// ever added, never removed, for the lifetime of the Oracle.
	AddInput(u UTXO) error

	// AddOutput registers an output (user or change) on the transaction.
	AddOutput(o UserOutput) error

	// FeeForInput returns the marginal fee contribution of adding u as
	// an input, without mutating builder state.
	FeeForInput(u UTXO) (*Quantity, error)

	// FeeForOutput returns the marginal fee contribution of adding o as
	// an output, without mutating builder state.
	FeeForOutput(o UserOutput) (*Quantity, error)

	// MinFee returns the total minimum fee for the transaction state
	// currently held by the builder: a*size(tx) + b.
	MinFee() (*Quantity, error)

	// SetFeeParams overrides the fee polynomial's a/b coefficients for
	// the remainder of this composition (spec §6.2's
	// options.feeParams.a). Either argument may be nil to leave that
	// coefficient at its current value.
	SetFeeParams(a, b *Quantity)

	// AddWithdrawal registers a reward withdrawal.
	AddWithdrawal(w Withdrawal) error

	// AddCertificate registers a staking certificate against the given
	// stake credential (as derived by DeriveStakeCredential). Returns
	// ErrUnsupportedCertType for tags outside {0,1,2,3}.
	AddCertificate(c Certificate, stakeCredential string) error

	// DeriveStakeCredential derives the staking credential used by
	// AddCertificate from an account public key: path 2/0, hash of the
	// raw public key. accountPubKey is otherwise opaque to this package.
	DeriveStakeCredential(accountPubKey string) (string, error)

	// SetTTL copies ttl verbatim into the tx body.
	SetTTL(ttl uint64)

	// Inputs returns the UTXOs added to the builder so far, in the
	// order the builder will serialize them — the authoritative input
	// order for spec invariant 5.
	Inputs() []UTXO

	// Serialize produces the CBOR tx body and its Blake2b-256 hash.
	// Returns ErrMaxTxSizeReached if the body exceeds the ledger's
	// maximum transaction size; the per-output value-size limit
	// (ErrMaxValueSizeReached) is enforced by AddOutput, not here.
	Serialize() (*TxResult, error)

	// PlaceholderAddress returns a dummy bech32 address of the correct
	// byte length, used for size/fee math in precompose mode (spec
	// §4.7) and wherever a UserOutput's address is absent.
	PlaceholderAddress() string

	// Release frees any non-GC resources (e.g. big-integer arenas) held
	// by the builder. Safe to call multiple times; must be called on
	// every exit path of a composition (spec §5).
	Release()
}
