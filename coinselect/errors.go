package coinselect

import "errors"

// coin-selection error kinds (spec §7). Each carries only an identifier;
// callers check with errors.Is.
var (
	ErrUTXOBalanceInsufficient  = errors.New("UTXO_BALANCE_INSUFFICIENT")
	ErrUTXOValueTooSmall       = errors.New("UTXO_VALUE_TOO_SMALL")
	ErrUnsupportedCertType     = errors.New("UNSUPPORTED_CERTIFICATE_TYPE")
	ErrMaxTxSizeReached        = errors.New("MAX_TX_SIZE_REACHED")
	ErrMaxValueSizeReached     = errors.New("MAX_VALUE_SIZE_REACHED")

	// errMultipleSetMax is an internal request-shape error: at most one
	// output across the request may set SetMax (spec §3 UserOutput).
	errMultipleSetMax = errors.New("at most one output may set setMax")
)
