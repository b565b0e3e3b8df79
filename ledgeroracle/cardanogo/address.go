package cardanogo

import (
	"github.com/btcsuite/btcutil/bech32"
	cardanosdk "github.com/echovl/cardano-go"
	cardanocrypto "github.com/echovl/cardano-go/crypto"

	"github.com/pkg/errors"

	"github.com/cardano-tx/coinselect/common"
)

// IsValidAddress reports whether addr parses as a Cardano address of
// any kind (base, enterprise, pointer, or reward).
func IsValidAddress(addr string) bool {
	_, err := cardanosdk.NewAddress(addr)
	return err == nil
}

// PublicKeyToAddress derives the enterprise address (payment credential
// only, no stake credential) for a hex-encoded Ed25519 public key, on
// the given network.
func PublicKeyToAddress(pubKeyHex string, network cardanosdk.Network) (string, error) {
	pubStr, err := bech32.EncodeFromBase256("addr_vk", common.FromHex(pubKeyHex))
	if err != nil {
		return "", errors.Wrap(err, "bech32-encode public key")
	}
	pubKey, err := cardanocrypto.NewPubKey(pubStr)
	if err != nil {
		return "", errors.Wrap(err, "parse public key")
	}
	payment, err := cardanosdk.NewKeyCredential(pubKey)
	if err != nil {
		return "", errors.Wrap(err, "derive payment credential")
	}
	addr, err := cardanosdk.NewEnterpriseAddress(network, payment)
	if err != nil {
		return "", errors.Wrap(err, "derive enterprise address")
	}
	return addr.String(), nil
}

// NetworkByName resolves the "mainnet"/"testnet" config strings to an
// echovl/cardano-go Network, defaulting to Mainnet on anything else.
func NetworkByName(name string) cardanosdk.Network {
	if name == "testnet" {
		return cardanosdk.Testnet
	}
	return cardanosdk.Mainnet
}
