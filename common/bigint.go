// Package common carries small hex/decimal helpers. FromHex decodes the
// hex-encoded keys the cardanogo oracle receives; cmd/composetx parses
// its request quantities with math/big directly. FromHex/Hex2Bytes/Bytes2Hex
// follow go-ethereum/common's behavior (accepting an optional "0x"
// prefix); GetBigIntFromStr/GetUint64FromStr are additions in the same
// spirit for decimal quantity fields.
package common

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// FromHex returns the bytes represented by the hexadecimal string s,
// stripping an optional "0x"/"0X" prefix. It returns nil on malformed
// input rather than panicking.
func FromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// Hex2Bytes returns the bytes represented by the hexadecimal string
// str, without a "0x" prefix.
func Hex2Bytes(str string) []byte {
	b, _ := hex.DecodeString(str)
	return b
}

// Bytes2Hex returns the hexadecimal encoding of d, without a "0x"
// prefix.
func Bytes2Hex(d []byte) string {
	return hex.EncodeToString(d)
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// GetBigIntFromStr parses a decimal (or 0x-prefixed hex) string into a
// non-negative *big.Int.
func GetBigIntFromStr(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return big.NewInt(0), nil
	}
	base := 10
	if has0xPrefix(s) {
		s = s[2:]
		base = 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer string %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative quantity %q", s)
	}
	return v, nil
}

// GetUint64FromStr parses a decimal string into a uint64.
func GetUint64FromStr(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
}
