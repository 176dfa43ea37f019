// Package crypto implements the CREATE2 address derivation and EIP-55
// checksum formatting the account miner (pkg/account) needs. Unlike the
// storage-key miner's hand-tuned internal/keccak engine, these operations
// hash arbitrary-length input (a 85-byte CREATE2 preimage, or a 40-character
// hex string for checksumming), so they go through the general-purpose
// golang.org/x/crypto/sha3 implementation.
package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// FactoryAddress is the ERC-2470 Singleton Factory address, the
	// default CREATE2 deployer when the caller does not name one.
	FactoryAddress = "0xce0042B868300000d44A59004Da54A005ffdcf9f"

	// CREATE2 input layout: 0xff (1) + deployer (20) + salt (32) + initcodeHash (32) = 85
	Create2PrefixLen = 1 + 20
	Create2SaltLen   = 32
	Create2SuffixLen = 32
	Create2InputLen  = Create2PrefixLen + Create2SaltLen + Create2SuffixLen
)

// BuildCreate2Prefix returns the constant prefix of a CREATE2 preimage
// (0xff + deployer, 21 bytes) for a given deployer address. Callers copy it
// once per run, then fill in salt and init-code-hash per attempt.
func BuildCreate2Prefix(deployer []byte) ([Create2PrefixLen]byte, error) {
	if len(deployer) != 20 {
		return [Create2PrefixLen]byte{}, fmt.Errorf("deployer must be 20 bytes, got %d", len(deployer))
	}
	var prefix [Create2PrefixLen]byte
	prefix[0] = 0xff
	copy(prefix[1:], deployer)
	return prefix, nil
}

// AddressBytesToChecksumString converts 20-byte address to EIP-55 checksummed string.
func AddressBytesToChecksumString(addr20 []byte) string {
	if len(addr20) != 20 {
		panic(errors.New("address must be 20 bytes"))
	}
	return toChecksumAddress(addr20)
}

// CalculateCreate2Address computes the CREATE2 address for a given
// deployer, init-code hash and salt, returned as an EIP-55 checksummed
// string.
func CalculateCreate2Address(create2Prefix [Create2PrefixLen]byte, initCodeHash []byte, saltBytes []byte) string {
	var saltArray [32]byte
	copy(saltArray[:], saltBytes)

	preimage := make([]byte, 0, Create2InputLen)
	preimage = append(preimage, create2Prefix[:]...)
	preimage = append(preimage, saltArray[:]...)
	preimage = append(preimage, initCodeHash...)

	hash := keccak256Bytes(preimage)
	return toChecksumAddress(hash[12:])
}

// ---- helpers ----

func keccak256Bytes(b []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(b)
	return h.Sum(nil)
}

// Keccak256 calculates the keccak256 hash of the input bytes.
func Keccak256(data []byte) []byte {
	return keccak256Bytes(data)
}

// HexToAddressBytes decodes a hex string (with or without 0x) to bytes for address matching.
// Used to pre-decode prefix/suffix so the hot path can compare raw bytes.
func HexToAddressBytes(hexStr string) ([]byte, error) {
	h := strings.TrimSpace(hexStr)
	if len(h) >= 2 && (h[0:2] == "0x" || h[0:2] == "0X") {
		h = h[2:]
	}
	if len(h)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even length")
	}
	return hex.DecodeString(h)
}

// MustAddressBytes converts a hex address string to bytes.
func MustAddressBytes(addr string) ([]byte, error) {
	h := strings.TrimSpace(addr)
	if len(h) >= 2 && (h[0:2] == "0x" || h[0:2] == "0X") {
		h = h[2:]
	}
	if len(h) != 40 {
		return nil, fmt.Errorf("invalid address length: got %d hex chars, want 40", len(h))
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("invalid address hex: %w", err)
	}
	return b, nil
}

// toChecksumAddress converts 20-byte address to EIP-55 checksummed string.
func toChecksumAddress(addr20 []byte) string {
	if len(addr20) != 20 {
		panic(errors.New("address must be 20 bytes"))
	}
	hexLower := hex.EncodeToString(addr20) // lowercase
	hash := keccak256Bytes([]byte(hexLower))

	var out strings.Builder
	out.Grow(2 + 40)
	out.WriteString("0x")
	for i, c := range hexLower {
		if c >= '0' && c <= '9' {
			out.WriteByte(byte(c))
			continue
		}
		// each nibble of the hash decides case of corresponding hex char
		n := (hash[i/2] >> uint(4*(1-i%2))) & 0xF
		if n >= 8 {
			out.WriteByte(byte(strings.ToUpper(string(c))[0]))
		} else {
			out.WriteByte(byte(c))
		}
	}
	return out.String()
}
