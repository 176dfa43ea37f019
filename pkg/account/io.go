package account

import (
	"fmt"
	"os"
	"strings"

	"github.com/CPerezz/worst-case-miner/internal/crypto"
)

// ReadInitcodeFile reads a hex-encoded (optionally 0x-prefixed) init-code
// file, the way original_source reads its --init-code argument.
func ReadInitcodeFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("account: read init code: %w", err)
	}
	hexStr := strings.TrimSpace(string(raw))
	code, err := crypto.HexToAddressBytes(hexStr)
	if err != nil {
		return nil, fmt.Errorf("account: decode init code: %w", err)
	}
	return code, nil
}

// DecodeDeployer decodes a hex deployer address, defaulting validation to
// the same 20-byte rule MustAddressBytes enforces.
func DecodeDeployer(hexAddr string) ([]byte, error) {
	return crypto.MustAddressBytes(hexAddr)
}
