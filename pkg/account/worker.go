// Package account implements the supplemental CREATE2 account miner
// (original_source's account_miner::mine_create2_accounts): given a
// deployer and an init-code hash, search random salts for addresses
// matching a target/prefix/suffix, collecting count independent matches to
// seed a batch of CREATE2 deployments.
package account

import (
	"crypto/rand"
	"encoding/hex"
	"sync/atomic"

	"github.com/CPerezz/worst-case-miner/internal/crypto"
)

// worker handles individual salt generation and matching for one goroutine.
type worker struct {
	config   *WorkerConfig
	attempts *int64

	saltBuffer [32]byte
	hexBuffer  [64]byte
}

func newWorker(config *WorkerConfig, attempts *int64) *worker {
	return &worker{config: config, attempts: attempts}
}

func (w *worker) fastHexEncode(data []byte) string {
	hex.Encode(w.hexBuffer[:], data)
	return string(w.hexBuffer[:len(data)*2])
}

func (w *worker) fastRandomSaltBytes() []byte {
	if _, err := rand.Read(w.saltBuffer[:]); err != nil {
		return nil
	}
	return w.saltBuffer[:]
}

// generateAddress generates a single salt/address pair and checks it
// against the worker's match criteria.
func (w *worker) generateAddress() *WorkerResult {
	saltBytes := w.fastRandomSaltBytes()
	if saltBytes == nil {
		return nil
	}
	salt := w.fastHexEncode(saltBytes)

	var create2Prefix [crypto.Create2PrefixLen]byte
	copy(create2Prefix[:], w.config.Create2Prefix)

	address := crypto.CalculateCreate2Address(create2Prefix, w.config.InitcodeHash, saltBytes)
	attempts := atomic.AddInt64(w.attempts, 1)

	var addrBytes [20]byte
	decoded, err := crypto.HexToAddressBytes(address)
	if err == nil {
		copy(addrBytes[:], decoded)
	}

	return &WorkerResult{
		Salt:         salt,
		Address:      address,
		AddressBytes: addrBytes,
		Attempts:     attempts,
		IsMatch:      w.matchesBytes(addrBytes[:]),
	}
}

// matchesBytes performs byte-level target/prefix/suffix matching.
func (w *worker) matchesBytes(addr []byte) bool {
	if len(w.config.TargetBytes) > 0 {
		return len(addr) == len(w.config.TargetBytes) && equalBytes(addr, w.config.TargetBytes)
	}
	if len(w.config.PrefixBytes) > 0 {
		n := len(w.config.PrefixBytes)
		return len(addr) >= n && equalBytes(addr[:n], w.config.PrefixBytes)
	}
	if len(w.config.SuffixBytes) > 0 {
		n := len(w.config.SuffixBytes)
		return len(addr) >= n && equalBytes(addr[len(addr)-n:], w.config.SuffixBytes)
	}
	return false
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
