// Package initcode serialises a mined run into the deployment bytecode
// spec.md §4.7 describes: one PUSH32 marker / PUSH32 key / SSTORE triple
// per result, followed by a tail that returns zero-length runtime code.
package initcode

import (
	"github.com/CPerezz/worst-case-miner/pkg/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
)

// TripleLen is the byte length of one PUSH32/PUSH32/SSTORE triple:
// 1 (PUSH32) + 32 (value) + 1 (PUSH32) + 32 (key) + 1 (SSTORE).
const TripleLen = 1 + 32 + 1 + 32 + 1

// tail is a minimal return-empty-runtime sequence: PUSH1 0, PUSH1 0, RETURN.
var tail = []byte{byte(vm.PUSH1), 0x00, byte(vm.PUSH1), 0x00, byte(vm.RETURN)}

// TailLen is len(tail), exported so callers can predict total output length
// (spec.md §8 invariant 5: len == TripleLen*N + TailLen).
const TailLen = 5

// Encode serialises results into deployment bytecode that writes marker
// into every result's storage key, then returns empty runtime code.
// Consecutive results sharing the same key collapse to a single SSTORE
// (spec.md §4.7 permits, but does not require, this deduplication).
// Encode is pure: identical inputs always produce byte-identical output.
func Encode(results []types.LevelResult, marker *uint256.Int) []byte {
	if marker == nil {
		marker = types.DefaultMarker()
	}
	markerBytes := marker.Bytes32()

	out := make([]byte, 0, TripleLen*len(results)+TailLen)
	var havePrev bool
	var prevKey types.StorageKey

	for _, r := range results {
		if havePrev && r.Key == prevKey {
			continue
		}
		out = append(out, byte(vm.PUSH32))
		out = append(out, markerBytes[:]...)
		out = append(out, byte(vm.PUSH32))
		out = append(out, r.Key[:]...)
		out = append(out, byte(vm.SSTORE))

		prevKey = r.Key
		havePrev = true
	}

	out = append(out, tail...)
	return out
}
