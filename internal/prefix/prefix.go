// Package prefix implements the nibble-prefix predicate the scheduler and
// workers use to decide whether a candidate storage key deepens the
// extension chain.
package prefix

import "github.com/CPerezz/worst-case-miner/pkg/types"

// MaxNibbles is the largest nibble count a 32-byte key can be compared on.
const MaxNibbles = 64

// SharesPrefix reports whether a and b agree on their first nibbles
// nibbles. nibbles == 0 always returns true. Callers passing nibbles > 64
// get a saturated comparison at 64 rather than an out-of-range panic.
func SharesPrefix(a, b types.StorageKey, nibbles uint) bool {
	if nibbles == 0 {
		return true
	}
	if nibbles > MaxNibbles {
		nibbles = MaxNibbles
	}

	full := nibbles / 2
	half := nibbles % 2

	for i := uint(0); i < full; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	if half == 1 && full < 32 {
		if a[full]>>4 != b[full]>>4 {
			return false
		}
	}
	return true
}
