// Package keccak implements a Keccak-f[1600] engine specialised to the
// single shape this miner ever hashes: a fixed 64-byte preimage absorbed
// into one 1088-bit-rate block. It intentionally does not go through
// hash.Hash or any streaming/multi-block machinery — the inner loop runs
// once per candidate address, so the state is kept in fixed-size local
// arrays rather than a heap-allocated state slice. The 24 rounds run as a
// loop; they are not unrolled.
package keccak

// Rate is the bit-rate in bytes (136, i.e. 1088 bits).
const Rate = 136

// StateBytes is the full sponge width in bytes (1600 bits).
const StateBytes = 200

const numRounds = 24

var roundConstants = [numRounds]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808a, 0x8000000080008000,
	0x000000000000808b, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008a, 0x0000000000000088, 0x0000000080008009, 0x000000008000000a,
	0x000000008000808b, 0x800000000000008b, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// rotation offsets for lane (x,y) in row-major [y][x] order, the canonical
// Keccak rho offsets. A prior GPU implementation in the lineage of this code
// used a table with several entries transposed relative to this one; any
// conformant permutation must use exactly these values (see keccak_test.go).
var rotc = [5][5]uint{
	{0, 1, 62, 28, 27},
	{36, 44, 6, 55, 20},
	{3, 10, 43, 25, 39},
	{41, 45, 15, 21, 8},
	{18, 2, 61, 56, 14},
}

func rotl64(x uint64, n uint) uint64 {
	return (x << n) | (x >> (64 - n))
}

// permute runs the 24-round Keccak-f[1600] permutation over a, a 5x5 lane
// matrix indexed a[x][y] as in the reference specification.
func permute(a *[5][5]uint64) {
	var c [5]uint64
	var d [5]uint64
	var b [5][5]uint64

	for round := 0; round < numRounds; round++ {
		// Theta
		for x := 0; x < 5; x++ {
			c[x] = a[x][0] ^ a[x][1] ^ a[x][2] ^ a[x][3] ^ a[x][4]
		}
		for x := 0; x < 5; x++ {
			d[x] = c[(x+4)%5] ^ rotl64(c[(x+1)%5], 1)
		}
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				a[x][y] ^= d[x]
			}
		}

		// Rho + Pi
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				nx := y
				ny := (2*x + 3*y) % 5
				b[nx][ny] = rotl64(a[x][y], rotc[y][x])
			}
		}

		// Chi
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				a[x][y] = b[x][y] ^ ((^b[(x+1)%5][y]) & b[(x+2)%5][y])
			}
		}

		// Iota
		a[0][0] ^= roundConstants[round]
	}
}

// Hash256Single absorbs exactly 64 bytes of preimage (padded per the
// Keccak, not SHA-3, domain separator) and squeezes 32 bytes of digest.
//
// Padding per spec.md §4.1: byte 64 is 0x01, byte 135 is OR-ed with 0x80,
// every other padding byte is zero.
func Hash256Single(preimage *[64]byte) [32]byte {
	var block [StateBytes]byte
	copy(block[:64], preimage[:])
	block[64] = 0x01
	block[Rate-1] |= 0x80

	var a [5][5]uint64
	for i := 0; i < Rate/8; i++ {
		x := i % 5
		y := i / 5
		off := i * 8
		lane := uint64(block[off]) |
			uint64(block[off+1])<<8 |
			uint64(block[off+2])<<16 |
			uint64(block[off+3])<<24 |
			uint64(block[off+4])<<32 |
			uint64(block[off+5])<<40 |
			uint64(block[off+6])<<48 |
			uint64(block[off+7])<<56
		a[x][y] ^= lane
	}

	permute(&a)

	var out [32]byte
	for i := 0; i < 4; i++ {
		x := i % 5
		y := i / 5
		lane := a[x][y]
		off := i * 8
		out[off] = byte(lane)
		out[off+1] = byte(lane >> 8)
		out[off+2] = byte(lane >> 16)
		out[off+3] = byte(lane >> 24)
		out[off+4] = byte(lane >> 32)
		out[off+5] = byte(lane >> 40)
		out[off+6] = byte(lane >> 48)
		out[off+7] = byte(lane >> 56)
	}
	return out
}

// Keccak256 is a general arbitrary-length Keccak256 built on the same
// permute core as Hash256Single. It exists so the permutation itself can be
// validated against the standard Keccak-256 test vectors (spec invariant 1)
// independently of the fixed-64-byte-preimage fast path used by the miner;
// the mining hot loop never calls this, it always uses Hash256Single.
func Keccak256(data []byte) [32]byte {
	var a [5][5]uint64
	absorbLane := func(i int, lane uint64) {
		x := i % 5
		y := i / 5
		a[x][y] ^= lane
	}

	for len(data) >= Rate {
		block := data[:Rate]
		for i := 0; i < Rate/8; i++ {
			off := i * 8
			lane := uint64(block[off]) |
				uint64(block[off+1])<<8 |
				uint64(block[off+2])<<16 |
				uint64(block[off+3])<<24 |
				uint64(block[off+4])<<32 |
				uint64(block[off+5])<<40 |
				uint64(block[off+6])<<48 |
				uint64(block[off+7])<<56
			absorbLane(i, lane)
		}
		permute(&a)
		data = data[Rate:]
	}

	var last [Rate]byte
	copy(last[:], data)
	last[len(data)] = 0x01
	last[Rate-1] |= 0x80
	for i := 0; i < Rate/8; i++ {
		off := i * 8
		lane := uint64(last[off]) |
			uint64(last[off+1])<<8 |
			uint64(last[off+2])<<16 |
			uint64(last[off+3])<<24 |
			uint64(last[off+4])<<32 |
			uint64(last[off+5])<<40 |
			uint64(last[off+6])<<48 |
			uint64(last[off+7])<<56
		absorbLane(i, lane)
	}
	permute(&a)

	var out [32]byte
	for i := 0; i < 4; i++ {
		x := i % 5
		y := i / 5
		lane := a[x][y]
		off := i * 8
		out[off] = byte(lane)
		out[off+1] = byte(lane >> 8)
		out[off+2] = byte(lane >> 16)
		out[off+3] = byte(lane >> 24)
		out[off+4] = byte(lane >> 32)
		out[off+5] = byte(lane >> 40)
		out[off+6] = byte(lane >> 48)
		out[off+7] = byte(lane >> 56)
	}
	return out
}
