package kupyna

import "lukechampine.com/uint128"

// lengthFieldSize is the size of the trailing message length field in bytes.
const lengthFieldSize = 12

// compress folds one message block into the chain value h:
//
//	h = T⊕(h ^ m) ^ T+(m) ^ h
//
// len(block) must be g.blockSize() and len(h) must be g.columns.
func compress(g *geometry, h []uint64, block []byte) {
	var x, m [maxColumns]uint64
	for j := range h {
		m[j] = le64(block[8*j:])
		x[j] = h[j] ^ m[j]
	}
	permXor.apply(g, x[:len(h)])
	permAdd.apply(g, m[:len(h)])
	for j := range h {
		h[j] ^= x[j] ^ m[j]
	}
}

// outputTransform replaces h with T⊕(h) ^ h.
func outputTransform(g *geometry, h []uint64) {
	var x [maxColumns]uint64
	copy(x[:], h)
	permXor.apply(g, x[:len(h)])
	for j := range h {
		h[j] ^= x[j]
	}
}

// pad writes the final padded region for the unprocessed bytes in tail into
// dst and returns it. The region is tail, a 0x80 byte, zeros, and the
// message length in bits as a 96-bit little-endian integer. It spans one
// block, or two when the length field does not fit after the 0x80 byte.
// len(tail) must be below blockSize.
func pad(dst *[2 * maxColumns * rows]byte, tail []byte, bits uint128.Uint128, blockSize int) []byte {
	n := blockSize
	if len(tail)+1+lengthFieldSize > blockSize {
		n = 2 * blockSize
	}
	out := dst[:n]
	copy(out, tail)
	out[len(tail)] = 0x80
	clear(out[len(tail)+1:])

	var length [16]byte
	bits.PutBytes(length[:])
	copy(out[n-lengthFieldSize:], length[:lengthFieldSize])
	return out
}

// le64 reads a little-endian uint64 from at least 8 bytes.
func le64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// putLE64 writes v to b in little-endian order.
func putLE64(b []byte, v uint64) {
	_ = b[7]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}
