// Package kupyna implements the Kupyna hash function family (DSTU 7564:2014)
// with 48, 256, 384 and 512-bit digests.
//
// Kupyna-48 and Kupyna-256 run two 10-round permutations over an 8x8 byte
// state; Kupyna-384 and Kupyna-512 run 14 rounds over an 8x16 state. The two
// variants of each pair differ only in how many trailing bytes of the final
// state they return.
//
// By default rounds use fused SubBytes/MixColumns lookup tables. Build with
// the purego tag to use the step-wise transform instead.
package kupyna

import (
	"hash"

	fasthex "github.com/tmthrgd/go-hex"
	"lukechampine.com/uint128"
)

const maxBlockSize = maxColumns * rows

var _ hash.Hash = (*Hasher)(nil)

// Hasher is a streaming Kupyna hasher. It implements hash.Hash.
//
// The zero value is not usable; create hashers with New. Finalize consumes
// the hasher: after it, Write, Sum and Finalize panic until Reset is called.
type Hasher struct {
	variant Variant
	geo     *geometry
	size    int

	h      [maxColumns]uint64 // chain value, geo.columns words in use
	buf    [maxBlockSize]byte
	n      int             // bytes buffered in buf
	length uint128.Uint128 // message length in bits

	finalized bool
}

// New returns a hasher for v. It panics if v is not a defined variant.
func New(v Variant) *Hasher {
	d := new(Hasher)
	d.init(v)
	return d
}

// New48 returns a Kupyna-48 hasher.
func New48() *Hasher { return New(Kupyna48) }

// New256 returns a Kupyna-256 hasher.
func New256() *Hasher { return New(Kupyna256) }

// New384 returns a Kupyna-384 hasher.
func New384() *Hasher { return New(Kupyna384) }

// New512 returns a Kupyna-512 hasher.
func New512() *Hasher { return New(Kupyna512) }

func (d *Hasher) init(v Variant) {
	p := v.params()
	*d = Hasher{variant: v, geo: p.geo, size: p.size}
	// The IV carries the block size in its first byte.
	d.h[0] = uint64(p.geo.blockSize())
}

// Reset returns the hasher to its initial state, also after Finalize.
func (d *Hasher) Reset() { d.init(d.variant) }

// Variant returns the variant the hasher was created for.
func (d *Hasher) Variant() Variant { return d.variant }

// Size returns the digest length in bytes.
func (d *Hasher) Size() int { return d.size }

// BlockSize returns the message block size in bytes.
func (d *Hasher) BlockSize() int { return d.geo.blockSize() }

// Write absorbs p. It never returns an error.
func (d *Hasher) Write(p []byte) (int, error) {
	d.checkState("Write")
	nn := len(p)
	d.length = d.length.AddWrap(uint128.From64(uint64(nn)).Lsh(3))

	bs := d.geo.blockSize()
	h := d.h[:d.geo.columns]
	if d.n > 0 {
		k := copy(d.buf[d.n:bs], p)
		d.n += k
		p = p[k:]
		if d.n < bs {
			return nn, nil
		}
		compress(d.geo, h, d.buf[:bs])
		d.n = 0
	}

	for len(p) >= bs {
		compress(d.geo, h, p[:bs])
		p = p[bs:]
	}

	if len(p) > 0 {
		d.n = copy(d.buf[:], p)
	}
	return nn, nil
}

// Sum appends the digest of the data written so far to b. It does not change
// the hasher, so more data may be written afterwards.
func (d *Hasher) Sum(b []byte) []byte {
	d.checkState("Sum")
	c := *d
	var out [Size512]byte
	c.finish(out[:c.size])
	return append(b, out[:c.size]...)
}

// Finalize returns the digest and moves the hasher to its finalized state.
func (d *Hasher) Finalize() []byte {
	d.checkState("Finalize")
	out := make([]byte, d.size)
	d.finish(out)
	return out
}

func (d *Hasher) checkState(op string) {
	if d.geo == nil {
		panic("kupyna: " + op + " on uninitialized hasher")
	}
	if d.finalized {
		panic("kupyna: " + op + " after Finalize")
	}
}

// finish pads the buffered tail, absorbs the padding, applies the output
// transform and writes the last len(out) bytes of the state to out.
func (d *Hasher) finish(out []byte) {
	bs := d.geo.blockSize()
	h := d.h[:d.geo.columns]

	var tail [2 * maxBlockSize]byte
	padded := pad(&tail, d.buf[:d.n], d.length, bs)
	for len(padded) > 0 {
		compress(d.geo, h, padded[:bs])
		padded = padded[bs:]
	}
	outputTransform(d.geo, h)

	var state [maxBlockSize]byte
	for j, w := range h {
		putLE64(state[8*j:], w)
	}
	copy(out, state[bs-len(out):bs])

	d.finalized = true
	d.n = 0
}

// Sum computes the digest of data for v.
func Sum(v Variant, data []byte) []byte {
	var d Hasher
	d.init(v)
	d.Write(data)
	return d.Finalize()
}

// SumHex returns the lowercase hex encoding of the digest of data for v.
func SumHex(v Variant, data []byte) string {
	return fasthex.EncodeToString(Sum(v, data))
}

// Sum48 computes the Kupyna-48 digest of data.
func Sum48(data []byte) (out [Size48]byte) {
	sumInto(Kupyna48, data, out[:])
	return
}

// Sum256 computes the Kupyna-256 digest of data.
func Sum256(data []byte) (out [Size256]byte) {
	sumInto(Kupyna256, data, out[:])
	return
}

// Sum384 computes the Kupyna-384 digest of data.
func Sum384(data []byte) (out [Size384]byte) {
	sumInto(Kupyna384, data, out[:])
	return
}

// Sum512 computes the Kupyna-512 digest of data.
func Sum512(data []byte) (out [Size512]byte) {
	sumInto(Kupyna512, data, out[:])
	return
}

func sumInto(v Variant, data []byte, out []byte) {
	var d Hasher
	d.init(v)
	d.Write(data)
	d.finish(out)
}
