package kupyna

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
	"pgregory.net/rapid"
)

func TestPadLayout(t *testing.T) {
	cases := []struct {
		tail      int
		blockSize int
		blocks    int
	}{
		{0, 64, 1},
		{51, 64, 1},
		{52, 64, 2},
		{63, 64, 2},
		{0, 128, 1},
		{115, 128, 1},
		{116, 128, 2},
		{127, 128, 2},
	}
	for _, c := range cases {
		tail := bytes.Repeat([]byte{0xaa}, c.tail)
		bits := uint128.From64(uint64(c.tail) * 8)

		var buf [2 * maxBlockSize]byte
		out := pad(&buf, tail, bits, c.blockSize)

		require.Len(t, out, c.blocks*c.blockSize, "tail=%d bs=%d", c.tail, c.blockSize)
		require.Equal(t, tail, out[:c.tail])
		require.Equal(t, byte(0x80), out[c.tail])
		for _, b := range out[c.tail+1 : len(out)-lengthFieldSize] {
			require.Zero(t, b)
		}
		var want [16]byte
		bits.PutBytes(want[:])
		require.Equal(t, want[:lengthFieldSize], out[len(out)-lengthFieldSize:])
	}
}

func TestPadClearsScratch(t *testing.T) {
	var buf [2 * maxBlockSize]byte
	for i := range buf {
		buf[i] = 0xff
	}
	out := pad(&buf, []byte{1, 2, 3}, uint128.From64(24), 64)
	require.Equal(t, []byte{1, 2, 3, 0x80}, out[:4])
	require.Equal(t, make([]byte, 64-4-lengthFieldSize), out[4:64-lengthFieldSize])
	require.Equal(t, []byte{24, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, out[64-lengthFieldSize:])
}

func TestPadLengthAbove64Bits(t *testing.T) {
	bits := uint128.New(0x0807060504030201, 0x0c0b0a09)
	var buf [2 * maxBlockSize]byte
	out := pad(&buf, nil, bits, 64)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, out[64-lengthFieldSize:])
}

func TestLengthCounter(t *testing.T) {
	h := New256()
	h.Write(testMessage[:10])
	h.Write(nil)
	h.Write(testMessage[:200])
	require.True(t, h.length.Equals64(210*8))
	require.Equal(t, 210%64, h.n)

	h.Reset()
	require.True(t, h.length.IsZero())
	require.Zero(t, h.n)
}

func TestBufferNeverHoldsFullBlock(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.SampledFrom([]Variant{Kupyna48, Kupyna256, Kupyna384, Kupyna512}).Draw(t, "variant")
		chunks := rapid.SliceOf(rapid.SliceOfN(rapid.Byte(), 0, 300)).Draw(t, "chunks")
		h := New(v)
		total := 0
		for _, c := range chunks {
			h.Write(c)
			total += len(c)
			require.Less(t, h.n, v.BlockSize())
			require.Equal(t, total%v.BlockSize(), h.n)
		}
		require.True(t, h.length.Equals64(uint64(total)*8))
	})
}

func TestDeterminism(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.SampledFrom([]Variant{Kupyna48, Kupyna256, Kupyna384, Kupyna512}).Draw(t, "variant")
		msg := rapid.SliceOfN(rapid.Byte(), 0, 600).Draw(t, "msg")
		require.Equal(t, Sum(v, msg), Sum(v, msg))
	})
}

func TestChunkingInvariance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.SampledFrom([]Variant{Kupyna48, Kupyna256, Kupyna384, Kupyna512}).Draw(t, "variant")
		msg := rapid.SliceOfN(rapid.Byte(), 0, 600).Draw(t, "msg")
		cuts := rapid.SliceOfN(rapid.IntRange(0, len(msg)), 0, 10).Draw(t, "cuts")

		h := New(v)
		rest := msg
		for _, c := range cuts {
			c = min(c, len(rest))
			h.Write(rest[:c])
			rest = rest[c:]
		}
		h.Write(rest)
		require.Equal(t, Sum(v, msg), h.Finalize())
	})
}
