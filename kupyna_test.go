package kupyna

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	fasthex "github.com/tmthrgd/go-hex"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// testMessage is the 256-byte message 0x00, 0x01, ..., 0xff used by the
// published test vectors.
var testMessage = func() []byte {
	m := make([]byte, 256)
	for i := range m {
		m[i] = byte(i)
	}
	return m
}()

type testVector struct {
	name    string
	variant Variant
	msg     []byte
	digest  string
}

var testVectors = []testVector{
	{"Kupyna-256 empty", Kupyna256, nil,
		"CD5101D1CCDF0D1D1F4ADA56E888CD724CA1A0838A3521E7131D4FB78D0F5EB6"},
	{"Kupyna-256 8 bits", Kupyna256, []byte{0xff},
		"EA7677CA4526555680441C117982EA14059EA6D0D7124D6ECDB3DEEC49E890F4"},
	{"Kupyna-256 512 bits", Kupyna256, testMessage[:64],
		"08F4EE6F1BE6903B324C4E27990CB24EF69DD58DBE84813EE0A52F6631239875"},
	{"Kupyna-256 760 bits", Kupyna256, testMessage[:95],
		"1075C8B0CB910F116BDA5FA1F19C29CF8ECC75CAFF7208BA2994B68FC56E8D16"},
	{"Kupyna-256 1024 bits", Kupyna256, testMessage[:128],
		"0A9474E645A7D25E255E9E89FFF42EC7EB31349007059284F0B182E452BDA882"},
	{"Kupyna-256 2048 bits", Kupyna256, testMessage,
		"D305A32B963D149DC765F68594505D4077024F836C1BF03806E1624CE176C08F"},
	{"Kupyna-48 512 bits", Kupyna48, testMessage[:64],
		"2F6631239875"},
	{"Kupyna-384 760 bits", Kupyna384, testMessage[:95],
		"D9021692D84E5175735654846BA751E6D0ED0FAC36DFBC0841287DCB0B5584C7" +
			"5016C3DECC2A6E47C50B2F3811E351B8"},
	{"Kupyna-512 empty", Kupyna512, nil,
		"656B2F4CD71462388B64A37043EA55DBE445D452AECD46C3298343314EF04019" +
			"BCFA3F04265A9857F91BE91FCE197096187CEDA78C9C1C021C294A0689198538"},
	{"Kupyna-512 8 bits", Kupyna512, []byte{0xff},
		"871B18CF754B72740307A97B449ABEB32B64444CC0D5A4D65830AE5456837A72" +
			"D8458F12C8F06C98C616ABE11897F86263B5CB77C420FB375374BEC52B6D0292"},
	{"Kupyna-512 512 bits", Kupyna512, testMessage[:64],
		"3813E2109118CDFB5A6D5E72F7208DCCC80A2DFB3AFDFB02F46992B5EDBE536B" +
			"3560DD1D7E29C6F53978AF58B444E37BA685C0DD910533BA5D78EFFFC13DE62A"},
	{"Kupyna-512 1024 bits", Kupyna512, testMessage[:128],
		"76ED1AC28B1D0143013FFA87213B4090B356441263C13E03FA060A8CADA32B97" +
			"9635657F256B15D5FCA4A174DE029F0B1B4387C878FCC1C00E8705D783FD7FFE"},
	{"Kupyna-512 1536 bits", Kupyna512, testMessage[:192],
		"B189BFE987F682F5F167F0D7FA565330E126B6E592B1C55D44299064EF95B1A5" +
			"7F3C2D0ECF17869D1D199EBBD02E8857FB8ADD67A8C31F56CD82C016CF743121"},
	{"Kupyna-512 2048 bits", Kupyna512, testMessage,
		"0DD03D7350C409CB3C29C25893A0724F6B133FA8B9EB90A64D1A8FA93B565566" +
			"11EB187D715A956B107E3BFC76482298133A9CE8CBC0BD5E1436A5B197284F7E"},
}

func TestVectors(t *testing.T) {
	for _, tv := range testVectors {
		t.Run(tv.name, func(t *testing.T) {
			want := fasthex.MustDecodeString(tv.digest)

			h := New(tv.variant)
			h.Write(tv.msg)
			require.Equal(t, want, h.Finalize())

			require.Equal(t, want, Sum(tv.variant, tv.msg))
			require.Equal(t, fasthex.EncodeToString(want), SumHex(tv.variant, tv.msg))
		})
	}
}

func TestFixedSizeHelpers(t *testing.T) {
	for _, n := range []int{0, 1, 51, 52, 63, 64, 65, 115, 116, 127, 128, 129, 300} {
		data := bytes.Repeat([]byte{0xa5}, n)

		s48 := Sum48(data)
		require.Equal(t, Sum(Kupyna48, data), s48[:], "len=%d", n)
		s256 := Sum256(data)
		require.Equal(t, Sum(Kupyna256, data), s256[:], "len=%d", n)
		s384 := Sum384(data)
		require.Equal(t, Sum(Kupyna384, data), s384[:], "len=%d", n)
		s512 := Sum512(data)
		require.Equal(t, Sum(Kupyna512, data), s512[:], "len=%d", n)
	}
}

func TestTruncationSharesState(t *testing.T) {
	// Kupyna-48 is the tail of Kupyna-256, both run over the 512-bit state.
	for _, n := range []int{0, 1, 64, 95, 256} {
		s48 := Sum48(testMessage[:n])
		s256 := Sum256(testMessage[:n])
		require.Equal(t, s256[Size256-Size48:], s48[:], "len=%d", n)
	}
}

func TestOutputLength(t *testing.T) {
	for v := Kupyna48; v <= Kupyna512; v++ {
		for _, n := range []int{0, 1, 200} {
			require.Len(t, Sum(v, testMessage[:n]), v.Size())
		}
		h := New(v)
		require.Equal(t, v.Size(), h.Size())
		require.Equal(t, v.BlockSize(), h.BlockSize())
		require.Equal(t, v, h.Variant())
	}
}

func TestHasherStreaming(t *testing.T) {
	data := []byte("hello world, this is a longer test string for streaming kupyna")
	for v := Kupyna48; v <= Kupyna512; v++ {
		want := Sum(v, data)
		// Byte by byte.
		h := New(v)
		for _, b := range data {
			h.Write([]byte{b})
		}
		require.Equal(t, want, h.Finalize(), v.String())
	}
}

func TestHasherMultiBlock(t *testing.T) {
	for v := Kupyna48; v <= Kupyna512; v++ {
		// Exactly 2 blocks + partial.
		data := make([]byte, v.BlockSize()*2+50)
		for i := range data {
			data[i] = byte(i * 7)
		}
		want := Sum(v, data)
		// Write in chunks of 37 (not aligned to the block size).
		h := New(v)
		for i := 0; i < len(data); i += 37 {
			end := min(i+37, len(data))
			h.Write(data[i:end])
		}
		require.Equal(t, want, h.Finalize(), v.String())
	}
}

func TestSumDoesNotChangeState(t *testing.T) {
	h := New256()
	h.Write(testMessage[:40])
	first := h.Sum(nil)
	require.Equal(t, first, h.Sum(nil))

	h.Write(testMessage[40:64])
	want := fasthex.MustDecodeString("08F4EE6F1BE6903B324C4E27990CB24EF69DD58DBE84813EE0A52F6631239875")
	require.Equal(t, want, h.Sum(nil))

	prefix := []byte("prefix")
	require.Equal(t, append([]byte("prefix"), want...), h.Sum(prefix))
	require.Equal(t, want, h.Finalize())
}

func TestFinalizeConsumesHasher(t *testing.T) {
	h := New512()
	h.Write([]byte{0xff})
	h.Finalize()

	require.PanicsWithValue(t, "kupyna: Write after Finalize", func() { h.Write([]byte{1}) })
	require.PanicsWithValue(t, "kupyna: Finalize after Finalize", func() { h.Finalize() })
	require.PanicsWithValue(t, "kupyna: Sum after Finalize", func() { h.Sum(nil) })

	h.Reset()
	h.Write([]byte{0xff})
	want := fasthex.MustDecodeString("871B18CF754B72740307A97B449ABEB32B64444CC0D5A4D65830AE5456837A72" +
		"D8458F12C8F06C98C616ABE11897F86263B5CB77C420FB375374BEC52B6D0292")
	require.Equal(t, want, h.Finalize())
}

func TestZeroHasherPanics(t *testing.T) {
	var h Hasher
	require.PanicsWithValue(t, "kupyna: Write on uninitialized hasher", func() { h.Write(nil) })
}

func TestResetDiscardsInput(t *testing.T) {
	h := New384()
	h.Write(testMessage)
	h.Reset()
	h.Write(testMessage[:95])
	s := Sum384(testMessage[:95])
	require.Equal(t, s[:], h.Finalize())
}

func TestWriteReturnsLength(t *testing.T) {
	h := New48()
	n, err := h.Write(testMessage[:100])
	require.NoError(t, err)
	require.Equal(t, 100, n)
}

func TestAvalanche(t *testing.T) {
	// Kupyna-48 has too few output bits for a meaningful ratio.
	for _, v := range []Variant{Kupyna256, Kupyna384, Kupyna512} {
		base := Sum(v, testMessage[:100])
		for bit := 0; bit < 100*8; bit += 37 {
			msg := bytes.Clone(testMessage[:100])
			msg[bit/8] ^= 1 << (bit % 8)
			flipped := Sum(v, msg)

			diff := 0
			for i := range base {
				diff += popcount(base[i] ^ flipped[i])
			}
			total := len(base) * 8
			require.Greater(t, diff, total/4, "%s bit %d", v, bit)
			require.Less(t, diff, total*3/4, "%s bit %d", v, bit)
		}
	}
}

func popcount(b byte) int {
	n := 0
	for ; b != 0; b &= b - 1 {
		n++
	}
	return n
}

func FuzzSum(f *testing.F) {
	f.Add([]byte(nil))
	f.Add([]byte("hello"))
	f.Add(testMessage[:51])
	f.Add(testMessage[:52])
	f.Add(testMessage[:115])
	f.Add(testMessage[:116])
	f.Add(make([]byte, 64*3+50))

	f.Fuzz(func(t *testing.T, data []byte) {
		for v := Kupyna48; v <= Kupyna512; v++ {
			want := Sum(v, data)

			// Streaming Hasher (byte-by-byte).
			h := New(v)
			for _, b := range data {
				h.Write([]byte{b})
			}
			if got := h.Finalize(); !bytes.Equal(got, want) {
				t.Fatalf("%s byte-by-byte mismatch for len=%d\ngot:  %x\nwant: %x", v, len(data), got, want)
			}

			// Step-wise rounds must agree with the table-driven rounds.
			if got := sumSteps(v, data); !bytes.Equal(got, want) {
				t.Fatalf("%s step-wise mismatch for len=%d\ngot:  %x\nwant: %x", v, len(data), got, want)
			}
		}
	})
}

// sumSteps is a straight-line digest that only uses the step-wise round.
func sumSteps(v Variant, data []byte) []byte {
	p := v.params()
	g := p.geo
	bs := g.blockSize()
	h := make([]uint64, g.columns)
	h[0] = uint64(bs)

	permute := func(perm *permutation, s []uint64) {
		t := make([]uint64, len(s))
		for r := 0; r < g.rounds; r++ {
			for j := range s {
				s[j] = perm.combine(s[j], perm.constant(g.columns, j, r))
			}
			roundSteps(g, t, s)
			copy(s, t)
		}
	}
	absorb := func(block []byte) {
		x := make([]uint64, g.columns)
		m := make([]uint64, g.columns)
		for j := range m {
			m[j] = le64(block[8*j:])
			x[j] = h[j] ^ m[j]
		}
		permute(&permXor, x)
		permute(&permAdd, m)
		for j := range h {
			h[j] ^= x[j] ^ m[j]
		}
	}

	// Padding by the textbook formula: 0x80, then zeros up to 12 bytes
	// before a block boundary, then the bit length.
	msg := append(bytes.Clone(data), 0x80)
	for (len(msg)+lengthFieldSize)%bs != 0 {
		msg = append(msg, 0)
	}
	var length [lengthFieldSize]byte
	putLE64(length[:], uint64(len(data))*8)
	msg = append(msg, length[:]...)
	for len(msg) > 0 {
		absorb(msg[:bs])
		msg = msg[bs:]
	}

	xs := append([]uint64(nil), h...)
	permute(&permXor, xs)
	for j := range h {
		h[j] ^= xs[j]
	}
	out := uint64sToBytes(h)
	return out[bs-p.size:]
}

func uint64sToBytes(w []uint64) []byte {
	b := make([]byte, 8*len(w))
	for j, v := range w {
		putLE64(b[8*j:], v)
	}
	return b
}

// Comparison benchmarks: kupyna vs golang.org/x/crypto.
var benchSizes = []int{32, 128, 256, 1024, 4096, 500 * 1024}

func benchName(size int) string {
	switch {
	case size >= 1024:
		return fmt.Sprintf("%dK", size/1024)
	default:
		return fmt.Sprintf("%dB", size)
	}
}

func benchData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

func BenchmarkSum256_500K(b *testing.B) {
	data := make([]byte, 500*1024)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Sum256(data)
	}
}

func BenchmarkKupyna(b *testing.B) {
	for v := Kupyna48; v <= Kupyna512; v++ {
		for _, size := range benchSizes {
			data := benchData(size)
			b.Run(v.String()+"/"+benchName(size), func(b *testing.B) {
				b.SetBytes(int64(size))
				b.ReportAllocs()
				h := New(v)
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					h.Reset()
					h.Write(data)
					h.Sum(nil)
				}
			})
		}
	}
}

func BenchmarkXCryptoSHA3(b *testing.B) {
	for _, size := range benchSizes {
		data := benchData(size)
		b.Run("SHA3-256/"+benchName(size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			h := sha3.New256()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				h.Reset()
				h.Write(data)
				h.Sum(nil)
			}
		})
		b.Run("SHA3-512/"+benchName(size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			h := sha3.New512()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				h.Reset()
				h.Write(data)
				h.Sum(nil)
			}
		})
	}
}

func BenchmarkXCryptoBLAKE2b(b *testing.B) {
	for _, size := range benchSizes {
		data := benchData(size)
		b.Run(benchName(size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			h, _ := blake2b.New512(nil)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				h.Reset()
				h.Write(data)
				h.Sum(nil)
			}
		})
	}
}
