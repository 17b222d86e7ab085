package kupyna

import (
	"testing"

	"github.com/stretchr/testify/require"
	fasthex "github.com/tmthrgd/go-hex"
	"pgregory.net/rapid"
)

func stateHex(s []uint64) string {
	return fasthex.EncodeToString(uint64sToBytes(s))
}

func ivState(g *geometry) []uint64 {
	s := make([]uint64, g.columns)
	s[0] = uint64(g.blockSize())
	return s
}

func TestPermutationKnownStates(t *testing.T) {
	cases := []struct {
		name  string
		geo   *geometry
		perm  *permutation
		start func(*geometry) []uint64
		want  string
	}{
		{"T⊕ 512 of IV", &geometry512, &permXor, ivState,
			"0ca464d5cec477051c7ca45d6a3801fd154bd65a6f56a9182c5a74ed2873783c" +
				"6cfc21cf863dc44983871ac7fd7fbaf6160530e53d4f3c2047333a4c7617055a"},
		{"T+ 512 of zero", &geometry512, &permAdd, func(g *geometry) []uint64 { return make([]uint64, g.columns) },
			"65e68a61c8632ceea6b60c33d29aab938baff0353dbd0646cbe4d7b664f59981" +
				"fc8e925fcc939b1c9002b624b689c65528beefb7ea86f097e40e19f80c0cfb22"},
		{"T⊕ 1024 of IV", &geometry1024, &permXor, ivState,
			"44240496483733ebc041e99a81c35746e5b2d9c725ae0af59281d2bf589cc04f" +
				"6878979c6ebb5daac20ebe8632dbcbf3b5149bf57a1ab4c7a331948c801a16bb" +
				"29f8a4528fe1873c15c76379ec5c2c3d13411c30d143b3b3ca5d84602c0501d2" +
				"21706acb65743179db058abe4050f86d206b6ac9272d1ec4361c78f5044270df"},
		{"T+ 1024 of zero", &geometry1024, &permAdd, func(g *geometry) []uint64 { return make([]uint64, g.columns) },
			"dce2a4cae0dfe116e3e2035f6362b7e2cdf711be07f091d659660fc05da8daa7" +
				"b22b20eec1b44d829074c9e8100b39ff89d7e1ef9cb70c0fa62b2fddd0d12199" +
				"77b689140a6c85a65a81b7267de0b34b0c9c85ecf50c205b778ef5f3d2588faf" +
				"92ca94cfa24b7b86d036972dc7d9763d7129350f779cfb2c673d3e26c10177e0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := c.start(c.geo)
			c.perm.apply(c.geo, s)
			require.Equal(t, c.want, stateHex(s))
		})
	}
}

func TestCompressZeroBlock(t *testing.T) {
	h := ivState(&geometry512)
	compress(&geometry512, h, make([]byte, 64))
	require.Equal(t, "2942eeb406a75bebbacaa86eb8a2aa6e9ee4266f52ebaf5ee7bea35b4c86e1bd"+
		"9072b3904aae5f551385ace34bf67ca33ebbdf52d7c9ccb7a33d23b47a1bfe78", stateHex(h))

	h = ivState(&geometry1024)
	compress(&geometry1024, h, make([]byte, 128))
	require.Equal(t, "18c6a05ca8e8d2fd23a3eac5e2a1e0a42845c879225e9b23cbe7dd7f05341ae8"+
		"da53b772af0f1028527a776e22d0f20c3cc37a1ae6adb8c8051abb5150cb3722"+
		"5e4e2d46858d029a4f46d45f91bc9f761fdd99dc244f93e8bdd37193fe5d8e7d"+
		"b3bafe04c73f4aff0b331d9387898e5051425fc650b1e5e8512146d3c543073f", stateHex(h))
}

func TestRoundTableMatchesSteps(t *testing.T) {
	for _, g := range []*geometry{&geometry512, &geometry1024} {
		rapid.Check(t, func(t *rapid.T) {
			src := rapid.SliceOfN(rapid.Uint64(), g.columns, g.columns).Draw(t, "state")
			want := make([]uint64, g.columns)
			got := make([]uint64, g.columns)
			roundSteps(g, want, src)
			roundTable(g, got, src)
			require.Equal(t, want, got)
		})
	}
}

func TestMixTable(t *testing.T) {
	for i := 0; i < rows; i++ {
		for x := 0; x < 256; x++ {
			s := []uint64{uint64(sbox[i%4][x]) << (8 * i)}
			mixColumns(s)
			require.Equal(t, s[0], mixTable[i][x], "row %d byte %#x", i, x)
		}
	}
}

func TestSboxesArePermutations(t *testing.T) {
	for k := range sbox {
		var seen [256]bool
		for _, v := range sbox[k] {
			require.False(t, seen[v], "sbox %d repeats %#x", k, v)
			seen[v] = true
		}
	}
}

func TestGFMul(t *testing.T) {
	require.Equal(t, byte(0x4d), gfMul(0xa8, 0x02))
	require.Equal(t, byte(0x9a), gfMul(0xa8, 0x04))
	require.Equal(t, byte(0x1d), gfMul(0x80, 0x02))

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Byte().Draw(t, "a")
		b := rapid.Byte().Draw(t, "b")
		c := rapid.Byte().Draw(t, "c")
		require.Equal(t, a, gfMul(a, 1))
		require.Equal(t, byte(0), gfMul(a, 0))
		require.Equal(t, gfMul(a, b), gfMul(b, a))
		require.Equal(t, gfMul(a, b^c), gfMul(a, b)^gfMul(a, c))
		require.Equal(t, gfMul(gfMul(a, b), c), gfMul(a, gfMul(b, c)))
	})
}

func TestShiftBytes(t *testing.T) {
	// Column j holds j in every row, so after the shift row i of column j
	// holds the index of the column it came from.
	for _, g := range []*geometry{&geometry512, &geometry1024} {
		s := make([]uint64, g.columns)
		for j := range s {
			s[j] = uint64(j) * 0x0101010101010101
		}
		shiftBytes(g, s)
		for j, w := range s {
			for i := 0; i < rows; i++ {
				from := (j - g.shifts[i] + g.columns) % g.columns
				require.Equal(t, byte(from), byte(w>>(8*i)), "column %d row %d", j, i)
			}
		}
	}
}

func TestRoundConstants(t *testing.T) {
	require.Equal(t, uint64(0x35), permXor.constant(8, 3, 5))
	// Column 0 of the 8-column state in round 0 gets 0x70 in its top byte.
	require.Equal(t, uint64(0x70f0f0f0f0f0f0f3), permAdd.constant(8, 0, 0))
	require.Equal(t, uint64(0x00f0f0f0f0f0f0f3), permAdd.constant(16, 15, 0))
	require.Equal(t, uint64(0xf3f0f0f0f0f0f0f3), permAdd.constant(16, 0, 3))
	// The add-branch carries across rows.
	require.Equal(t, uint64(0x70f0f0f0f0f0f1f2), permAdd.combine(0xff, 0x70f0f0f0f0f0f0f3))
}
