package kupyna

const (
	// rows is the number of rows of the state matrix for every variant.
	rows = 8
	// maxColumns is the column count of the 1024-bit state.
	maxColumns = 16
)

// geometry describes one of the two state shapes. A state is held as column
// words: column j is s[j], and row i of that column is byte i of the word
// (little-endian), which is the byte order of the serialized state.
type geometry struct {
	columns int
	rounds  int
	// shifts[i] is how many columns row i moves right in ShiftBytes.
	shifts [rows]int
}

var (
	geometry512 = geometry{
		columns: 8,
		rounds:  10,
		shifts:  [rows]int{0, 1, 2, 3, 4, 5, 6, 7},
	}
	geometry1024 = geometry{
		columns: 16,
		rounds:  14,
		shifts:  [rows]int{0, 1, 2, 3, 4, 5, 6, 11},
	}
)

// blockSize is the size in bytes of a message block and of the state.
func (g *geometry) blockSize() int { return g.columns * rows }

// permutation is one of the two keyless round functions. The branches share
// SubBytes, ShiftBytes and MixColumns and only differ in AddConstant.
type permutation struct {
	// constant returns the round constant of column j in round r.
	constant func(columns, j, r int) uint64
	// combine folds a round constant into a column word.
	combine func(word, constant uint64) uint64
}

var (
	// permXor is T⊕: the constant (j<<4)^r is XORed into row 0.
	permXor = permutation{
		constant: func(_, j, r int) uint64 {
			return uint64(j<<4 ^ r)
		},
		combine: func(word, c uint64) uint64 { return word ^ c },
	}
	// permAdd is T+: the whole column word is added modulo 2^64.
	permAdd = permutation{
		constant: func(columns, j, r int) uint64 {
			return 0x00f0f0f0f0f0f0f3 ^ uint64((columns-j-1)<<4^r)<<56
		},
		combine: func(word, c uint64) uint64 { return word + c },
	}
)

// apply runs all rounds of p over s in place. len(s) must be g.columns.
func (p *permutation) apply(g *geometry, s []uint64) {
	var tmp [maxColumns]uint64
	t := tmp[:len(s)]
	for r := 0; r < g.rounds; r++ {
		for j := range s {
			s[j] = p.combine(s[j], p.constant(g.columns, j, r))
		}
		round(g, t, s)
		copy(s, t)
	}
}

// roundSteps computes SubBytes, ShiftBytes and MixColumns of src into dst
// one step at a time.
func roundSteps(g *geometry, dst, src []uint64) {
	copy(dst, src)
	subBytes(dst)
	shiftBytes(g, dst)
	mixColumns(dst)
}

// roundTable computes the same transform as roundSteps with one mixTable
// lookup per byte.
func roundTable(g *geometry, dst, src []uint64) {
	c := len(src)
	for j := range dst {
		var w uint64
		for i := 0; i < rows; i++ {
			k := j - g.shifts[i]
			if k < 0 {
				k += c
			}
			w ^= mixTable[i][byte(src[k]>>(8*i))]
		}
		dst[j] = w
	}
}

func subBytes(s []uint64) {
	for j, w := range s {
		var out uint64
		for i := 0; i < rows; i++ {
			out |= uint64(sbox[i%4][byte(w>>(8*i))]) << (8 * i)
		}
		s[j] = out
	}
}

func shiftBytes(g *geometry, s []uint64) {
	var tmp [maxColumns]uint64
	c := len(s)
	for j, w := range s {
		for i := 0; i < rows; i++ {
			tmp[(j+g.shifts[i])%c] |= w & (0xff << (8 * i))
		}
	}
	copy(s, tmp[:c])
}

func mixColumns(s []uint64) {
	for j, w := range s {
		var out uint64
		for r := 0; r < rows; r++ {
			var p byte
			for b := 0; b < rows; b++ {
				p ^= gfMul(byte(w>>(8*b)), mdsRow[(b-r+rows)%rows])
			}
			out |= uint64(p) << (8 * r)
		}
		s[j] = out
	}
}
