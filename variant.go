package kupyna

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Variant selects one of the four Kupyna digest sizes.
type Variant uint8

const (
	Kupyna48 Variant = iota
	Kupyna256
	Kupyna384
	Kupyna512
)

// Digest sizes in bytes.
const (
	Size48  = 6
	Size256 = 32
	Size384 = 48
	Size512 = 64
)

// ErrUnsupportedVariant is returned when a name or size does not match any
// Kupyna variant.
var ErrUnsupportedVariant = errors.New("kupyna: unsupported variant")

type params struct {
	geo  *geometry
	size int
}

var variants = [...]params{
	Kupyna48:  {geo: &geometry512, size: Size48},
	Kupyna256: {geo: &geometry512, size: Size256},
	Kupyna384: {geo: &geometry1024, size: Size384},
	Kupyna512: {geo: &geometry1024, size: Size512},
}

// Valid reports whether v is one of the defined variants.
func (v Variant) Valid() bool { return int(v) < len(variants) }

// Size returns the digest length in bytes.
func (v Variant) Size() int { return v.params().size }

// BlockSize returns the message block size in bytes: 64 for the 512-bit
// state, 128 for the 1024-bit state.
func (v Variant) BlockSize() int { return v.params().geo.blockSize() }

// Rounds returns the number of rounds of each permutation.
func (v Variant) Rounds() int { return v.params().geo.rounds }

func (v Variant) String() string {
	if !v.Valid() {
		return "Kupyna(" + strconv.Itoa(int(v)) + ")"
	}
	return "Kupyna-" + strconv.Itoa(v.Size()*8)
}

func (v Variant) params() *params {
	if !v.Valid() {
		panic("kupyna: invalid variant " + strconv.Itoa(int(v)))
	}
	return &variants[v]
}

// VariantForSize returns the variant producing digests of the given bit
// length.
func VariantForSize(bits int) (Variant, error) {
	for v := range variants {
		if variants[v].size*8 == bits {
			return Variant(v), nil
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedVariant, "digest size %d bits", bits)
}

// ParseVariant accepts "Kupyna-256", "kupyna256" or "256" style names,
// ignoring case.
func ParseVariant(name string) (Variant, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "kupyna")
	s = strings.TrimPrefix(s, "-")
	bits, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(ErrUnsupportedVariant, "name %q", name)
	}
	v, err := VariantForSize(bits)
	if err != nil {
		return 0, errors.Wrapf(err, "name %q", name)
	}
	return v, nil
}
