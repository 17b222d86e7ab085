package kupyna

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestVariantParameters(t *testing.T) {
	cases := []struct {
		v         Variant
		size      int
		blockSize int
		rounds    int
		name      string
	}{
		{Kupyna48, 6, 64, 10, "Kupyna-48"},
		{Kupyna256, 32, 64, 10, "Kupyna-256"},
		{Kupyna384, 48, 128, 14, "Kupyna-384"},
		{Kupyna512, 64, 128, 14, "Kupyna-512"},
	}
	for _, c := range cases {
		require.True(t, c.v.Valid())
		require.Equal(t, c.size, c.v.Size())
		require.Equal(t, c.blockSize, c.v.BlockSize())
		require.Equal(t, c.rounds, c.v.Rounds())
		require.Equal(t, c.name, c.v.String())
	}

	bad := Variant(9)
	require.False(t, bad.Valid())
	require.Equal(t, "Kupyna(9)", bad.String())
	require.PanicsWithValue(t, "kupyna: invalid variant 9", func() { New(bad) })
}

func TestVariantForSize(t *testing.T) {
	for _, bits := range []int{48, 256, 384, 512} {
		v, err := VariantForSize(bits)
		require.NoError(t, err)
		require.Equal(t, bits, v.Size()*8)
	}
	_, err := VariantForSize(224)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnsupportedVariant))
}

func TestParseVariant(t *testing.T) {
	for name, want := range map[string]Variant{
		"Kupyna-48":   Kupyna48,
		"kupyna256":   Kupyna256,
		" KUPYNA-384": Kupyna384,
		"512":         Kupyna512,
	} {
		v, err := ParseVariant(name)
		require.NoError(t, err, name)
		require.Equal(t, want, v, name)
	}

	for _, name := range []string{"", "kupyna", "sha-256", "kupyna-128"} {
		_, err := ParseVariant(name)
		require.Error(t, err, name)
		require.ErrorIs(t, err, ErrUnsupportedVariant, name)
		require.Contains(t, err.Error(), "kupyna: unsupported variant")
	}
}
