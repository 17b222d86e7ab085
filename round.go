//go:build !purego

package kupyna

// round computes SubBytes, ShiftBytes and MixColumns with the fused lookup
// tables.
func round(g *geometry, dst, src []uint64) {
	roundTable(g, dst, src)
}
