//go:build purego

package kupyna

func round(g *geometry, dst, src []uint64) {
	roundSteps(g, dst, src)
}
