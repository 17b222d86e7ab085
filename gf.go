package kupyna

// reductionPoly is x^8 + x^4 + x^3 + x^2 + 1.
const reductionPoly = 0x11d

// gfMul multiplies x and y in GF(2^8) modulo reductionPoly.
func gfMul(x, y byte) byte {
	var p byte
	a := uint16(x)
	for y != 0 {
		if y&1 != 0 {
			p ^= byte(a)
		}
		a <<= 1
		if a&0x100 != 0 {
			a ^= reductionPoly
		}
		y >>= 1
	}
	return p
}
