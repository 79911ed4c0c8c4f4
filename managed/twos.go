package managed

import "math/big"

// ToSignedBytes encodes v as minimal big-endian two's complement.
// Zero encodes as the empty slice.
func ToSignedBytes(v *big.Int) []byte {
	switch v.Sign() {
	case 0:
		return []byte{}
	case 1:
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			return append([]byte{0}, b...)
		}
		return b
	}

	// |v|-1 has the same byte length as the encoding unless its top bit is set.
	m := new(big.Int).Neg(v)
	m.Sub(m, big.NewInt(1))
	mb := m.Bytes()
	n := len(mb)
	if n == 0 {
		n = 1
	} else if mb[0]&0x80 != 0 {
		n++
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	return mod.Add(mod, v).FillBytes(make([]byte, n))
}

// FromSignedBytes decodes big-endian two's complement. The empty slice is zero.
func FromSignedBytes(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		v.Sub(v, mod)
	}
	return v
}
