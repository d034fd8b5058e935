// Package bitpack packs 9-bit panel columns into the byte layout expected
// by the DRAW command.
package bitpack

const (
	// Width is the number of bits per column value.
	Width = 9
	// Mask keeps the low Width bits of a value.
	Mask = 1<<Width - 1
)

// PackedLen returns the number of bytes Pack produces for n values.
func PackedLen(n int) int {
	return (n*Width + 7) / 8
}

// Pack lays values out contiguously, least significant bit first, with no
// padding between them. Bits of the final value that would spill past the
// end of the buffer are dropped.
func Pack(values []uint16) []byte {
	buf := make([]byte, PackedLen(len(values)))

	for i, v := range values {
		value := uint(v) & Mask
		bitOffset := i * Width
		byteIndex := bitOffset / 8
		shift := uint(bitOffset % 8)

		buf[byteIndex] |= byte(value << shift)
		if byteIndex+1 < len(buf) {
			buf[byteIndex+1] |= byte(value >> (8 - shift))
		}
	}

	return buf
}

// Unpack extracts n values at the same 9-bit stride. Bits beyond the end of
// buf read as zero.
func Unpack(buf []byte, n int) []uint16 {
	values := make([]uint16, n)

	for i := range values {
		bitOffset := i * Width
		var v uint16
		for bit := 0; bit < Width; bit++ {
			pos := bitOffset + bit
			if pos/8 >= len(buf) {
				break
			}
			if buf[pos/8]&(1<<(pos%8)) != 0 {
				v |= 1 << bit
			}
		}
		values[i] = v
	}

	return values
}
