package bitpack_test

import (
	"math/rand/v2"
	"testing"

	"codeberg.org/mutker/ledmatrixctl/internal/bitpack"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPackKnownVectors(t *testing.T) {
	tests := []struct {
		name string
		in   []uint16
		want []byte
	}{
		{"empty", nil, []byte{}},
		{"single value", []uint16{0b101010101}, []byte{0x55, 0x01}},
		{"two values", []uint16{0b111111111, 0b000000000}, []byte{0xFF, 0x01, 0x00}},
		{"values spanning bytes", []uint16{0b111111111, 0b000000000, 0b111111111}, []byte{0xFF, 0x01, 0xFC, 0x07}},
		{"masks to nine bits", []uint16{0xFFFF}, []byte{0xFF, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, bitpack.Pack(tt.in)); diff != "" {
				t.Errorf("Pack() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPackFinalValueEndsOnByteBoundary(t *testing.T) {
	// Eight values fill exactly nine bytes; the last one starts at bit 7 of
	// byte 7 and its spill occupies all of byte 8.
	in := make([]uint16, 8)
	in[7] = 0x1FF
	got := bitpack.Pack(in)

	assert.Len(t, got, 9)
	assert.Equal(t, byte(0x80), got[7])
	assert.Equal(t, byte(0xFF), got[8])
}

func TestPackLengthAndRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for n := 0; n <= 64; n++ {
		in := make([]uint16, n)
		for i := range in {
			in[i] = uint16(r.IntN(1 << 16))
		}

		packed := bitpack.Pack(in)
		assert.Len(t, packed, (n*9+7)/8, "n=%d", n)
		assert.Equal(t, bitpack.PackedLen(n), len(packed))

		out := bitpack.Unpack(packed, n)
		for i := range in {
			assert.Equal(t, in[i]&bitpack.Mask, out[i], "n=%d i=%d", n, i)
		}
	}
}

func TestPackIsDeterministic(t *testing.T) {
	in := []uint16{0x1FF, 0x0AA, 0x155, 0x001, 0x100}
	first := bitpack.Pack(in)
	second := bitpack.Pack(in)

	assert.Equal(t, first, second)
	assert.Equal(t, []uint16{0x1FF, 0x0AA, 0x155, 0x001, 0x100}, in, "input must not be modified")
}
