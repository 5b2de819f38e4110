package xls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHostDoubleOrderDetectsKnownEncoding(t *testing.T) {
	order, err := hostDoubleOrder()
	require.NoError(t, err)
	require.Contains(t, []string{"LittleEndian", "BigEndian"}, order.String())
}

func TestOctetBufferPutDoubleLEMatchesKnownBytes(t *testing.T) {
	buf := newOctetBuffer()
	require.NoError(t, buf.putDoubleLE(1.2345))
	require.Equal(t, float64LEProbe[:], buf.Bytes())
}

func TestOctetBufferLittleEndianWriters(t *testing.T) {
	buf := newOctetBuffer()
	buf.putU16LE(0x1234)
	buf.putU32LE(0x89ABCDEF)
	require.Equal(t, []byte{0x34, 0x12, 0xEF, 0xCD, 0xAB, 0x89}, buf.Bytes())
}

func TestOctetBufferPutZero(t *testing.T) {
	buf := newOctetBuffer()
	buf.putU8(0xFF)
	buf.putZero(3)
	require.Equal(t, []byte{0xFF, 0, 0, 0}, buf.Bytes())
}
