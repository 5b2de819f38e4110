package xls

import (
	"encoding/binary"
	"math"
)

// float64LEProbe is the known little-endian IEEE-754 encoding of 1.2345,
// used to detect the host's float64 byte order the same way the original
// C library's bw_setbyteorder did: encode the constant and compare.
var float64LEProbe = [8]byte{0x8D, 0x97, 0x6E, 0x12, 0x83, 0xC0, 0xF3, 0x3F}

func reverseBytes8(b [8]byte) [8]byte {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// hostDoubleOrder reports which byte order this host's FPU uses to
// represent float64, or ErrEndiannessUnsupported if neither the raw nor
// the reversed probe matches the known encoding.
func hostDoubleOrder() (binary.ByteOrder, error) {
	var probe [8]byte
	binary.NativeEndian.PutUint64(probe[:], math.Float64bits(1.2345))

	if probe == float64LEProbe {
		return binary.LittleEndian, nil
	}
	if reverseBytes8(probe) == float64LEProbe {
		return binary.BigEndian, nil
	}
	return nil, ErrEndiannessUnsupported
}

// octetBuffer is a growable byte vector with little-endian, big-endian and
// host-to-little-endian-double writers. Every writer appends; there is no
// prepend here — prepend lives on streamAccumulator, one level up, since it
// only ever applies to whole records.
type octetBuffer struct {
	data []byte
}

func newOctetBuffer() *octetBuffer {
	return &octetBuffer{data: make([]byte, 0, 16)}
}

func (b *octetBuffer) Bytes() []byte { return b.data }
func (b *octetBuffer) Len() int      { return len(b.data) }

func (b *octetBuffer) putRaw(p []byte) {
	b.data = append(b.data, p...)
}

func (b *octetBuffer) putZero(n int) {
	for i := 0; i < n; i++ {
		b.data = append(b.data, 0)
	}
}

func (b *octetBuffer) putU8(v uint8) {
	b.data = append(b.data, v)
}

func (b *octetBuffer) putU16LE(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

func (b *octetBuffer) putU16BE(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

func (b *octetBuffer) putU32LE(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

func (b *octetBuffer) putU32BE(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.data = append(b.data, tmp[:]...)
}

// putDoubleLE writes v as 8-byte IEEE-754 little-endian, regardless of host
// endianness (reversing the host's native bytes when the host is
// big-endian).
func (b *octetBuffer) putDoubleLE(v float64) error {
	order, err := hostDoubleOrder()
	if err != nil {
		return err
	}

	var raw [8]byte
	binary.NativeEndian.PutUint64(raw[:], math.Float64bits(v))
	if order == binary.BigEndian {
		raw = reverseBytes8(raw)
	}
	b.data = append(b.data, raw[:]...)
	return nil
}
