package xls

import "golang.org/x/text/encoding/unicode"

// utf16LEName encodes an ASCII stream/property name as UTF-16LE for OLE2
// property-storage directory entries, which Microsoft's Compound File
// Binary format requires regardless of how plain the name is (always
// "Root Entry" / "Book" here). Kept from the teacher's go.mod, retargeted
// from BIFF8 SST-string encoding (spec.md excludes SST) to this use.
var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func utf16LEName(name string) []byte {
	b, err := utf16LE.NewEncoder().Bytes([]byte(name))
	if err != nil {
		// Names used here are always ASCII literals ("Root Entry", "Book");
		// a real encoding failure would indicate a programmer error.
		panic(err)
	}
	return b
}
