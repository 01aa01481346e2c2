package importer

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode turns raw export bytes into text. A UTF-8 or UTF-16 byte order mark
// is honoured and stripped. Anything else that is not valid UTF-8 is read as
// Windows-1252, which older German bank exports use.
func Decode(data []byte) (string, error) {
	var dec transform.Transformer
	switch {
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE), utf8.Valid(data):
		dec = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	default:
		dec = charmap.Windows1252.NewDecoder()
	}
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
