package wasmhost

import (
	"fmt"

	"github.com/partite-ai/wasmadt/boundary"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

type stringEncoding int

const (
	stringEncodingUTF8 stringEncoding = iota
	stringEncodingUTF16
	stringEncodingLatin1
)

// readString lifts a string of length units from guest memory at ptr.
func readString(g guest, enc stringEncoding, ptr, length uint32) (string, error) {
	switch enc {
	case stringEncodingUTF8:
		bytes, ok := g.read(ptr, length)
		if !ok {
			return "", fmt.Errorf("%w: string bytes at ptr %d with length %d", ErrMemoryAccess, ptr, length)
		}
		return string(bytes), nil
	case stringEncodingUTF16:
		bytes, ok := g.read(ptr, length*2)
		if !ok {
			return "", fmt.Errorf("%w: string bytes at ptr %d with length %d", ErrMemoryAccess, ptr, length*2)
		}
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		decoded, err := decoder.Bytes(bytes)
		if err != nil {
			return "", fmt.Errorf("failed to decode utf16 string: %w", err)
		}
		return string(decoded), nil
	case stringEncodingLatin1:
		bytes, ok := g.read(ptr, length)
		if !ok {
			return "", fmt.Errorf("%w: string bytes at ptr %d with length %d", ErrMemoryAccess, ptr, length)
		}
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(bytes)
		if err != nil {
			return "", fmt.Errorf("failed to decode latin1 string: %w", err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("unsupported string encoding: %d", enc)
	}
}

// encodeString lowers s for the guest. The returned length is in the units
// the encoding counts: bytes for UTF-8 and Latin-1, code units for UTF-16.
func encodeString(enc stringEncoding, s string) ([]byte, uint32, error) {
	switch enc {
	case stringEncodingUTF8:
		return []byte(s), uint32(len(s)), nil
	case stringEncodingUTF16:
		encoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
		encoded, err := encoder.Bytes([]byte(s))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode utf16 string: %w", err)
		}
		return encoded, uint32(len(encoded) / 2), nil
	case stringEncodingLatin1:
		encoded, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode latin1 string: %w", err)
		}
		return encoded, uint32(len(encoded)), nil
	default:
		return nil, 0, fmt.Errorf("unsupported string encoding: %d", enc)
	}
}

// textOf renders a boundary value as the text a guest reads back: strings as
// they are, anything else in its diagnostic form.
func textOf(v boundary.Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return boundary.Format(v)
}
