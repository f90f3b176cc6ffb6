package vtcore

import "golang.org/x/text/encoding/charmap"

// ReceiveEncoding selects how host bytes are interpreted before VT
// parsing.
type ReceiveEncoding int

const (
	// ReceiveUTF8 treats host bytes as a UTF-8 stream. This is the
	// default; parseVT reassembles multi-byte sequences split across
	// chunk boundaries and replaces malformed ones with U+FFFD.
	ReceiveUTF8 ReceiveEncoding = iota
	// ReceiveRaw maps each byte 1:1 onto U+0000..U+00FF (Latin-1),
	// bypassing UTF-8 decoding entirely.
	ReceiveRaw
)

// streamDecoder applies the configured receive-encoding to a chunk of
// host bytes ahead of the ANSI parser. It is stateless: Latin-1 is a
// fixed-width encoding, so unlike UTF-8 there is no partial-sequence
// state to carry across calls.
type streamDecoder struct {
	enc ReceiveEncoding
}

// decode returns the chunk re-encoded as UTF-8 bytes suitable for
// parseVT, or nil when ReceiveUTF8 is active: the host bytes are
// already the UTF-8 stream parseVT expects and need no
// transformation of their own.
func (d *streamDecoder) decode(data []byte) []byte {
	if d.enc == ReceiveUTF8 {
		return nil
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// ISO-8859-1 has no undefined code points, so NewDecoder never
		// actually reports an error; the fallback just preserves data.
		return data
	}
	return out
}
