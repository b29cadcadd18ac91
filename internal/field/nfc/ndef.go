// internal/field/nfc/ndef.go
package nfc

import "strings"

// The NDEF URI record abbreviation table (NFC Forum URI RTD). The first
// payload byte selects a prefix; the rest of the URL follows verbatim.
// Longer prefixes are listed first so "https://www." wins over "https://".
var uriPrefixes = []struct {
	code   byte
	prefix string
}{
	{0x01, "http://www."},
	{0x02, "https://www."},
	{0x03, "http://"},
	{0x04, "https://"},
	{0x05, "tel:"},
	{0x06, "mailto:"},
}

// Short NDEF records carry at most one length byte of payload.
const maxShortPayload = 255

// EncodeURI builds a complete single-record NDEF message for url: a
// short record with MB and ME set, well-known TNF, type "U", and the
// abbreviated payload.
func EncodeURI(url string) ([]byte, error) {
	if url == "" {
		return nil, ErrEmptyPayload
	}

	code := byte(0x00)
	rest := url
	for _, p := range uriPrefixes {
		if strings.HasPrefix(url, p.prefix) {
			code = p.code
			rest = url[len(p.prefix):]
			break
		}
	}

	payloadLen := 1 + len(rest)
	if payloadLen > maxShortPayload {
		return nil, ErrPayloadSize
	}

	msg := make([]byte, 0, 4+payloadLen)
	msg = append(msg,
		0xD1, // MB|ME|SR, TNF=well-known
		0x01, // type length
		byte(payloadLen),
		'U',
		code,
	)
	msg = append(msg, rest...)
	return msg, nil
}

// EncodeEmpty returns the empty NDEF message used to erase a tag: one
// short record with TNF=empty and no type or payload.
func EncodeEmpty() []byte {
	return []byte{0xD0, 0x00, 0x00}
}

// DecodeURI reverses EncodeURI. It is used by the post-write read-back
// check to confirm the tag carries the URL that was just written.
func DecodeURI(msg []byte) (string, error) {
	if len(msg) < 5 || msg[0] != 0xD1 || msg[1] != 0x01 || msg[3] != 'U' {
		return "", ErrEmptyPayload
	}

	payloadLen := int(msg[2])
	if payloadLen < 1 || len(msg) != 4+payloadLen {
		return "", ErrPayloadSize
	}

	prefix := ""
	for _, p := range uriPrefixes {
		if p.code == msg[4] {
			prefix = p.prefix
			break
		}
	}

	return prefix + string(msg[5:]), nil
}
