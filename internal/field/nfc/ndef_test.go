// internal/field/nfc/ndef_test.go
package nfc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeURI(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want []byte
	}{
		{
			name: "https prefix abbreviated",
			url:  "https://g.co/r1",
			want: []byte{0xD1, 0x01, 0x08, 'U', 0x04, 'g', '.', 'c', 'o', '/', 'r', '1'},
		},
		{
			name: "https www prefix wins over https",
			url:  "https://www.example.com",
			want: []byte{0xD1, 0x01, 0x0C, 'U', 0x02, 'e', 'x', 'a', 'm', 'p', 'l', 'e', '.', 'c', 'o', 'm'},
		},
		{
			name: "no known prefix",
			url:  "geo:0,0",
			want: []byte{0xD1, 0x01, 0x08, 'U', 0x00, 'g', 'e', 'o', ':', '0', ',', '0'},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeURI(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeURIReviewLink(t *testing.T) {
	url := "https://search.google.com/local/writereview?placeid=ChIJTest123"

	msg, err := EncodeURI(url)
	require.NoError(t, err)

	// header: short record, well-known TNF, type U
	assert.Equal(t, byte(0xD1), msg[0])
	assert.Equal(t, byte(0x01), msg[1])
	assert.Equal(t, byte('U'), msg[3])
	// https:// abbreviated to one byte
	assert.Equal(t, byte(0x04), msg[4])
	assert.Equal(t, strings.TrimPrefix(url, "https://"), string(msg[5:]))
	assert.Equal(t, int(msg[2]), len(msg)-4)
}

func TestEncodeURIErrors(t *testing.T) {
	_, err := EncodeURI("")
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = EncodeURI("https://example.com/" + strings.Repeat("x", 300))
	assert.ErrorIs(t, err, ErrPayloadSize)
}

func TestEncodeEmpty(t *testing.T) {
	assert.Equal(t, []byte{0xD0, 0x00, 0x00}, EncodeEmpty())
}

func TestDecodeURIRoundTrip(t *testing.T) {
	urls := []string{
		"https://g.co/r1",
		"https://www.facebook.com/somebusiness/reviews",
		"http://example.com",
		"geo:53.48,-2.24",
	}

	for _, url := range urls {
		msg, err := EncodeURI(url)
		require.NoError(t, err)

		decoded, err := DecodeURI(msg)
		require.NoError(t, err)
		assert.Equal(t, url, decoded)
	}
}

func TestDecodeURIRejectsGarbage(t *testing.T) {
	_, err := DecodeURI([]byte{0xD0, 0x00, 0x00})
	assert.Error(t, err)

	_, err = DecodeURI(nil)
	assert.Error(t, err)
}
