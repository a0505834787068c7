// internal/header/header_test.go
package header

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum_Empty(t *testing.T) {
	assert.Equal(t, NullCRC, Checksum(nil))
	assert.Equal(t, NullCRC, Checksum([]byte{}))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		h    Header
	}{
		{"fresh", New()},
		{"with payload", New().WithPayload([]byte("offsets and heater targets"))},
		{"page 1", Header{UID: uuid.New(), Timestamp: 1700000000, DataPage: 1, DataLength: 42, DataChecksum: 0xBEEF}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.h.Encode()
			require.Len(t, b, Size)

			got, err := Decode(b)
			require.NoError(t, err)
			assert.Equal(t, tc.h, got)
		})
	}
}

func TestEncode_Layout(t *testing.T) {
	h := Header{
		UID:          uuid.MustParse("0102030405060708090a0b0c0d0e0f10"),
		Timestamp:    0x01020304,
		DataPage:     2,
		DataLength:   0x1234,
		DataChecksum: 0xABCD,
	}
	b := h.Encode()

	assert.Equal(t, []byte{0xC0, 0xC0}, b[0:2], "magic")
	assert.Equal(t, byte(1), b[2], "version")
	assert.Equal(t, h.UID[:], b[3:19], "uid")
	assert.Equal(t, []byte{0, 0}, b[19:21], "padding must stay zero")
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b[21:25], "timestamp little-endian")
	assert.Equal(t, byte(2), b[25], "data page")
	assert.Equal(t, []byte{0x34, 0x12}, b[26:28], "data length little-endian")
	assert.Equal(t, []byte{0xAB, 0xCD}, b[28:30], "data crc high byte first")
	assert.Equal(t, Checksum(b[:30]), readCRC(b[30:32]), "header crc covers preceding bytes")
}

func TestDecode_ErrorRegions(t *testing.T) {
	valid := New().WithPayload([]byte("x")).Encode()

	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(valid[:Size-1])
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("magic", func(t *testing.T) {
		b := append([]byte(nil), valid...)
		b[0] ^= 0x01
		_, err := Decode(b)
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("version", func(t *testing.T) {
		b := append([]byte(nil), valid...)
		b[2] = Version + 1
		_, err := Decode(b)
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("any bit flip past the version byte", func(t *testing.T) {
		for off := 3; off < Size; off++ {
			for bit := 0; bit < 8; bit++ {
				b := append([]byte(nil), valid...)
				b[off] ^= 1 << bit
				_, err := Decode(b)
				assert.ErrorIs(t, err, ErrInvalidChecksum, "offset %d bit %d", off, bit)
			}
		}
	})
}

func TestWithPayload_CarriesIdentity(t *testing.T) {
	h := New()
	payload := []byte("profile state")

	u := h.WithPayload(payload)

	assert.Equal(t, h.UID, u.UID, "uid must never change after first initialization")
	assert.Equal(t, h.DataPage, u.DataPage)
	assert.Equal(t, uint16(len(payload)), u.DataLength)
	assert.Equal(t, Checksum(payload), u.DataChecksum)
}

func TestPayloadAddress(t *testing.T) {
	assert.Equal(t, 256, Header{}.PayloadAddress())
	assert.Equal(t, 512, Header{DataPage: 1}.PayloadAddress())
}

func TestSameContent_IgnoresTimestamp(t *testing.T) {
	h := New().WithPayload([]byte("data"))

	later := h
	later.Timestamp += 60

	assert.True(t, h.SameContent(later))

	other := later.WithPayload([]byte("different"))
	assert.False(t, h.SameContent(other))
}
