// internal/header/header.go

// Package header implements the fixed on-tool memory header format.
//
// The header is 32 bytes long so it fits on a single eeprom page.
// Layout (little-endian):
//
//	magic(2) | version(1) | uid(16) | pad(2) | timestamp(4) |
//	data_page(1) | data_length(2) | data_crc16(2) | header_crc16(2)
//
// Checksum fields hold the CRC high byte first. Changes to the header
// MUST remain backwards compatible; the two padding bytes are reserved
// for future use and are written as zero.
package header

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sigurn/crc16"
)

// Size is the encoded header length in bytes.
const Size = 32

// Version is the single header revision this build can read and write.
const Version = 1

// NullCRC is the CRC-16/CCITT of an empty byte sequence. It is the
// placeholder stored in data_checksum while no payload exists.
const NullCRC uint16 = 0xFFFF

// pageSize is the eeprom page granularity used for payload addressing.
const pageSize = 256

var (
	ErrInvalidMagic    = errors.New("header: invalid magic")
	ErrInvalidVersion  = errors.New("header: unsupported version")
	ErrInvalidChecksum = errors.New("header: checksum mismatch")
	ErrTruncated       = errors.New("header: truncated")
)

var magic = [2]byte{0xC0, 0xC0}

var crcTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// Checksum computes the CRC-16/CCITT used for both the header and the
// payload. Checksum(nil) == NullCRC.
func Checksum(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}

// Header describes where the serialized record lives on the device and
// how to detect its corruption. Headers are immutable values: updates
// construct a new Header, never mutate in place.
type Header struct {
	// UID is assigned once on first initialization of a device and is
	// stable across all subsequent saves. Per-tool data elsewhere is
	// keyed by it.
	UID uuid.UUID

	// Timestamp is the UTC time of the last successful save, in
	// seconds since the epoch.
	Timestamp uint32

	// DataPage selects the payload's base page.
	DataPage uint8

	// DataLength is the byte length of the serialized payload.
	DataLength uint16

	// DataChecksum is the CRC-16 of the payload bytes.
	DataChecksum uint16
}

// New returns a fresh header for a never-initialized device: a new
// random uid, no payload.
func New() Header {
	return Header{
		UID:          uuid.New(),
		Timestamp:    nowUTC(),
		DataChecksum: NullCRC,
	}
}

// Decode parses and validates an encoded header. The magic and version
// are checked before the checksum so each region reports its own error.
func Decode(b []byte) (Header, error) {
	if len(b) < Size {
		return Header{}, ErrTruncated
	}
	b = b[:Size]

	if b[0] != magic[0] || b[1] != magic[1] {
		return Header{}, ErrInvalidMagic
	}
	if b[2] != Version {
		return Header{}, ErrInvalidVersion
	}
	if Checksum(b[:Size-2]) != readCRC(b[Size-2:]) {
		return Header{}, ErrInvalidChecksum
	}

	uid, err := uuid.FromBytes(b[3:19])
	if err != nil {
		return Header{}, err
	}

	return Header{
		UID:          uid,
		Timestamp:    binary.LittleEndian.Uint32(b[21:25]),
		DataPage:     b[25],
		DataLength:   binary.LittleEndian.Uint16(b[26:28]),
		DataChecksum: readCRC(b[28:30]),
	}, nil
}

// Encode serializes the header, computing the trailing header checksum
// over everything that precedes it.
func (h Header) Encode() []byte {
	var b [Size]byte

	b[0], b[1] = magic[0], magic[1]
	b[2] = Version
	copy(b[3:19], h.UID[:])
	// b[19:21] padding, zero
	binary.LittleEndian.PutUint32(b[21:25], h.Timestamp)
	b[25] = h.DataPage
	binary.LittleEndian.PutUint16(b[26:28], h.DataLength)
	putCRC(b[28:30], h.DataChecksum)
	putCRC(b[30:32], Checksum(b[:Size-2]))

	return b[:]
}

// WithPayload returns a new header updated for the provided payload
// bytes: fresh timestamp, recomputed length and payload checksum. The
// uid and data page are carried over unchanged.
func (h Header) WithPayload(payload []byte) Header {
	h.Timestamp = nowUTC()
	h.DataLength = uint16(len(payload))
	h.DataChecksum = Checksum(payload)
	return h
}

// PayloadAddress is the device address the payload is stored at. The
// payload always starts on the page after the header's page, leaving
// room for header-only pages to grow.
func (h Header) PayloadAddress() int {
	return pageSize * (int(h.DataPage) + 1)
}

// SameContent reports whether two headers describe the same stored
// record. The timestamp is deliberately excluded: every save rewrites
// it, so including it would defeat unchanged-data detection.
func (h Header) SameContent(o Header) bool {
	return h.UID == o.UID &&
		h.DataPage == o.DataPage &&
		h.DataLength == o.DataLength &&
		h.DataChecksum == o.DataChecksum
}

// Time returns the last-save timestamp as a time.Time in UTC.
func (h Header) Time() time.Time {
	return time.Unix(int64(h.Timestamp), 0).UTC()
}

func nowUTC() uint32 {
	return uint32(time.Now().UTC().Unix())
}

// CRC fields are stored high byte first, matching the byte order the
// device protocol uses for its checksums.
func readCRC(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func putCRC(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}
