// internal/record/codec.go
package record

import (
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// The payload codec is msgpack restricted to the record's closed value
// domain. Map keys are always encoded in sorted order so the same
// record marshals to the same bytes, which the payload checksum and
// dirty comparison both rely on.

var (
	_ msgpack.CustomEncoder = (*Value)(nil)
	_ msgpack.CustomDecoder = (*Value)(nil)
	_ msgpack.CustomEncoder = (*Record)(nil)
	_ msgpack.CustomDecoder = (*Record)(nil)
)

// Marshal serializes the record as one payload unit.
func (r *Record) Marshal() ([]byte, error) {
	return msgpack.Marshal(r)
}

// Unmarshal decodes a payload produced by Marshal (or any msgpack
// mapping within the record's value domain).
func Unmarshal(data []byte) (*Record, error) {
	r := New()
	if err := msgpack.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("record: decode payload: %w", err)
	}
	return r, nil
}

func (r *Record) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeMap(enc, r.fields)
}

func (r *Record) DecodeMsgpack(dec *msgpack.Decoder) error {
	fields, err := decodeMap(dec)
	if err != nil {
		return err
	}
	r.fields = fields
	return nil
}

func (v *Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.kind {
	case KindNil:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindInt:
		return enc.EncodeInt(v.n)
	case KindFloat:
		return enc.EncodeFloat64(v.f)
	case KindString:
		return enc.EncodeString(v.s)
	case KindList:
		if err := enc.EncodeArrayLen(len(v.list)); err != nil {
			return err
		}
		for i := range v.list {
			if err := v.list[i].EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		return encodeMap(enc, v.m)
	default:
		return fmt.Errorf("record: cannot encode kind %s", v.kind)
	}
}

func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	c, err := dec.PeekCode()
	if err != nil {
		return err
	}

	switch {
	case c == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return err
		}
		*v = Nil()

	case c == msgpcode.True || c == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return err
		}
		*v = Bool(b)

	case msgpcode.IsFixedNum(c) ||
		c == msgpcode.Int8 || c == msgpcode.Int16 || c == msgpcode.Int32 || c == msgpcode.Int64 ||
		c == msgpcode.Uint8 || c == msgpcode.Uint16 || c == msgpcode.Uint32 || c == msgpcode.Uint64:
		n, err := dec.DecodeInt64()
		if err != nil {
			return err
		}
		*v = Int(n)

	case c == msgpcode.Float || c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return err
		}
		*v = Float(f)

	case msgpcode.IsString(c):
		s, err := dec.DecodeString()
		if err != nil {
			return err
		}
		*v = String(s)

	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		items := make([]Value, n)
		for i := 0; i < n; i++ {
			if err := items[i].DecodeMsgpack(dec); err != nil {
				return err
			}
		}
		*v = Value{kind: KindList, list: items}

	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		m, err := decodeMap(dec)
		if err != nil {
			return err
		}
		*v = Value{kind: KindMap, m: m}

	default:
		return fmt.Errorf("record: unsupported msgpack code 0x%02x", c)
	}

	return nil
}

func encodeMap(enc *msgpack.Encoder, m map[string]Value) error {
	if err := enc.EncodeMapLen(len(m)); err != nil {
		return err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		v := m[k]
		if err := v.EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeMap(dec *msgpack.Decoder) (map[string]Value, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		// msgpack nil decodes as a -1 map length.
		return nil, fmt.Errorf("record: payload is not a mapping")
	}
	m := make(map[string]Value, n)
	for i := 0; i < n; i++ {
		k, err := dec.DecodeString()
		if err != nil {
			return nil, err
		}
		var v Value
		if err := v.DecodeMsgpack(dec); err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}
