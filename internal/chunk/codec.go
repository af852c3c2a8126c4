package chunk

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Field numbers of the cell chunk message on the wire.
const (
	fieldRowKey          protowire.Number = 1
	fieldFamilyName      protowire.Number = 2
	fieldQualifier       protowire.Number = 3
	fieldTimestampMicros protowire.Number = 4
	fieldLabels          protowire.Number = 5
	fieldValue           protowire.Number = 6
	fieldValueSize       protowire.Number = 7
	fieldResetRow        protowire.Number = 8
	fieldCommitRow       protowire.Number = 9
)

var (
	// ErrMalformedChunk is returned when bytes cannot be decoded into a Chunk.
	ErrMalformedChunk = errors.New("malformed chunk")
)

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedChunk, fmt.Sprintf(format, args...))
}

// Decode parses one protobuf encoded cell chunk. Unknown fields are skipped.
func Decode(buf []byte) (*Chunk, error) {
	c := &Chunk{}

	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return nil, malformed("tag: %v", protowire.ParseError(n))
		}
		buf = buf[n:]

		switch num {
		case fieldRowKey, fieldFamilyName, fieldQualifier, fieldLabels, fieldValue:
			if typ != protowire.BytesType {
				return nil, malformed("field %d: unexpected wire type %d", num, typ)
			}
			v, m := protowire.ConsumeBytes(buf)
			if m < 0 {
				return nil, malformed("field %d: %v", num, protowire.ParseError(m))
			}
			buf = buf[m:]
			if err := c.setBytesField(num, v); err != nil {
				return nil, err
			}
		case fieldTimestampMicros, fieldValueSize, fieldResetRow, fieldCommitRow:
			if typ != protowire.VarintType {
				return nil, malformed("field %d: unexpected wire type %d", num, typ)
			}
			v, m := protowire.ConsumeVarint(buf)
			if m < 0 {
				return nil, malformed("field %d: %v", num, protowire.ParseError(m))
			}
			buf = buf[m:]
			c.setVarintField(num, v)
		default:
			m := protowire.ConsumeFieldValue(num, typ, buf)
			if m < 0 {
				return nil, malformed("field %d: %v", num, protowire.ParseError(m))
			}
			buf = buf[m:]
		}
	}

	return c, nil
}

func (c *Chunk) setBytesField(num protowire.Number, v []byte) error {
	switch num {
	case fieldRowKey:
		c.RowKey = bytes.Clone(v)
	case fieldFamilyName:
		family := &wrapperspb.StringValue{}
		if err := proto.Unmarshal(v, family); err != nil {
			return malformed("family name: %v", err)
		}
		c.FamilyName = String(family.GetValue())
	case fieldQualifier:
		qualifier := &wrapperspb.BytesValue{}
		if err := proto.Unmarshal(v, qualifier); err != nil {
			return malformed("qualifier: %v", err)
		}
		// keep the qualifier non-nil so an empty qualifier stays present
		c.Qualifier = append([]byte{}, qualifier.GetValue()...)
	case fieldLabels:
		c.Labels = append(c.Labels, string(v))
	case fieldValue:
		c.Value = bytes.Clone(v)
	}
	return nil
}

func (c *Chunk) setVarintField(num protowire.Number, v uint64) {
	switch num {
	case fieldTimestampMicros:
		c.TimestampMicros = Int64(int64(v))
	case fieldValueSize:
		c.ValueSize = int32(v)
	case fieldResetRow:
		c.ResetRow = protowire.DecodeBool(v)
	case fieldCommitRow:
		c.CommitRow = protowire.DecodeBool(v)
	}
}

// Encode serializes a chunk into the protobuf wire format understood by Decode.
func Encode(c *Chunk) ([]byte, error) {
	var b []byte

	if len(c.RowKey) > 0 {
		b = protowire.AppendTag(b, fieldRowKey, protowire.BytesType)
		b = protowire.AppendBytes(b, c.RowKey)
	}
	if c.FamilyName != nil {
		family, err := proto.Marshal(wrapperspb.String(*c.FamilyName))
		if err != nil {
			return nil, fmt.Errorf("failed to encode family name: %w", err)
		}
		b = protowire.AppendTag(b, fieldFamilyName, protowire.BytesType)
		b = protowire.AppendBytes(b, family)
	}
	if c.Qualifier != nil {
		qualifier, err := proto.Marshal(wrapperspb.Bytes(c.Qualifier))
		if err != nil {
			return nil, fmt.Errorf("failed to encode qualifier: %w", err)
		}
		b = protowire.AppendTag(b, fieldQualifier, protowire.BytesType)
		b = protowire.AppendBytes(b, qualifier)
	}
	if c.TimestampMicros != nil {
		b = protowire.AppendTag(b, fieldTimestampMicros, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*c.TimestampMicros))
	}
	for _, label := range c.Labels {
		b = protowire.AppendTag(b, fieldLabels, protowire.BytesType)
		b = protowire.AppendString(b, label)
	}
	if len(c.Value) > 0 {
		b = protowire.AppendTag(b, fieldValue, protowire.BytesType)
		b = protowire.AppendBytes(b, c.Value)
	}
	if c.ValueSize != 0 {
		b = protowire.AppendTag(b, fieldValueSize, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(c.ValueSize)))
	}
	if c.ResetRow {
		b = protowire.AppendTag(b, fieldResetRow, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	if c.CommitRow {
		b = protowire.AppendTag(b, fieldCommitRow, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}

	return b, nil
}

// DecodeBase64 decodes a standard base64 encoded chunk, the form used by recorded
// acceptance fixtures.
func DecodeBase64(s string) (*Chunk, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, malformed("base64: %v", err)
	}
	return Decode(raw)
}

// EncodeBase64 is the inverse of DecodeBase64.
func EncodeBase64(c *Chunk) (string, error) {
	raw, err := Encode(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
