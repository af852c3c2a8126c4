package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestDecodeBase64(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		encoded string
		want    *Chunk
		err     error
	}{
		"full cell with commit": {
			encoded: "CgJSSxIDCgFBGgMKAUMgZDIBdkgB",
			want: &Chunk{
				RowKey:          []byte("RK"),
				FamilyName:      String("A"),
				Qualifier:       []byte("C"),
				TimestampMicros: Int64(100),
				Value:           []byte("v"),
				CommitRow:       true,
			},
		},
		"empty qualifier is present": {
			encoded: "GgA=",
			want:    &Chunk{Qualifier: []byte{}},
		},
		"labels value size and reset": {
			encoded: "KgFMOApAAQ==",
			want: &Chunk{
				Labels:    []string{"L"},
				ValueSize: 10,
				ResetRow:  true,
			},
		},
		"empty chunk": {
			encoded: "",
			want:    &Chunk{},
		},
		"invalid base64": {
			encoded: "not base64!",
			err:     ErrMalformedChunk,
		},
		"truncated bytes field": {
			encoded: "CgVSSw==",
			err:     ErrMalformedChunk,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeBase64(test.encoded)
			if test.err != nil {
				require.ErrorIs(t, err, test.err)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestDecode_SkipsUnknownFields(t *testing.T) {
	t.Parallel()

	var b []byte
	b = protowire.AppendTag(b, 15, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)
	b = protowire.AppendTag(b, fieldRowKey, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("RK"))

	got, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, &Chunk{RowKey: []byte("RK")}, got)
}

func TestDecode_WrongWireType(t *testing.T) {
	t.Parallel()

	var b []byte
	b = protowire.AppendTag(b, fieldCommitRow, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("x"))

	_, err := Decode(b)
	require.ErrorIs(t, err, ErrMalformedChunk)
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := map[string]*Chunk{
		"full cell": {
			RowKey:          []byte("RK"),
			FamilyName:      String("A"),
			Qualifier:       []byte("C"),
			TimestampMicros: Int64(100),
			Value:           []byte("v"),
			CommitRow:       true,
		},
		"continuation":    {Value: []byte("ue"), ValueSize: 0},
		"split first":     {Value: []byte("va"), ValueSize: 5},
		"empty qualifier": {FamilyName: String(""), Qualifier: []byte{}},
		"labels":          {Labels: []string{"a", "b"}},
		"reset":           {ResetRow: true},
	}

	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			encoded, err := Encode(c)
			require.NoError(t, err)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			require.Equal(t, c.RowKey, decoded.RowKey)
			require.Equal(t, c.FamilyName, decoded.FamilyName)
			require.Equal(t, c.Qualifier == nil, decoded.Qualifier == nil)
			require.Equal(t, string(c.Qualifier), string(decoded.Qualifier))
			require.Equal(t, c.TimestampMicros, decoded.TimestampMicros)
			require.Equal(t, c.Labels, decoded.Labels)
			require.Equal(t, string(c.Value), string(decoded.Value))
			require.Equal(t, c.ValueSize, decoded.ValueSize)
			require.Equal(t, c.ResetRow, decoded.ResetRow)
			require.Equal(t, c.CommitRow, decoded.CommitRow)
		})
	}
}

func TestEncodeBase64_KnownVector(t *testing.T) {
	t.Parallel()

	got, err := EncodeBase64(&Chunk{
		RowKey:          []byte("RK"),
		FamilyName:      String("A"),
		Qualifier:       []byte("C"),
		TimestampMicros: Int64(100),
		Value:           []byte("v"),
		CommitRow:       true,
	})
	require.NoError(t, err)
	require.Equal(t, "CgJSSxIDCgFBGgMKAUMgZDIBdkgB", got)
}
