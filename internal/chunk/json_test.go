package chunk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunk_JSON(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want *Chunk
	}{
		"absent qualifier": {
			in:   `{"rowKey":"Uks=","commitRow":true}`,
			want: &Chunk{RowKey: []byte("RK"), CommitRow: true},
		},
		"empty qualifier": {
			in:   `{"familyName":"A","qualifier":""}`,
			want: &Chunk{FamilyName: String("A"), Qualifier: []byte{}},
		},
		"empty labels clear sticky labels": {
			in:   `{"labels":[],"value":"dg=="}`,
			want: &Chunk{Labels: []string{}, Value: []byte("v")},
		},
		"labels": {
			in:   `{"labels":["L"]}`,
			want: &Chunk{Labels: []string{"L"}},
		},
		"zero timestamp is present": {
			in:   `{"timestampMicros":0,"value":"dg==","valueSize":3}`,
			want: &Chunk{TimestampMicros: Int64(0), Value: []byte("v"), ValueSize: 3},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := &Chunk{}
			require.NoError(t, json.Unmarshal([]byte(test.in), got))
			require.Equal(t, test.want, got)

			out, err := json.Marshal(got)
			require.NoError(t, err)
			require.JSONEq(t, test.in, string(out))
		})
	}
}

func TestChunk_HasCellData(t *testing.T) {
	t.Parallel()

	require.False(t, (&Chunk{ResetRow: true}).HasCellData())
	require.False(t, (&Chunk{CommitRow: true}).HasCellData())
	require.True(t, (&Chunk{Qualifier: []byte{}}).HasCellData())
	require.True(t, (&Chunk{ValueSize: 1}).HasCellData())
	require.False(t, (&Chunk{RowKey: []byte{}}).HasRowKey())
}
