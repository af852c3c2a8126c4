package readrows

import (
	"testing"

	"github.com/litetable/litetable-readrows/internal/chunk"
	"github.com/stretchr/testify/require"
)

func TestCellAccumulator_Accumulate(t *testing.T) {
	t.Parallel()

	type step struct {
		chunk    *chunk.Chunk
		complete bool
		value    string
		err      error
	}

	tests := map[string][]step{
		"single chunk": {
			{chunk: &chunk.Chunk{Value: []byte("ab")}, complete: true, value: "ab"},
		},
		"empty value": {
			{chunk: &chunk.Chunk{}, complete: true, value: ""},
		},
		"split across three chunks": {
			{chunk: &chunk.Chunk{Value: []byte("he"), ValueSize: 5}},
			{chunk: &chunk.Chunk{Value: []byte("ll"), ValueSize: 5}},
			{chunk: &chunk.Chunk{Value: []byte("o")}, complete: true, value: "hello"},
		},
		"completes at declared size": {
			{chunk: &chunk.Chunk{Value: []byte("ab"), ValueSize: 4}},
			{chunk: &chunk.Chunk{Value: []byte("cd"), ValueSize: 4}, complete: true, value: "abcd"},
		},
		"fragment without size keeps waiting for the declared bytes": {
			{chunk: &chunk.Chunk{Value: []byte("ab"), ValueSize: 5}},
			{chunk: &chunk.Chunk{Value: []byte("c")}},
			{chunk: &chunk.Chunk{Value: []byte("de")}, complete: true, value: "abcde"},
		},
		"first fragment larger than declared": {
			{chunk: &chunk.Chunk{Value: []byte("abc"), ValueSize: 2}, err: ErrValueOverflow},
		},
		"continuation overflow": {
			{chunk: &chunk.Chunk{Value: []byte("ab"), ValueSize: 3}},
			{chunk: &chunk.Chunk{Value: []byte("cd")}, err: ErrValueOverflow},
		},
	}

	for name, steps := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var acc cellAccumulator
			for i, s := range steps {
				complete, value, err := acc.accumulate(s.chunk)
				if s.err != nil {
					require.ErrorIs(t, err, s.err, "step %d", i)
					require.False(t, acc.pending())
					return
				}
				require.Nil(t, err, "step %d", i)
				require.Equal(t, s.complete, complete, "step %d", i)
				if complete {
					require.NotNil(t, value)
					require.Equal(t, s.value, string(value))
				}
			}
			require.False(t, acc.pending())
		})
	}
}

func TestCellAccumulator_ValueIsCopied(t *testing.T) {
	t.Parallel()

	fragment := []byte("ab")
	var acc cellAccumulator
	_, value, err := acc.accumulate(&chunk.Chunk{Value: fragment})
	require.Nil(t, err)

	fragment[0] = 'x'
	require.Equal(t, "ab", string(value))
}

func TestCellAccumulator_ShortValueStaysPending(t *testing.T) {
	t.Parallel()

	var acc cellAccumulator
	complete, _, err := acc.accumulate(&chunk.Chunk{Value: []byte("he"), ValueSize: 5})
	require.Nil(t, err)
	require.False(t, complete)

	complete, value, err := acc.accumulate(&chunk.Chunk{Value: []byte("ll")})
	require.Nil(t, err)
	require.False(t, complete)
	require.Nil(t, value)
	require.True(t, acc.pending())
}

func TestCellAccumulator_DeclaredSizeDoesNotPreallocate(t *testing.T) {
	t.Parallel()

	var acc cellAccumulator
	complete, _, err := acc.accumulate(&chunk.Chunk{Value: []byte("a"), ValueSize: 1<<31 - 1})
	require.Nil(t, err)
	require.False(t, complete)
	require.True(t, acc.pending())
	require.LessOrEqual(t, cap(acc.buf), 64)
}
