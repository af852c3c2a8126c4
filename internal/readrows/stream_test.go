package readrows

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/litetable/litetable-readrows/internal/chunk"
	"github.com/litetable/litetable-readrows/internal/litetable"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg   *Config
		error error
	}{
		"missing source": {
			cfg:   &Config{},
			error: errors.New("source cannot be nil"),
		},
		"valid config": {
			cfg: &Config{Source: NewSliceSource(nil)},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := New(test.cfg)
			req := require.New(t)
			if test.error != nil {
				req.Nil(got)
				req.EqualError(err, test.error.Error())
				return
			}
			req.NoError(err)
			req.NotEmpty(got.ID())
		})
	}
}

func TestNew_Logger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	stream, err := New(&Config{
		Source: NewSliceSource([]*chunk.Chunk{{CommitRow: true}}),
		Logger: &logger,
	})
	require.NoError(t, err)

	_, err = stream.Next()
	require.ErrorIs(t, err, ErrCommitWithoutRow)
	require.Contains(t, buf.String(), `"scan":"`+stream.ID()+`"`)
	require.Contains(t, buf.String(), "malformed chunk sequence")
}

func TestStream_Next(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Recv().Return(first("r1", 1, "a"), nil),
		src.EXPECT().Recv().Return(&chunk.Chunk{CommitRow: true}, nil),
		src.EXPECT().Recv().Return(nil, nil),
		src.EXPECT().Recv().Return(&chunk.Chunk{CommitRow: true}, nil),
		src.EXPECT().Recv().Return(first("r2", 1, "b"), nil),
		src.EXPECT().Recv().Return(nil, io.EOF),
	)

	stream, err := New(&Config{Source: src})
	require.NoError(t, err)

	r, err := stream.Next()
	require.NoError(t, err)
	require.Equal(t, row("r1", fam("cf", col("q", cell("a", 1), cell("", 1)))), r)

	r, err = stream.Next()
	require.Nil(t, r)
	require.ErrorIs(t, err, ErrCommitWithoutRow)
	require.True(t, IsSequenceError(err))

	r, err = stream.Next()
	require.Nil(t, r)
	require.ErrorIs(t, err, ErrIncompleteRow)

	// the source is not polled again once it has ended
	_, err = stream.Next()
	require.ErrorIs(t, err, io.EOF)
	_, err = stream.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestStream_TransportFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("connection reset")
	src := NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Recv().Return(committed(first("r1", 1, "a")), nil),
		src.EXPECT().Recv().Return(first("r2", 1, "b"), nil),
		src.EXPECT().Recv().Return(nil, boom),
	)

	stream, err := New(&Config{Source: src})
	require.NoError(t, err)

	rows, seqErrs, err := stream.Collect()
	require.ErrorIs(t, err, boom)
	require.False(t, IsSequenceError(err))
	require.Empty(t, seqErrs)
	require.Equal(t, []*litetable.Row{row("r1", fam("cf", col("q", cell("a", 1))))}, rows)

	// a failed stream stays failed
	_, err = stream.Next()
	require.ErrorIs(t, err, boom)
}

func TestStream_All(t *testing.T) {
	t.Parallel()

	stream, err := New(&Config{Source: NewSliceSource([]*chunk.Chunk{
		committed(first("r1", 1, "a")),
		first("r2", 1, "b"),
		first("r3", 1, "c"),
		{CommitRow: true},
		committed(first("r4", 1, "d")),
	})})
	require.NoError(t, err)

	var keys []string
	var errs []error
	for r, err := range stream.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		keys = append(keys, string(r.Key))
	}

	require.Equal(t, []string{"r1", "r4"}, keys)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrDuplicateRowKey)
}

func TestStream_AllStopsEarly(t *testing.T) {
	t.Parallel()

	stream, err := New(&Config{Source: NewSliceSource([]*chunk.Chunk{
		committed(first("r1", 1, "a")),
		committed(first("r2", 1, "b")),
	})})
	require.NoError(t, err)

	for r := range stream.All() {
		require.Equal(t, "r1", string(r.Key))
		break
	}

	r, err := stream.Next()
	require.NoError(t, err)
	require.Equal(t, "r2", string(r.Key))
}
