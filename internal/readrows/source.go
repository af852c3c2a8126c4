package readrows

import (
	"io"

	"github.com/litetable/litetable-readrows/internal/chunk"
)

// sliceSource replays chunks that are already in memory.
type sliceSource struct {
	chunks []*chunk.Chunk
	next   int
}

// NewSliceSource returns a Source that yields chunks in order and then io.EOF.
func NewSliceSource(chunks []*chunk.Chunk) Source {
	return &sliceSource{chunks: chunks}
}

func (s *sliceSource) Recv() (*chunk.Chunk, error) {
	if s.next >= len(s.chunks) {
		return nil, io.EOF
	}
	c := s.chunks[s.next]
	s.next++
	return c, nil
}
