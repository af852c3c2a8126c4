package readrows

import (
	"github.com/litetable/litetable-readrows/internal/chunk"
)

// cellAccumulator folds value fragments into the cell currently being built.
type cellAccumulator struct {
	buf        []byte
	remaining  int
	inProgress bool
}

// accumulate adds the chunk's value fragment to the cell. It returns the full value once
// the cell is complete. A single chunk without a value size is a whole cell; a split
// value completes only when the fragments add up to the size declared by the first one.
func (a *cellAccumulator) accumulate(c *chunk.Chunk) (bool, []byte, *ChunkSequenceError) {
	if !a.inProgress {
		if c.ValueSize <= 0 {
			return true, append([]byte{}, c.Value...), nil
		}

		remaining := int(c.ValueSize) - len(c.Value)
		if remaining < 0 {
			return false, nil, newError(ErrValueOverflow,
				"first fragment has %d bytes, declared size is %d", len(c.Value), c.ValueSize)
		}

		// the declared size is not trusted for allocation, the buffer grows with the data
		a.buf = append([]byte{}, c.Value...)
		a.remaining = remaining
		a.inProgress = true
		return false, nil, nil
	}

	a.remaining -= len(c.Value)
	if a.remaining < 0 {
		overflow := -a.remaining
		a.reset()
		return false, nil, newError(ErrValueOverflow, "fragments exceed declared size by %d bytes",
			overflow)
	}
	a.buf = append(a.buf, c.Value...)

	if a.remaining == 0 {
		value := a.buf
		a.reset()
		return true, value, nil
	}

	return false, nil, nil
}

// pending reports whether a multi-chunk value has started but not finished.
func (a *cellAccumulator) pending() bool {
	return a.inProgress
}

func (a *cellAccumulator) reset() {
	a.buf = nil
	a.remaining = 0
	a.inProgress = false
}
