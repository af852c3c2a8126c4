package readrows

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ChunkSequenceError. Match them with errors.Is.
var (
	ErrDuplicateRowKey      = errors.New("duplicate row key")
	ErrValueOverflow        = errors.New("value continuation overflow")
	ErrCommitWithoutRow     = errors.New("commit without row")
	ErrCommitIncompleteCell = errors.New("commit with incomplete cell")
	ErrInterruptedCell      = errors.New("cell key changed before value completed")
	ErrMissingRowKey        = errors.New("missing row key")
	ErrMissingFamily        = errors.New("missing family")
	ErrMissingQualifier     = errors.New("family without qualifier")
	ErrIncompleteRow        = errors.New("incomplete row at end of stream")

	// strict mode only
	ErrBareReset     = errors.New("reset without row")
	ErrResetWithData = errors.New("reset with data")
	ErrRowKeyOrder   = errors.New("row key out of order")
)

// ChunkSequenceError reports a malformed chunk sequence. It wraps one of the sentinel
// errors above, so callers match it with errors.Is. A sequence error never ends the
// stream: the assembler discards the malformed group and carries on.
type ChunkSequenceError struct {
	err     error  // The underlying sentinel error
	context string // Additional error context
	// RowKey is the key of the row that was being assembled, if any.
	RowKey []byte
}

// Error satisfies the error interface
func (e *ChunkSequenceError) Error() string {
	if e.context == "" {
		return "chunk sequence error: " + e.err.Error()
	}
	return fmt.Sprintf("chunk sequence error: %s: %s", e.err.Error(), e.context)
}

// Unwrap implements the errors.Unwrap interface for compatibility with errors.Is/As
func (e *ChunkSequenceError) Unwrap() error {
	return e.err
}

// Reason is the sentinel message without context, suitable as a metric label.
func (e *ChunkSequenceError) Reason() string {
	return e.err.Error()
}

// newError creates a new sequence error with context
func newError(err error, format string, args ...interface{}) *ChunkSequenceError {
	return &ChunkSequenceError{
		err:     err,
		context: fmt.Sprintf(format, args...),
	}
}

// IsSequenceError reports whether err is a recoverable ChunkSequenceError.
func IsSequenceError(err error) bool {
	var seqErr *ChunkSequenceError
	return errors.As(err, &seqErr)
}
