package readrows

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/google/uuid"
	"github.com/litetable/litetable-readrows/internal/chunk"
	"github.com/litetable/litetable-readrows/internal/litetable"
	"github.com/litetable/litetable-readrows/internal/observability"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:generate mockgen -destination=stream_mock.go -package=readrows -source=stream.go

// Source delivers the chunks of one scan attempt in arrival order. Recv returns io.EOF once
// the scan has ended; any other error is a transport failure.
type Source interface {
	Recv() (*chunk.Chunk, error)
}

// Stream turns the chunks of a Source into rows. It holds at most one row in memory.
type Stream struct {
	id        string
	source    Source
	assembler *Assembler
	logger    zerolog.Logger

	// done is set once the source is exhausted or failed; err is returned from then on
	done bool
	err  error

	chunks    int
	rows      int
	seqErrors int
}

// Config configures a Stream.
type Config struct {
	Source Source
	// Strict enables the additional sequence checks of NewAssembler.
	Strict bool
	// Logger is the parent of the scan logger. The global logger is used when nil.
	Logger *zerolog.Logger
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Source == nil {
		errGrp = append(errGrp, errors.New("source cannot be nil"))
	}
	return errors.Join(errGrp...)
}

// New returns a stream for a single scan attempt. Streams are not restartable: a retried
// scan needs a new Stream.
func New(cfg *Config) (*Stream, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	parent := log.Logger
	if cfg.Logger != nil {
		parent = *cfg.Logger
	}

	id := uuid.NewString()
	return &Stream{
		id:        id,
		source:    cfg.Source,
		assembler: NewAssembler(cfg.Strict),
		logger:    parent.With().Str("scan", id).Logger(),
	}, nil
}

// ID identifies the scan in logs.
func (s *Stream) ID() string {
	return s.id
}

// Next returns the next committed row.
//
// A malformed chunk group is reported as a *ChunkSequenceError and the stream stays
// usable: call Next again to continue with the following rows. Once the source ends Next
// returns io.EOF. A transport failure is returned wrapped and ends the stream.
func (s *Stream) Next() (*litetable.Row, error) {
	if s.done {
		return nil, s.err
	}

	for {
		c, err := s.source.Recv()
		if errors.Is(err, io.EOF) {
			s.done = true
			s.err = io.EOF

			emission := s.assembler.Finish()
			s.logger.Debug().
				Int("chunks", s.chunks).
				Int("rows", s.rows).
				Int("errors", s.seqErrors).
				Msg("scan finished")
			if emission.Err != nil {
				return nil, s.report(emission.Err)
			}
			return nil, io.EOF
		}
		if err != nil {
			s.done = true
			s.err = fmt.Errorf("failed to receive chunk: %w", err)
			s.logger.Error().Err(err).Int("rows", s.rows).Msg("scan aborted")
			return nil, s.err
		}
		if c == nil {
			continue
		}

		s.chunks++
		observability.RecordChunk(c.ResetRow)

		emission := s.assembler.Apply(c)
		switch {
		case emission.Row != nil:
			s.rows++
			observability.RecordRow(emission.Row.CellCount())
			s.logger.Debug().
				Bytes("row", emission.Row.Key).
				Int("families", len(emission.Row.Families)).
				Msg("row committed")
			return emission.Row, nil
		case emission.Err != nil:
			return nil, s.report(emission.Err)
		}
	}
}

func (s *Stream) report(err *ChunkSequenceError) error {
	s.seqErrors++
	observability.RecordSequenceError(err.Reason())
	s.logger.Warn().Err(err).Bytes("row", err.RowKey).Msg("malformed chunk sequence")
	return err
}

// All ranges over the remaining rows and sequence errors. Iteration stops when the source
// ends, or after yielding a transport error.
func (s *Stream) All() iter.Seq2[*litetable.Row, error] {
	return func(yield func(*litetable.Row, error) bool) {
		for {
			row, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(row, err) {
				return
			}
			if err != nil && !IsSequenceError(err) {
				return
			}
		}
	}
}

// Collect drains the stream and returns every row along with every sequence error, in
// order. A transport error stops collection and is returned.
func (s *Stream) Collect() ([]*litetable.Row, []error, error) {
	var rows []*litetable.Row
	var seqErrs []error
	for row, err := range s.All() {
		if err != nil {
			if !IsSequenceError(err) {
				return rows, seqErrs, err
			}
			seqErrs = append(seqErrs, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, seqErrs, nil
}
