package acceptance

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/litetable/litetable-readrows/internal/litetable"
	"github.com/litetable/litetable-readrows/internal/readrows"
	"github.com/rs/zerolog/log"
)

var (
	// ErrMismatch is wrapped by every difference reported by Check.
	ErrMismatch = errors.New("acceptance mismatch")
)

// Outcome is what a chunk sequence produced.
type Outcome struct {
	Rows   []*litetable.Row
	Errors []error
}

// Run replays the test case through a fresh stream.
func Run(tc *TestCase, strict bool) (*Outcome, error) {
	chunks, err := tc.DecodeChunks()
	if err != nil {
		return nil, fmt.Errorf("test %q: %w", tc.Name, err)
	}

	stream, err := readrows.New(&readrows.Config{
		Source: readrows.NewSliceSource(chunks),
		Strict: strict,
	})
	if err != nil {
		return nil, err
	}

	rows, seqErrs, err := stream.Collect()
	if err != nil {
		return nil, fmt.Errorf("test %q: %w", tc.Name, err)
	}

	log.Debug().
		Str("test", tc.Name).
		Int("rows", len(rows)).
		Int("errors", len(seqErrs)).
		Msg("acceptance case replayed")

	return &Outcome{Rows: rows, Errors: seqErrs}, nil
}

// Check compares an outcome with what the test case expects. Every difference is
// reported, joined into one error.
func Check(tc *TestCase, o *Outcome) error {
	var errGrp []error

	if want, got := tc.ExpectedErrors(), len(o.Errors); want != got {
		errGrp = append(errGrp, fmt.Errorf("%w: error count: want %d, got %d", ErrMismatch,
			want, got))
	}

	expected := tc.ExpectedRows()
	if len(expected) != len(o.Rows) {
		errGrp = append(errGrp, fmt.Errorf("%w: row count: want %d, got %d", ErrMismatch,
			len(expected), len(o.Rows)))
	}

	for i := 0; i < len(expected) && i < len(o.Rows); i++ {
		if !reflect.DeepEqual(expected[i], o.Rows[i]) {
			errGrp = append(errGrp, fmt.Errorf("%w: row %d: want %q, got %q", ErrMismatch, i,
				describe(expected[i]), describe(o.Rows[i])))
		}
	}

	return errors.Join(errGrp...)
}

// RunAll runs every case of the file and returns the failures keyed by test name.
func RunAll(f *File, strict bool) map[string]error {
	failures := make(map[string]error)
	for _, tc := range f.Tests {
		outcome, err := Run(tc, strict)
		if err != nil {
			failures[tc.Name] = err
			continue
		}
		if err := Check(tc, outcome); err != nil {
			failures[tc.Name] = err
		}
	}
	return failures
}

func describe(r *litetable.Row) string {
	s := string(r.Key) + " {"
	for i, f := range r.Families {
		if i > 0 {
			s += ", "
		}
		s += f.Name + ": ["
		for j, c := range f.Columns {
			if j > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%s=", c.Qualifier)
			for k, cell := range c.Cells {
				if k > 0 {
					s += "|"
				}
				s += fmt.Sprintf("%s@%d%v", cell.Value, cell.TimestampMicros, cell.Labels)
			}
		}
		s += "]"
	}
	return s + "}"
}
