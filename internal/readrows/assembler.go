package readrows

import (
	"bytes"
	"slices"

	"github.com/litetable/litetable-readrows/internal/chunk"
	"github.com/litetable/litetable-readrows/internal/litetable"
)

type state int

const (
	// stateIdle waits for a chunk with a row key.
	stateIdle state = iota
	// stateRowOpen folds cells into the row in progress.
	stateRowOpen
	// stateDraining drops the rest of a malformed group after its error was reported.
	stateDraining
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateRowOpen:
		return "row-open"
	case stateDraining:
		return "draining"
	}
	return "unknown"
}

// Emission is the result of applying one chunk. The zero value means nothing was emitted
// and the row, if any, is still in progress.
type Emission struct {
	Row *litetable.Row
	Err *ChunkSequenceError
}

// Empty reports whether the emission carries neither a row nor an error.
func (e Emission) Empty() bool {
	return e.Row == nil && e.Err == nil
}

// transitions holds the non-reset handler for each state. Resets are handled the same
// way in every state, before this table is consulted.
var transitions = [...]func(*Assembler, *chunk.Chunk) Emission{
	stateIdle:     (*Assembler).applyIdle,
	stateRowOpen:  (*Assembler).applyRowOpen,
	stateDraining: (*Assembler).applyDraining,
}

// Assembler reduces an ordered chunk stream into rows. It is not safe for concurrent use:
// one assembler belongs to exactly one scan attempt.
type Assembler struct {
	state  state
	strict bool

	row *rowBuilder
	// sticky cell key
	family    string
	hasFamily bool
	qualifier []byte
	timestamp int64
	labels    []string

	cell cellAccumulator

	// key of the last committed row, for strict ordering checks
	lastKey []byte
}

// NewAssembler returns an idle assembler. In strict mode the assembler also rejects bare
// resets, resets that carry data, and row keys that are not strictly increasing.
func NewAssembler(strict bool) *Assembler {
	return &Assembler{strict: strict}
}

// Apply folds one chunk into the assembler state. Chunks must be applied in arrival order.
func (a *Assembler) Apply(c *chunk.Chunk) Emission {
	if c.ResetRow {
		return a.applyReset(c)
	}
	return transitions[a.state](a, c)
}

// Finish is called once the chunk stream has ended. A row that was still open is
// discarded and reported.
func (a *Assembler) Finish() Emission {
	if a.state == stateRowOpen {
		return a.fail(&chunk.Chunk{CommitRow: true}, newError(ErrIncompleteRow,
			"row %q was never committed", a.row.key))
	}
	a.clear()
	a.state = stateIdle
	return Emission{}
}

// InProgress reports whether a row is currently being assembled.
func (a *Assembler) InProgress() bool {
	return a.state == stateRowOpen
}

func (a *Assembler) applyReset(c *chunk.Chunk) Emission {
	if a.strict {
		if c.HasCellData() || c.CommitRow {
			return a.fail(&chunk.Chunk{CommitRow: true}, newError(ErrResetWithData,
				"a reset chunk must not carry row data"))
		}
		if a.state == stateIdle {
			return a.fail(&chunk.Chunk{CommitRow: true}, newError(ErrBareReset,
				"no row in progress"))
		}
	}

	a.clear()
	a.state = stateIdle
	return Emission{}
}

func (a *Assembler) applyIdle(c *chunk.Chunk) Emission {
	if !c.HasRowKey() {
		if c.CommitRow {
			return a.fail(c, newError(ErrCommitWithoutRow, "no row in progress"))
		}
		return a.fail(c, newError(ErrMissingRowKey, "first chunk of a row must carry its key"))
	}

	if a.strict && a.lastKey != nil && bytes.Compare(c.RowKey, a.lastKey) <= 0 {
		return a.fail(c, newError(ErrRowKeyOrder, "row %q does not follow %q", c.RowKey,
			a.lastKey))
	}

	a.clear()
	a.row = newRowBuilder(c.RowKey)
	a.state = stateRowOpen
	return a.applyCell(c)
}

func (a *Assembler) applyRowOpen(c *chunk.Chunk) Emission {
	if c.HasRowKey() {
		return a.fail(c, newError(ErrDuplicateRowKey, "row %q started before %q was committed",
			c.RowKey, a.row.key))
	}
	return a.applyCell(c)
}

func (a *Assembler) applyDraining(c *chunk.Chunk) Emission {
	if c.HasRowKey() {
		a.state = stateIdle
		return a.applyIdle(c)
	}
	if c.CommitRow {
		a.state = stateIdle
	}
	return Emission{}
}

// applyCell handles the carry-forward fields and the value of a chunk that belongs to the
// open row, then commits the row if asked to.
func (a *Assembler) applyCell(c *chunk.Chunk) Emission {
	if a.cell.pending() && a.changesCellKey(c) {
		return a.fail(c, newError(ErrInterruptedCell, "row %q", a.row.key))
	}

	if c.FamilyName != nil {
		if c.Qualifier == nil {
			return a.fail(c, newError(ErrMissingQualifier, "family %q", *c.FamilyName))
		}
		a.family = *c.FamilyName
		a.hasFamily = true
		a.qualifier = nil
		a.row.family(a.family)
	}

	if c.Qualifier != nil {
		if !a.hasFamily {
			return a.fail(c, newError(ErrMissingFamily, "qualifier %q has no family", c.Qualifier))
		}
		a.qualifier = bytes.Clone(c.Qualifier)
		a.row.column(a.family, a.qualifier)
	}

	if c.TimestampMicros != nil {
		a.timestamp = *c.TimestampMicros
	}
	if c.Labels != nil {
		a.labels = normalizeLabels(c.Labels)
	}

	if !a.hasFamily || a.qualifier == nil {
		return a.fail(c, newError(ErrMissingFamily, "cell in row %q has no family and qualifier",
			a.row.key))
	}

	complete, value, err := a.cell.accumulate(c)
	if err != nil {
		return a.fail(c, err)
	}
	if complete {
		a.row.appendCell(a.family, a.qualifier, litetable.Cell{
			Value:           value,
			TimestampMicros: a.timestamp,
			Labels:          slices.Clone(a.labels),
		})
	}

	if !c.CommitRow {
		return Emission{}
	}

	if a.cell.pending() {
		return a.fail(c, newError(ErrCommitIncompleteCell, "row %q", a.row.key))
	}

	row := a.row.build()
	a.lastKey = row.Key
	a.clear()
	a.state = stateIdle
	return Emission{Row: row}
}

// changesCellKey reports whether the chunk tries to move on to another cell.
func (a *Assembler) changesCellKey(c *chunk.Chunk) bool {
	if c.FamilyName != nil && *c.FamilyName != a.family {
		return true
	}
	if c.Qualifier != nil && !bytes.Equal(c.Qualifier, a.qualifier) {
		return true
	}
	if c.TimestampMicros != nil && *c.TimestampMicros != a.timestamp {
		return true
	}
	if c.Labels != nil && !slices.Equal(normalizeLabels(c.Labels), a.labels) {
		return true
	}
	return false
}

// fail reports err and resets the assembler. Unless the failing chunk closed its group
// with a commit, the remaining chunks of the group are drained.
func (a *Assembler) fail(c *chunk.Chunk, err *ChunkSequenceError) Emission {
	if a.row != nil && err.RowKey == nil {
		err.RowKey = a.row.key
	}

	a.clear()
	if c.CommitRow {
		a.state = stateIdle
	} else {
		a.state = stateDraining
	}
	return Emission{Err: err}
}

// clear drops the row in progress and every carried-forward field.
func (a *Assembler) clear() {
	a.row = nil
	a.family = ""
	a.hasFamily = false
	a.qualifier = nil
	a.timestamp = 0
	a.labels = []string{}
	a.cell.reset()
}

// normalizeLabels drops empty label strings: an empty label means no label.
func normalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
