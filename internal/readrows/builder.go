package readrows

import (
	"bytes"

	"github.com/litetable/litetable-readrows/internal/litetable"
)

// rowBuilder accretes families, columns and cells for the row in progress. It is never
// handed to callers: build detaches a finished litetable.Row.
type rowBuilder struct {
	key      []byte
	families []litetable.Family
	// family name -> index into families
	familyIdx map[string]int
	// family name -> qualifier -> index into that family's columns
	columnIdx map[string]map[string]int
}

func newRowBuilder(key []byte) *rowBuilder {
	return &rowBuilder{
		key:       bytes.Clone(key),
		familyIdx: make(map[string]int),
		columnIdx: make(map[string]map[string]int),
	}
}

// family returns the index of the named family, creating it at the end if needed.
func (b *rowBuilder) family(name string) int {
	if i, ok := b.familyIdx[name]; ok {
		return i
	}
	b.families = append(b.families, litetable.Family{Name: name})
	i := len(b.families) - 1
	b.familyIdx[name] = i
	b.columnIdx[name] = make(map[string]int)
	return i
}

// column returns the family and column indexes for a qualifier, creating the column
// with an empty cell list if needed.
func (b *rowBuilder) column(family string, qualifier []byte) (int, int) {
	fi := b.family(family)
	cols := b.columnIdx[family]
	if ci, ok := cols[string(qualifier)]; ok {
		return fi, ci
	}

	f := &b.families[fi]
	f.Columns = append(f.Columns, litetable.Column{
		Qualifier: bytes.Clone(qualifier),
		Cells:     []litetable.Cell{},
	})
	ci := len(f.Columns) - 1
	cols[string(qualifier)] = ci
	return fi, ci
}

func (b *rowBuilder) appendCell(family string, qualifier []byte, cell litetable.Cell) {
	fi, ci := b.column(family, qualifier)
	col := &b.families[fi].Columns[ci]
	col.Cells = append(col.Cells, cell)
}

func (b *rowBuilder) build() *litetable.Row {
	return &litetable.Row{
		Key:      b.key,
		Families: b.families,
	}
}
