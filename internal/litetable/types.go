package litetable

import (
	"bytes"
)

// Cell is one versioned value stored under a family and qualifier.
type Cell struct {
	Value           []byte   `json:"value"`
	TimestampMicros int64    `json:"timestamp"`
	Labels          []string `json:"labels"`
}

// Column holds every cell received for a single qualifier, in the order the cells arrived.
type Column struct {
	Qualifier []byte `json:"qualifier"`
	Cells     []Cell `json:"cells"`
}

// Family is a column family and its columns in first-seen order.
type Family struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Row defines a fully assembled row of a range scan:
//
// Example:
//
//	Row{
//	  Key: []byte("row1"),
//	  Families: []Family{
//	    {Name: "family1", Columns: []Column{
//	      {Qualifier: []byte("qualifier1"), Cells: []Cell{{Value: []byte("value1"), TimestampMicros: 100}}},
//	      {Qualifier: []byte("qualifier2"), Cells: []Cell{{Value: []byte("value2"), TimestampMicros: 100}}},
//	    }},
//	    {Name: "family2", Columns: []Column{
//	      {Qualifier: []byte("qualifier1"), Cells: []Cell{{Value: []byte("value3"), TimestampMicros: 90}}},
//	    }},
//	  },
//	}
//
// Families and qualifiers keep the order in which they first appeared in the chunk stream,
// not lexical order, which is why they are slices and not maps.
type Row struct {
	Key      []byte   `json:"key"`
	Families []Family `json:"families"`
}

// Family returns the named family, or nil if the row has none by that name.
func (r *Row) Family(name string) *Family {
	for i := range r.Families {
		if r.Families[i].Name == name {
			return &r.Families[i]
		}
	}
	return nil
}

// Column returns the column for qualifier, or nil if the family has none.
func (f *Family) Column(qualifier []byte) *Column {
	for i := range f.Columns {
		if bytes.Equal(f.Columns[i].Qualifier, qualifier) {
			return &f.Columns[i]
		}
	}
	return nil
}

// Cells returns the cells stored under family and qualifier.
func (r *Row) Cells(family string, qualifier []byte) []Cell {
	f := r.Family(family)
	if f == nil {
		return nil
	}
	c := f.Column(qualifier)
	if c == nil {
		return nil
	}
	return c.Cells
}

// CellCount is the total number of cells in the row.
func (r *Row) CellCount() int {
	n := 0
	for _, f := range r.Families {
		for _, c := range f.Columns {
			n += len(c.Cells)
		}
	}
	return n
}
