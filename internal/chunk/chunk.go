// Package chunk defines the row fragment emitted by a range scan and its wire encoding.
//
// A server may split one row across many chunks, and one cell value across several
// chunks. Fields that are absent on the wire are absent here too: the assembler relies on
// presence to decide which context is carried forward from earlier chunks.
package chunk

// Chunk is one decoded fragment of a range scan response.
type Chunk struct {
	// RowKey is only set on the first chunk of a row. Nil or empty means absent.
	RowKey []byte
	// FamilyName is set when the column family changes.
	FamilyName *string
	// Qualifier is set when the column qualifier changes. Nil means absent, a non-nil
	// empty slice is an explicitly empty qualifier.
	Qualifier []byte
	// TimestampMicros is set when the cell timestamp changes.
	TimestampMicros *int64
	// Labels is nil when absent. An empty string label means no label.
	Labels []string
	// Value is a fragment of the cell value.
	Value []byte
	// ValueSize is the total size of the cell value when more fragments follow. Zero on
	// the final (or only) fragment of a cell.
	ValueSize int32
	ResetRow  bool
	CommitRow bool
}

// HasRowKey reports whether the chunk starts a new row.
func (c *Chunk) HasRowKey() bool {
	return len(c.RowKey) > 0
}

// HasCellData reports whether any field other than the row status flags is set.
func (c *Chunk) HasCellData() bool {
	return c.HasRowKey() ||
		c.FamilyName != nil ||
		c.Qualifier != nil ||
		c.TimestampMicros != nil ||
		len(c.Labels) > 0 ||
		len(c.Value) > 0 ||
		c.ValueSize != 0
}

// String is a shorthand used to build chunks in code.
func String(s string) *string {
	return &s
}

// Int64 is a shorthand used to build chunks in code.
func Int64(v int64) *int64 {
	return &v
}
