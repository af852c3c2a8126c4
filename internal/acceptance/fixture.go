// Package acceptance replays recorded chunk sequences through the row assembler and checks
// the rows and errors it produces.
//
// Fixture files use the layout of the range scan acceptance suite:
//
//	{"tests": [{
//	  "name": "valid - single cell",
//	  "chunks_base64": ["CgJSSxIDCgFBGgMKAUMgZDIBdkgB"],
//	  "results": [{"rk": "RK", "fm": "A", "qual": "C", "ts": 100, "value": "v", "label": "", "error": false}]
//	}]}
//
// Chunks are given either protobuf encoded (chunks_base64) or in their JSON form (chunks).
// Each result is one expected cell, or an expected error when "error" is true.
package acceptance

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/litetable/litetable-readrows/internal/chunk"
	"github.com/litetable/litetable-readrows/internal/litetable"
)

// File is a set of acceptance test cases.
type File struct {
	Tests []*TestCase `json:"tests"`
}

// TestCase is one recorded chunk sequence and the outcome it must produce.
type TestCase struct {
	Name         string         `json:"name"`
	ChunksBase64 []string       `json:"chunks_base64,omitempty"`
	Chunks       []*chunk.Chunk `json:"chunks,omitempty"`
	Results      []Result       `json:"results"`
}

// Result is one expected cell of the flattened output, or an expected error.
type Result struct {
	RowKey    string `json:"rk"`
	Family    string `json:"fm"`
	Qualifier string `json:"qual"`
	Timestamp int64  `json:"ts"`
	Value     string `json:"value"`
	Label     string `json:"label"`
	Error     bool   `json:"error"`
}

// Load reads and parses a fixture file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes fixture JSON.
func Parse(data []byte) (*File, error) {
	f := &File{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, err
	}

	var errGrp []error
	for i, tc := range f.Tests {
		if tc.Name == "" {
			errGrp = append(errGrp, fmt.Errorf("test %d: name required", i))
		}
		if len(tc.ChunksBase64) > 0 && len(tc.Chunks) > 0 {
			errGrp = append(errGrp, fmt.Errorf("test %q: use either chunks or chunks_base64",
				tc.Name))
		}
	}
	if err := errors.Join(errGrp...); err != nil {
		return nil, err
	}
	return f, nil
}

// Find returns the test case with the given name.
func (f *File) Find(name string) (*TestCase, bool) {
	for _, tc := range f.Tests {
		if tc.Name == name {
			return tc, true
		}
	}
	return nil, false
}

// DecodeChunks returns the chunks of the test case in order.
func (tc *TestCase) DecodeChunks() ([]*chunk.Chunk, error) {
	if len(tc.Chunks) > 0 {
		return tc.Chunks, nil
	}

	chunks := make([]*chunk.Chunk, 0, len(tc.ChunksBase64))
	for i, encoded := range tc.ChunksBase64 {
		c, err := chunk.DecodeBase64(encoded)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// ExpectedErrors is the number of sequence errors the test case must produce.
func (tc *TestCase) ExpectedErrors() int {
	n := 0
	for _, r := range tc.Results {
		if r.Error {
			n++
		}
	}
	return n
}

// ExpectedRows rebuilds the rows described by the flat results. Cells are grouped by row
// key in first-seen order, and families and qualifiers keep their first-seen order.
func (tc *TestCase) ExpectedRows() []*litetable.Row {
	var rows []*litetable.Row
	byKey := make(map[string]*litetable.Row)

	for _, r := range tc.Results {
		if r.Error {
			continue
		}

		row, ok := byKey[r.RowKey]
		if !ok {
			row = &litetable.Row{Key: []byte(r.RowKey)}
			byKey[r.RowKey] = row
			rows = append(rows, row)
		}

		family := row.Family(r.Family)
		if family == nil {
			row.Families = append(row.Families, litetable.Family{Name: r.Family})
			family = &row.Families[len(row.Families)-1]
		}

		column := family.Column([]byte(r.Qualifier))
		if column == nil {
			family.Columns = append(family.Columns, litetable.Column{
				Qualifier: []byte(r.Qualifier),
				Cells:     []litetable.Cell{},
			})
			column = &family.Columns[len(family.Columns)-1]
		}

		labels := []string{}
		if r.Label != "" {
			labels = append(labels, r.Label)
		}
		column.Cells = append(column.Cells, litetable.Cell{
			Value:           []byte(r.Value),
			TimestampMicros: r.Timestamp,
			Labels:          labels,
		})
	}

	return rows
}
