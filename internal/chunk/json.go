package chunk

import (
	"encoding/json"
)

// jsonChunk is the JSON form of a Chunk. Byte fields are base64 encoded. Qualifier and
// labels are pointers to keep the difference between absent and empty.
type jsonChunk struct {
	RowKey          []byte    `json:"rowKey,omitempty"`
	FamilyName      *string   `json:"familyName,omitempty"`
	Qualifier       *[]byte   `json:"qualifier,omitempty"`
	TimestampMicros *int64    `json:"timestampMicros,omitempty"`
	Labels          *[]string `json:"labels,omitempty"`
	Value           []byte    `json:"value,omitempty"`
	ValueSize       int32     `json:"valueSize,omitempty"`
	ResetRow        bool      `json:"resetRow,omitempty"`
	CommitRow       bool      `json:"commitRow,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c *Chunk) MarshalJSON() ([]byte, error) {
	out := jsonChunk{
		RowKey:          c.RowKey,
		FamilyName:      c.FamilyName,
		TimestampMicros: c.TimestampMicros,
		Value:           c.Value,
		ValueSize:       c.ValueSize,
		ResetRow:        c.ResetRow,
		CommitRow:       c.CommitRow,
	}
	if c.Qualifier != nil {
		q := c.Qualifier
		out.Qualifier = &q
	}
	if c.Labels != nil {
		l := c.Labels
		out.Labels = &l
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Chunk) UnmarshalJSON(data []byte) error {
	var in jsonChunk
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*c = Chunk{
		RowKey:          in.RowKey,
		FamilyName:      in.FamilyName,
		TimestampMicros: in.TimestampMicros,
		Value:           in.Value,
		ValueSize:       in.ValueSize,
		ResetRow:        in.ResetRow,
		CommitRow:       in.CommitRow,
	}
	if in.Qualifier != nil {
		c.Qualifier = append([]byte{}, (*in.Qualifier)...)
	}
	if in.Labels != nil {
		c.Labels = append([]string{}, (*in.Labels)...)
	}
	return nil
}
