package readrows

import (
	"testing"

	"github.com/litetable/litetable-readrows/internal/litetable"
	"github.com/stretchr/testify/require"
)

func TestRowBuilder(t *testing.T) {
	t.Parallel()

	b := newRowBuilder([]byte("r1"))
	b.column("cf2", []byte("b"))
	b.appendCell("cf1", []byte("z"), litetable.Cell{Value: []byte("1"), Labels: []string{}})
	b.appendCell("cf2", []byte("a"), litetable.Cell{Value: []byte("2"), Labels: []string{}})
	b.appendCell("cf1", []byte("z"), litetable.Cell{Value: []byte("3"), Labels: []string{}})

	row := b.build()
	require.Equal(t, "r1", string(row.Key))
	require.Len(t, row.Families, 2)

	require.Equal(t, "cf2", row.Families[0].Name)
	require.Equal(t, "b", string(row.Families[0].Columns[0].Qualifier))
	require.Empty(t, row.Families[0].Columns[0].Cells)
	require.NotNil(t, row.Families[0].Columns[0].Cells)
	require.Equal(t, "a", string(row.Families[0].Columns[1].Qualifier))

	require.Equal(t, "cf1", row.Families[1].Name)
	cells := row.Cells("cf1", []byte("z"))
	require.Len(t, cells, 2)
	require.Equal(t, "1", string(cells[0].Value))
	require.Equal(t, "3", string(cells[1].Value))
}

func TestRowBuilder_KeyIsCopied(t *testing.T) {
	t.Parallel()

	key := []byte("r1")
	b := newRowBuilder(key)
	key[0] = 'x'
	require.Equal(t, "r1", string(b.build().Key))
}
