package surface

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableYAML(first string) string {
	var b strings.Builder
	b.WriteString("cases:\n")
	b.WriteString("  - " + first + "\n")
	for i := 1; i < 256; i++ {
		b.WriteString("  - []\n")
	}
	return b.String()
}

func TestDefaultTable(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)

	assert.Empty(t, table.Triangles[0])
	assert.Empty(t, table.Triangles[255])
	assert.Equal(t, [][3]uint8{{0, 8, 3}}, table.Triangles[1])

	for c := 0; c < 256; c++ {
		assert.LessOrEqual(t, len(table.Triangles[c]), maxTrianglesPerCell, "case %d", c)
		// Complementary cases cross the same edges.
		assert.Equal(t, table.EdgeMask[c], table.EdgeMask[255-c], "case %d", c)
	}
}

func TestParseTable_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "cases: [[["},
		{"too few cases", "cases:\n  - []\n"},
		{"uncrossed edge", tableYAML("[[0, 8, 3]]")},
		{"short triangle", tableYAML("[[0, 8]]")},
		{"edge out of range", tableYAML("[[0, 8, 12]]")},
		{"too many triangles", tableYAML("[[0,1,2],[0,1,2],[0,1,2],[0,1,2],[0,1,2],[0,1,2]]")},
		// Case 1 crosses edges 0, 3 and 8 but lists nothing.
		{"unused crossed edges", tableYAML("[]")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformedTable)
		})
	}
}

func TestCrossedEdges(t *testing.T) {
	assert.Zero(t, crossedEdges(0))
	assert.Zero(t, crossedEdges(255))
	assert.Equal(t, uint16(1<<0|1<<3|1<<8), crossedEdges(1))
}
