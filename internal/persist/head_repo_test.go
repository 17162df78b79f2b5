package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanillatweaks/mobheads/internal/data"
)

func TestHeadRows(t *testing.T) {
	rows := headRows([]data.Head{
		{TableName: "a.json", UUID: "u1", Name: "A", Texture: "t", NeedsPlayer: true, Chance: 0.5, LootingMultiplier: 0.1},
		{TableName: "b.json", UUID: "u2", Name: "B", Texture: "t", RequiresCustomization: true, Chance: 1},
	})
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Len(t, r, len(headColumns))
	}
	assert.Equal(t, []any{0, "a.json", "u1", "A", "t", true, false, 0.5, 0.1}, rows[0])
	assert.Equal(t, 1, rows[1][0])
	assert.Equal(t, 1.0, rows[1][7])
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
