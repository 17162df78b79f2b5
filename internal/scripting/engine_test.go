package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vanillatweaks/mobheads/internal/data"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestAdjustHead(t *testing.T) {
	path := writeScript(t, t.TempDir(), "heads.lua", `
function adjust_head(head)
  if head.table_name == "goat.json" then
    return { chance = head.chance / 2, requires_customization = true }
  end
  return nil
end
`)
	e, err := NewEngine(path, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()
	require.True(t, e.HasHook())

	goat := data.Head{TableName: "goat.json", Chance: 0.5, LootingMultiplier: 0.01}
	require.NoError(t, e.AdjustHead(&goat))
	assert.EqualValues(t, 0.25, goat.Chance)
	assert.EqualValues(t, 0.01, goat.LootingMultiplier)
	assert.True(t, goat.RequiresCustomization)

	pig := data.Head{TableName: "pig.json", Chance: 1}
	require.NoError(t, e.AdjustHead(&pig))
	assert.Equal(t, data.Head{TableName: "pig.json", Chance: 1}, pig)
}

func TestNewEngine_Dir(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "a_base.lua", `FACTOR = 3`)
	writeScript(t, dir, "b_hook.lua", `function adjust_head(h) return { looting_multiplier = FACTOR } end`)
	writeScript(t, dir, "notes.txt", `not lua`)

	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	h := data.Head{}
	require.NoError(t, e.AdjustHead(&h))
	assert.EqualValues(t, 3, h.LootingMultiplier)
}

func TestAdjustHead_NoHook(t *testing.T) {
	e, err := NewEngine(writeScript(t, t.TempDir(), "empty.lua", `x = 1`), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	assert.False(t, e.HasHook())
	h := data.Head{Name: "Bee"}
	require.NoError(t, e.AdjustHead(&h))
	assert.Equal(t, "Bee", h.Name)
}

func TestAdjustHead_Errors(t *testing.T) {
	e, err := NewEngine(writeScript(t, t.TempDir(), "bad.lua", `
function adjust_head(h)
  if h.name == "boom" then error("boom") end
  return 42
end
`), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	assert.Error(t, e.AdjustHead(&data.Head{Name: "boom"}))
	assert.ErrorContains(t, e.AdjustHead(&data.Head{Name: "x"}), "want table or nil")
}

func TestNewEngine_LoadErrors(t *testing.T) {
	_, err := NewEngine(filepath.Join(t.TempDir(), "missing.lua"), zap.NewNop())
	assert.Error(t, err)

	_, err = NewEngine(writeScript(t, t.TempDir(), "syntax.lua", `function (`), zap.NewNop())
	assert.Error(t, err)
}
