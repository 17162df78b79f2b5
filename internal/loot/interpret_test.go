package loot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpret_Defaults(t *testing.T) {
	f, diags := Interpret("zombie.json", nil, DefaultOverrides())
	assert.Equal(t, Facts{Chance: 1.0}, f)
	assert.Empty(t, diags)
}

func TestInterpret_KilledByPlayer(t *testing.T) {
	f, diags := Interpret("zombie.json", []Condition{KilledByPlayer{}}, DefaultOverrides())
	assert.Equal(t, Facts{NeedsPlayer: true, Chance: 1.0, LootingMultiplier: 0.0}, f)
	assert.Empty(t, diags)
}

func TestInterpret_WitherOverride(t *testing.T) {
	f, _ := Interpret("wither.json", nil, DefaultOverrides())
	assert.True(t, f.RequiresCustomization)

	f, _ = Interpret("wither_skeleton.json", nil, DefaultOverrides())
	assert.False(t, f.RequiresCustomization)

	f, _ = Interpret("wither.json", nil, nil)
	assert.False(t, f.RequiresCustomization)
}

func TestInterpret_LastChanceWins(t *testing.T) {
	f, _ := Interpret("x.json", []Condition{
		RandomChanceWithLooting{Chance: 0.1, LootingMultiplier: 0.01},
		RandomChanceWithLooting{Chance: 0.3, LootingMultiplier: 0.05},
	}, nil)
	assert.Equal(t, 0.3, f.Chance)
	assert.Equal(t, 0.05, f.LootingMultiplier)
}

func TestInterpret_Monotonic(t *testing.T) {
	f, _ := Interpret("x.json", []Condition{
		EntityProperties{},
		KilledByPlayer{},
		RandomChanceWithLooting{Chance: 0.2},
		KilledByPlayer{},
	}, nil)
	assert.True(t, f.NeedsPlayer)
	assert.True(t, f.RequiresCustomization)
}

func TestInterpret_AlternativeDiagnostics(t *testing.T) {
	f, diags := Interpret("fox.json", []Condition{
		Alternative{Terms: []Condition{EntityProperties{}, Unrecognized{Name: "weather_check"}}},
	}, nil)
	assert.True(t, f.RequiresCustomization)
	if assert.Len(t, diags, 1) {
		assert.Equal(t, "Unhandled alternatives condition: weather_check on fox.json", diags[0].String())
	}
}

func TestInterpret_AlternativeKnownTerm(t *testing.T) {
	_, diags := Interpret("fox.json", []Condition{
		Alternative{Terms: []Condition{KilledByPlayer{}}},
	}, nil)
	if assert.Len(t, diags, 1) {
		assert.Equal(t, ScopeAlternatives, diags[0].Scope)
		assert.Equal(t, KindKilledByPlayer, diags[0].Kind)
	}
}

func TestInterpret_Inverted(t *testing.T) {
	f, diags := Interpret("cat.json", []Condition{Inverted{Term: EntityProperties{}}}, nil)
	assert.True(t, f.RequiresCustomization)
	assert.Empty(t, diags)

	f, diags = Interpret("cat.json", []Condition{Inverted{Term: KilledByPlayer{}}}, nil)
	assert.True(t, f.RequiresCustomization)
	assert.False(t, f.NeedsPlayer)
	if assert.Len(t, diags, 1) {
		assert.Equal(t, "Unhandled inverted condition: killed_by_player on cat.json", diags[0].String())
	}
}

func TestInterpret_Unrecognized(t *testing.T) {
	f, diags := Interpret("bee.json", []Condition{Unrecognized{Name: "minecraft:time_check"}}, nil)
	assert.Equal(t, Facts{Chance: 1.0}, f)
	if assert.Len(t, diags, 1) {
		assert.Equal(t, "Unhandled condition: minecraft:time_check on bee.json", diags[0].String())
	}
}
