package loot

import "fmt"

// Facts are the drop properties derived from a head entry's conditions.
type Facts struct {
	NeedsPlayer           bool
	RequiresCustomization bool
	Chance                float64
	LootingMultiplier     float64
}

// Scope says where an unhandled condition was found.
type Scope int

const (
	ScopeCondition Scope = iota
	ScopeAlternatives
	ScopeInverted
)

// Diagnostic reports a condition the interpreter does not understand. It is
// never fatal.
type Diagnostic struct {
	Table string
	Scope Scope
	Kind  string
}

func (d Diagnostic) String() string {
	switch d.Scope {
	case ScopeAlternatives:
		return fmt.Sprintf("Unhandled alternatives condition: %s on %s", d.Kind, d.Table)
	case ScopeInverted:
		return fmt.Sprintf("Unhandled inverted condition: %s on %s", d.Kind, d.Table)
	default:
		return fmt.Sprintf("Unhandled condition: %s on %s", d.Kind, d.Table)
	}
}

// Override forces facts for a table regardless of its conditions.
type Override struct {
	RequiresCustomization bool `toml:"requires_customization"`
}

// Overrides maps a table name to its override.
type Overrides map[string]Override

// DefaultOverrides returns the built-in overrides. The wither table needs
// customization even though none of its conditions say so.
func DefaultOverrides() Overrides {
	return Overrides{
		"wither.json": {RequiresCustomization: true},
	}
}

// Interpret folds conditions into Facts. Booleans only ever turn on; the last
// random_chance_with_looting clause wins.
func Interpret(table string, conds []Condition, overrides Overrides) (Facts, []Diagnostic) {
	f := Facts{
		RequiresCustomization: overrides[table].RequiresCustomization,
		Chance:                1.0,
	}
	var diags []Diagnostic

	for _, c := range conds {
		switch c := c.(type) {
		case KilledByPlayer:
			f.NeedsPlayer = true
		case EntityProperties:
			f.RequiresCustomization = true
		case RandomChanceWithLooting:
			f.Chance = c.Chance
			f.LootingMultiplier = c.LootingMultiplier
		case Alternative:
			f.RequiresCustomization = true
			for _, term := range c.Terms {
				if _, ok := term.(EntityProperties); !ok {
					diags = append(diags, Diagnostic{Table: table, Scope: ScopeAlternatives, Kind: term.Kind()})
				}
			}
		case Inverted:
			f.RequiresCustomization = true
			if _, ok := c.Term.(EntityProperties); !ok {
				diags = append(diags, Diagnostic{Table: table, Scope: ScopeInverted, Kind: c.Term.Kind()})
			}
		case Unrecognized:
			diags = append(diags, Diagnostic{Table: table, Scope: ScopeCondition, Kind: c.Kind()})
		default:
			panic(fmt.Sprintf("loot: unknown condition type %T", c))
		}
	}
	return f, diags
}
