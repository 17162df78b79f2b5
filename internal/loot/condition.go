package loot

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Condition kinds as they appear in the "condition" field, namespace
// stripped.
const (
	KindKilledByPlayer          = "killed_by_player"
	KindEntityProperties        = "entity_properties"
	KindRandomChanceWithLooting = "random_chance_with_looting"
	KindAlternative             = "alternative"
	KindInverted                = "inverted"
)

// Condition is one drop-condition clause. The set of implementations is
// closed: KilledByPlayer, EntityProperties, RandomChanceWithLooting,
// Alternative, Inverted and Unrecognized.
type Condition interface {
	// Kind returns the condition name as written in the document.
	Kind() string
	isCondition()
}

// written carries the raw condition name so diagnostics can quote it.
type written struct {
	raw string
}

func (w written) kindOr(canonical string) string {
	if w.raw != "" {
		return w.raw
	}
	return canonical
}

func (written) isCondition() {}

type KilledByPlayer struct{ written }

func (c KilledByPlayer) Kind() string { return c.kindOr(KindKilledByPlayer) }

type EntityProperties struct{ written }

func (c EntityProperties) Kind() string { return c.kindOr(KindEntityProperties) }

type RandomChanceWithLooting struct {
	written
	Chance            float64
	LootingMultiplier float64
}

func (c RandomChanceWithLooting) Kind() string { return c.kindOr(KindRandomChanceWithLooting) }

type Alternative struct {
	written
	Terms []Condition
}

func (c Alternative) Kind() string { return c.kindOr(KindAlternative) }

type Inverted struct {
	written
	Term Condition
}

func (c Inverted) Kind() string { return c.kindOr(KindInverted) }

// Unrecognized is any clause outside the known set. It is kept so the
// interpreter can report it.
type Unrecognized struct {
	Name string
}

func (c Unrecognized) Kind() string { return c.Name }
func (Unrecognized) isCondition()   {}

// Conditions decodes a JSON array of condition objects.
type Conditions []Condition

func (cs *Conditions) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return fmt.Errorf("conditions: %w", err)
	}
	out := make(Conditions, 0, len(raws))
	for _, raw := range raws {
		c, err := decodeCondition(raw)
		if err != nil {
			return err
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

// ParseConditions decodes a raw "conditions" field. An absent or null field
// yields an empty list.
func ParseConditions(raw json.RawMessage) (Conditions, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var cs Conditions
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

type rawCondition struct {
	Condition         string            `json:"condition"`
	Chance            *number           `json:"chance"`
	LootingMultiplier *number           `json:"looting_multiplier"`
	Terms             []json.RawMessage `json:"terms"`
	Term              json.RawMessage   `json:"term"`
}

func decodeCondition(raw json.RawMessage) (Condition, error) {
	var rc rawCondition
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, fmt.Errorf("condition: %w", err)
	}
	w := written{raw: rc.Condition}

	switch stripNamespace(rc.Condition) {
	case KindKilledByPlayer:
		return KilledByPlayer{w}, nil
	case KindEntityProperties:
		return EntityProperties{w}, nil
	case KindRandomChanceWithLooting:
		if rc.Chance == nil || rc.LootingMultiplier == nil {
			return nil, fmt.Errorf("condition %s: chance and looting_multiplier are required", rc.Condition)
		}
		return RandomChanceWithLooting{
			written:           w,
			Chance:            float64(*rc.Chance),
			LootingMultiplier: float64(*rc.LootingMultiplier),
		}, nil
	case KindAlternative:
		alt := Alternative{written: w, Terms: make([]Condition, 0, len(rc.Terms))}
		for _, t := range rc.Terms {
			c, err := decodeCondition(t)
			if err != nil {
				return nil, err
			}
			alt.Terms = append(alt.Terms, c)
		}
		return alt, nil
	case KindInverted:
		if len(rc.Term) == 0 {
			return nil, fmt.Errorf("condition %s: term is required", rc.Condition)
		}
		term, err := decodeCondition(rc.Term)
		if err != nil {
			return nil, err
		}
		return Inverted{written: w, Term: term}, nil
	default:
		return Unrecognized{Name: rc.Condition}, nil
	}
}

// number accepts a JSON number or a numeric string.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*n = number(f)
	return nil
}
