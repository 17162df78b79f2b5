package loot

import (
	"encoding/json"
	"fmt"

	"github.com/vanillatweaks/mobheads/internal/data"
	"github.com/vanillatweaks/mobheads/internal/identity"
	"github.com/vanillatweaks/mobheads/internal/tag"
)

// ScanResult is what one document produced.
type ScanResult struct {
	Heads       []data.Head
	Diagnostics []Diagnostic
	// SilentPools counts pools that held no head entry.
	SilentPools int
}

// Found reports whether any head was extracted.
func (r *ScanResult) Found() bool {
	return len(r.Heads) > 0
}

// Scanner extracts head records from loot tables. It holds no per-document
// state and may be shared between goroutines.
type Scanner struct {
	Overrides Overrides
}

func NewScanner(overrides Overrides) *Scanner {
	return &Scanner{Overrides: overrides}
}

// Scan walks every pool of t. Head entries use the pool's conditions; heads
// inside an alternatives wrapper use the wrapper's conditions followed by
// their own.
func (s *Scanner) Scan(tableName string, t *Table) (ScanResult, error) {
	var res ScanResult

	for pi := range t.Pools {
		pool := &t.Pools[pi]
		before := len(res.Heads)

		for ei := range pool.Entries {
			entry := &pool.Entries[ei]
			switch {
			case entry.IsHead():
				conds, err := ParseConditions(pool.Conditions)
				if err != nil {
					return res, fmt.Errorf("pool %d: %w", pi, err)
				}
				if err := s.addHead(&res, tableName, entry, conds); err != nil {
					return res, fmt.Errorf("pool %d entry %d: %w", pi, ei, err)
				}
			case entry.IsAlternatives():
				if err := s.scanAlternatives(&res, tableName, entry); err != nil {
					return res, fmt.Errorf("pool %d entry %d: %w", pi, ei, err)
				}
			}
		}

		if len(res.Heads) == before {
			res.SilentPools++
		}
	}
	return res, nil
}

func (s *Scanner) scanAlternatives(res *ScanResult, tableName string, wrapper *Entry) error {
	var outer Conditions
	parsed := false

	for ci := range wrapper.Children {
		child := &wrapper.Children[ci]
		if !child.IsHead() {
			continue
		}
		if !parsed {
			var err error
			if outer, err = ParseConditions(wrapper.Conditions); err != nil {
				return err
			}
			parsed = true
		}
		own, err := ParseConditions(child.Conditions)
		if err != nil {
			return fmt.Errorf("child %d: %w", ci, err)
		}

		merged := make([]Condition, 0, len(outer)+len(own))
		merged = append(merged, outer...)
		merged = append(merged, own...)
		if err := s.addHead(res, tableName, child, merged); err != nil {
			return fmt.Errorf("child %d: %w", ci, err)
		}
	}
	return nil
}

func (s *Scanner) addHead(res *ScanResult, tableName string, entry *Entry, conds []Condition) error {
	owner, err := readOwner(entry)
	if err != nil {
		return err
	}
	id, err := identity.FromInts(owner.ID)
	if err != nil {
		return err
	}

	facts, diags := Interpret(tableName, conds, s.Overrides)
	res.Diagnostics = append(res.Diagnostics, diags...)
	res.Heads = append(res.Heads, data.Head{
		TableName:             tableName,
		UUID:                  id.String(),
		Name:                  owner.Name,
		Texture:               owner.Texture,
		NeedsPlayer:           facts.NeedsPlayer,
		RequiresCustomization: facts.RequiresCustomization,
		Chance:                data.Ratio(facts.Chance),
		LootingMultiplier:     data.Ratio(facts.LootingMultiplier),
	})
	return nil
}

// readOwner decodes the SNBT tag of the entry's first function.
func readOwner(entry *Entry) (tag.SkullOwner, error) {
	if len(entry.Functions) == 0 {
		return tag.SkullOwner{}, &tag.MissingFieldError{Path: "functions[0]"}
	}
	var fn function
	if err := json.Unmarshal(entry.Functions[0], &fn); err != nil {
		return tag.SkullOwner{}, fmt.Errorf("functions[0]: %w", err)
	}
	if fn.Tag == "" {
		return tag.SkullOwner{}, &tag.MissingFieldError{Path: "functions[0].tag"}
	}
	tree, err := tag.Parse(fn.Tag)
	if err != nil {
		return tag.SkullOwner{}, err
	}
	return tag.ReadSkullOwner(tree)
}
