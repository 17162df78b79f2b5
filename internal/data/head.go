package data

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Head is one player-head drop extracted from a loot table.
type Head struct {
	TableName             string `json:"tableName" yaml:"tableName"`
	UUID                  string `json:"uuid" yaml:"uuid"`
	Name                  string `json:"name" yaml:"name"`
	Texture               string `json:"texture" yaml:"texture"`
	NeedsPlayer           bool   `json:"needsPlayer" yaml:"needsPlayer"`
	RequiresCustomization bool   `json:"requiresCustomization" yaml:"requiresCustomization"`
	Chance                Ratio  `json:"chance" yaml:"chance"`
	LootingMultiplier     Ratio  `json:"lootingMultiplier" yaml:"lootingMultiplier"`
}

// Ratio is a probability. Integral values keep a trailing ".0" in JSON so the
// file reads the same as the hand-maintained one it replaces.
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	s := strconv.FormatFloat(float64(r), 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return []byte(s), nil
}

func (r Ratio) MarshalYAML() (any, error) {
	return float64(r), nil
}

// HeadTable holds emitted heads indexed by loot table name.
type HeadTable struct {
	all     []Head
	byTable map[string][]Head
}

// Get returns the heads extracted from one table, or nil if none.
func (t *HeadTable) Get(tableName string) []Head {
	return t.byTable[tableName]
}

// All returns the heads in file order.
func (t *HeadTable) All() []Head {
	return t.all
}

// Count returns the number of heads.
func (t *HeadTable) Count() int {
	return len(t.all)
}

// Tables returns the number of distinct table names.
func (t *HeadTable) Tables() int {
	return len(t.byTable)
}

// NewHeadTable indexes heads by table name.
func NewHeadTable(heads []Head) *HeadTable {
	t := &HeadTable{all: heads, byTable: make(map[string][]Head)}
	for _, h := range heads {
		t.byTable[h.TableName] = append(t.byTable[h.TableName], h)
	}
	return t
}

// LoadHeadTable loads a previously emitted JSON head file.
func LoadHeadTable(path string) (*HeadTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read head list: %w", err)
	}
	var heads []Head
	if err := json.Unmarshal(raw, &heads); err != nil {
		return nil, fmt.Errorf("parse head list: %w", err)
	}
	return NewHeadTable(heads), nil
}
