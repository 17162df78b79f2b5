// Package loot reads loot-table documents and extracts player-head drops
// from them.
package loot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	ItemPlayerHead   = "minecraft:player_head"
	EntryItem        = "item"
	EntryAlternative = "alternatives"

	namespace = "minecraft:"
)

// Table is one loot-table document. Conditions and functions stay raw until
// an entry turns out to be a head drop.
type Table struct {
	Pools []Pool `json:"pools"`
}

type Pool struct {
	Conditions json.RawMessage `json:"conditions"`
	Entries    []Entry         `json:"entries"`
}

type Entry struct {
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Conditions json.RawMessage   `json:"conditions"`
	Functions  []json.RawMessage `json:"functions"`
	Children   []Entry           `json:"children"`
}

// IsHead reports whether the entry is a direct item entry for a player head.
func (e *Entry) IsHead() bool {
	return stripNamespace(e.Type) == EntryItem && e.Name == ItemPlayerHead
}

// IsAlternatives reports whether the entry is an alternatives wrapper.
func (e *Entry) IsAlternatives() bool {
	return stripNamespace(e.Type) == EntryAlternative
}

type function struct {
	Function string `json:"function"`
	Tag      string `json:"tag"`
}

// DocumentError is returned when a file is not a valid JSON document.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("parse loot table %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Decode parses one document. A leading UTF-8 byte order mark is dropped.
func Decode(r io.Reader) (*Table, error) {
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	dec := json.NewDecoder(r)
	var t Table
	if err := dec.Decode(&t); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after document")
	}
	return &t, nil
}

// LoadTable reads and parses the document at path.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read loot table: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	return t, nil
}

func stripNamespace(s string) string {
	return strings.TrimPrefix(s, namespace)
}
