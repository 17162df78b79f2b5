// Package tag decodes the stringified NBT carried by loot-table item
// functions and reads skull owner data out of it.
package tag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Tnze/go-mc/nbt"
)

var (
	// ErrSyntax wraps any failure of the SNBT parser.
	ErrSyntax = errors.New("invalid snbt")
	// ErrMissingField matches every *MissingFieldError.
	ErrMissingField = errors.New("missing field")
)

// MissingFieldError names the dotted path that could not be resolved.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return "missing field " + e.Path
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Parse turns SNBT text into a value tree. Compounds become map[string]any,
// lists []any, int arrays []int32 and strings string.
func Parse(text string) (map[string]any, error) {
	raw, err := nbt.Marshal(nbt.StringifiedMessage(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	var tree map[string]any
	if err := nbt.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return tree, nil
}

// SkullOwner is the identity stored on a player head.
type SkullOwner struct {
	ID      []int32
	Name    string
	Texture string
}

// ReadSkullOwner resolves SkullOwner.Id, SkullOwner.Name and
// SkullOwner.Properties.textures[0].Value.
func ReadSkullOwner(tree map[string]any) (SkullOwner, error) {
	var so SkullOwner

	owner, err := compound(tree, "SkullOwner")
	if err != nil {
		return so, err
	}

	rawID, ok := owner["Id"]
	if !ok {
		return so, &MissingFieldError{Path: "SkullOwner.Id"}
	}
	if so.ID, ok = intArray(rawID); !ok {
		return so, &MissingFieldError{Path: "SkullOwner.Id"}
	}

	if so.Name, ok = owner["Name"].(string); !ok {
		return so, &MissingFieldError{Path: "SkullOwner.Name"}
	}

	props, err := compound(owner, "SkullOwner", "Properties")
	if err != nil {
		return so, err
	}
	textures, ok := props["textures"].([]any)
	if !ok || len(textures) == 0 {
		return so, &MissingFieldError{Path: "SkullOwner.Properties.textures[0]"}
	}
	first, ok := textures[0].(map[string]any)
	if !ok {
		return so, &MissingFieldError{Path: "SkullOwner.Properties.textures[0]"}
	}
	if so.Texture, ok = first["Value"].(string); !ok {
		return so, &MissingFieldError{Path: "SkullOwner.Properties.textures[0].Value"}
	}
	return so, nil
}

// compound returns the child compound named by the last element of path.
func compound(parent map[string]any, path ...string) (map[string]any, error) {
	key := path[len(path)-1]
	child, ok := parent[key].(map[string]any)
	if !ok {
		return nil, &MissingFieldError{Path: strings.Join(path, ".")}
	}
	return child, nil
}

// intArray accepts both [I;a,b,c,d] and a plain list of ints.
func intArray(v any) ([]int32, bool) {
	switch arr := v.(type) {
	case []int32:
		return arr, true
	case []any:
		out := make([]int32, 0, len(arr))
		for _, e := range arr {
			n, ok := e.(int32)
			if !ok {
				return nil, false
			}
			out = append(out, n)
		}
		return out, true
	}
	return nil, false
}
