package loot

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func skullTag(name string, id [4]int32) string {
	return fmt.Sprintf(`{SkullOwner:{Id:[I;%d,%d,%d,%d],Name:"%s",Properties:{textures:[{Value:"tex-%s"}]}}}`,
		id[0], id[1], id[2], id[3], name, name)
}

func headEntry(name string, id [4]int32, conds ...map[string]any) map[string]any {
	e := map[string]any{
		"type": "item",
		"name": ItemPlayerHead,
		"functions": []any{
			map[string]any{"function": "set_nbt", "tag": skullTag(name, id)},
		},
	}
	if len(conds) > 0 {
		e["conditions"] = conds
	}
	return e
}

func cond(kind string, kv ...any) map[string]any {
	m := map[string]any{"condition": kind}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func mustTable(t *testing.T, doc map[string]any) *Table {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	tbl, err := Decode(strings.NewReader(string(raw)))
	require.NoError(t, err)
	return tbl
}

func mustConditions(t *testing.T, conds ...map[string]any) Conditions {
	t.Helper()
	raw, err := json.Marshal(conds)
	require.NoError(t, err)
	cs, err := ParseConditions(raw)
	require.NoError(t, err)
	return cs
}
