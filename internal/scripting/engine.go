package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/vanillatweaks/mobheads/internal/data"
)

const hookName = "adjust_head"

// Engine wraps a single gopher-lua VM. Not safe for concurrent use.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM and loads path, which is either one .lua file
// or a directory whose .lua files are loaded in name order.
func NewEngine(path string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	info, err := os.Stat(path)
	if err != nil {
		vm.Close()
		return nil, fmt.Errorf("stat script path: %w", err)
	}
	if info.IsDir() {
		err = e.loadDir(path)
	} else {
		err = e.loadFile(path)
	}
	if err != nil {
		vm.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read script dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.loadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) loadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// HasHook reports whether a script defined adjust_head.
func (e *Engine) HasHook() bool {
	return e.vm.GetGlobal(hookName) != lua.LNil
}

// AdjustHead passes h to the Lua function adjust_head(head). If it returns a
// table, the fields chance, looting_multiplier, needs_player and
// requires_customization that are present replace the record's values.
// Returning nil leaves the record unchanged.
func (e *Engine) AdjustHead(h *data.Head) error {
	fn := e.vm.GetGlobal(hookName)
	if fn == lua.LNil {
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("table_name", lua.LString(h.TableName))
	t.RawSetString("uuid", lua.LString(h.UUID))
	t.RawSetString("name", lua.LString(h.Name))
	t.RawSetString("texture", lua.LString(h.Texture))
	t.RawSetString("needs_player", lua.LBool(h.NeedsPlayer))
	t.RawSetString("requires_customization", lua.LBool(h.RequiresCustomization))
	t.RawSetString("chance", lua.LNumber(h.Chance))
	t.RawSetString("looting_multiplier", lua.LNumber(h.LootingMultiplier))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return fmt.Errorf("lua %s(%s): %w", hookName, h.TableName, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return nil
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		return fmt.Errorf("lua %s(%s) returned %s, want table or nil", hookName, h.TableName, result.Type())
	}

	if v, ok := rt.RawGetString("chance").(lua.LNumber); ok {
		h.Chance = data.Ratio(v)
	}
	if v, ok := rt.RawGetString("looting_multiplier").(lua.LNumber); ok {
		h.LootingMultiplier = data.Ratio(v)
	}
	if v, ok := rt.RawGetString("needs_player").(lua.LBool); ok {
		h.NeedsPlayer = bool(v)
	}
	if v, ok := rt.RawGetString("requires_customization").(lua.LBool); ok {
		h.RequiresCustomization = bool(v)
	}
	return nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}
