package extract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/vanillatweaks/mobheads/internal/data"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrStale matches *StaleError.
var ErrStale = errors.New("output is stale")

// StaleError is returned by Check when the file on disk differs from a fresh
// render.
type StaleError struct {
	Path string
	// Changed lists table names whose heads differ. Empty when only
	// ordering or formatting changed.
	Changed []string
}

func (e *StaleError) Error() string {
	if len(e.Changed) == 0 {
		return fmt.Sprintf("%s is stale: content differs", e.Path)
	}
	return fmt.Sprintf("%s is stale: %s", e.Path, strings.Join(e.Changed, ", "))
}

func (e *StaleError) Is(target error) bool {
	return target == ErrStale
}

// Report prints the unexplained files, sorted.
func Report(w io.Writer, missing []string) {
	sorted := append([]string(nil), missing...)
	sort.Strings(sorted)
	fmt.Fprintln(w, "==== Missing ====")
	fmt.Fprintln(w, strings.Join(sorted, "\n"))
}

// Render serializes heads. JSON uses a two-space indent and leaves HTML and
// non-ASCII characters unescaped.
func Render(heads []data.Head, format string) ([]byte, error) {
	if heads == nil {
		heads = []data.Head{}
	}
	var buf bytes.Buffer
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(heads); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(heads); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Digest returns the hex BLAKE2b-256 sum of b.
func Digest(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Emit renders heads and overwrites path, creating parent directories. It
// returns the digest of the written bytes.
func Emit(path string, heads []data.Head, format string) (string, error) {
	out, err := Render(heads, format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return Digest(out), nil
}

// Check compares a fresh render of heads with the file at path without
// writing anything.
func Check(path string, heads []data.Head, format string) error {
	fresh, err := Render(heads, format)
	if err != nil {
		return err
	}
	existing, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read output: %w", err)
	}
	if bytes.Equal(fresh, existing) {
		return nil
	}

	stale := &StaleError{Path: path}
	if format == FormatJSON || format == "" {
		old, err := data.LoadHeadTable(path)
		if err != nil {
			return errors.Join(stale, err)
		}
		stale.Changed = changedTables(old, data.NewHeadTable(heads))
	}
	return stale
}

func changedTables(old, cur *data.HeadTable) []string {
	names := make(map[string]struct{})
	for _, h := range old.All() {
		names[h.TableName] = struct{}{}
	}
	for _, h := range cur.All() {
		names[h.TableName] = struct{}{}
	}
	var changed []string
	for name := range names {
		if !reflect.DeepEqual(old.Get(name), cur.Get(name)) {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}
