// Package extract walks a loot-table tree, collects head records and writes
// the aggregated data file.
package extract

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vanillatweaks/mobheads/internal/data"
	"github.com/vanillatweaks/mobheads/internal/loot"
)

// HeadHook may rewrite a record after extraction. Calls happen on one
// goroutine, in output order.
type HeadHook interface {
	AdjustHead(h *data.Head) error
}

type Options struct {
	GroupMarker   string
	ExpectedEmpty []string
	Extension     string
	SkipHidden    bool
	Workers       int
	Overrides     loot.Overrides
	// Diagnostics receives one line per unhandled condition. Nil discards.
	Diagnostics io.Writer
	Hook        HeadHook
}

// Result is the outcome of a full run.
type Result struct {
	Heads []data.Head
	// Missing lists files that produced no head and are not expected to be
	// empty, in discovery order.
	Missing     []string
	Diagnostics []loot.Diagnostic
	Files       int
}

// Complete reports whether every file was explained.
func (r *Result) Complete() bool {
	return len(r.Missing) == 0
}

type Driver struct {
	root    string
	opts    Options
	scanner *loot.Scanner
	log     *zap.Logger
}

func NewDriver(root string, opts Options, log *zap.Logger) *Driver {
	if opts.Extension == "" {
		opts.Extension = ".json"
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Driver{
		root:    root,
		opts:    opts,
		scanner: loot.NewScanner(opts.Overrides),
		log:     log,
	}
}

type document struct {
	path  string
	table string
}

// Run scans every document under the root. Any read, parse or field error
// stops the run.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	docs, err := d.discover()
	if err != nil {
		return nil, err
	}
	d.log.Info("loot tables discovered", zap.Int("files", len(docs)), zap.Int("workers", d.opts.Workers))

	res := &Result{Files: len(docs)}

	if d.opts.Workers == 1 {
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out, err := d.scanDocument(doc)
			if err != nil {
				return nil, err
			}
			if err := d.collect(res, doc, out); err != nil {
				return nil, err
			}
		}
		return res, nil
	}

	outcomes := make([]loot.ScanResult, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := d.scanDocument(doc)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, doc := range docs {
		if err := d.collect(res, doc, outcomes[i]); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (d *Driver) scanDocument(doc document) (loot.ScanResult, error) {
	t, err := loot.LoadTable(doc.path)
	if err != nil {
		return loot.ScanResult{}, err
	}
	scan, err := d.scanner.Scan(doc.table, t)
	if err != nil {
		return loot.ScanResult{}, fmt.Errorf("scan %s: %w", doc.path, err)
	}
	return scan, nil
}

// collect merges one document's outcome. It runs in discovery order.
func (d *Driver) collect(res *Result, doc document, scan loot.ScanResult) error {
	for _, diag := range scan.Diagnostics {
		if d.opts.Diagnostics != nil {
			fmt.Fprintln(d.opts.Diagnostics, diag.String())
		}
	}
	res.Diagnostics = append(res.Diagnostics, scan.Diagnostics...)

	if scan.SilentPools > 0 && scan.Found() {
		d.log.Debug("pools without head entry",
			zap.String("table", doc.table), zap.Int("pools", scan.SilentPools))
	}

	if !scan.Found() {
		if !d.expectedEmpty(doc.path) {
			res.Missing = append(res.Missing, doc.path)
		}
		return nil
	}

	for _, h := range scan.Heads {
		if d.opts.Hook != nil {
			if err := d.opts.Hook.AdjustHead(&h); err != nil {
				return err
			}
		}
		res.Heads = append(res.Heads, h)
	}
	d.log.Debug("table scanned", zap.String("table", doc.table), zap.Int("heads", len(scan.Heads)))
	return nil
}

func (d *Driver) expectedEmpty(path string) bool {
	for _, suffix := range d.opts.ExpectedEmpty {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// discover lists matching files under the root in lexical order.
func (d *Driver) discover() ([]document, error) {
	var docs []document
	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.opts.SkipHidden && path != d.root && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), d.opts.Extension) {
			return nil
		}
		docs = append(docs, document{
			path:  path,
			table: TableName(d.root, path, d.opts.GroupMarker),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", d.root, err)
	}
	return docs, nil
}

// TableName labels a document by its file name, or by <parent>/<file> when
// the path below root contains marker.
func TableName(root, path, marker string) string {
	base := filepath.Base(path)
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	if marker != "" && strings.Contains(filepath.ToSlash(rel), marker) {
		return filepath.Base(filepath.Dir(path)) + "/" + base
	}
	return base
}
