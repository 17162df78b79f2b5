package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vanillatweaks/mobheads/internal/config"
	"github.com/vanillatweaks/mobheads/internal/extract"
	"github.com/vanillatweaks/mobheads/internal/persist"
	"github.com/vanillatweaks/mobheads/internal/scripting"
)

const (
	usageMessage      = "Need to specify a directory containing entity loot tables"
	defaultConfigPath = "mobheads.toml"
)

var errUsage = errors.New("missing loot table directory")

type flags struct {
	configPath string
	out        string
	format     string
	workers    int
	dsn        string
	script     string
	logLevel   string
	check      bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "mobheads <loot-table-dir>",
		Short: "Extract player head drops from entity loot tables",
		Long: `mobheads scans a directory of entity loot tables for player head entries
and writes every head, with its drop conditions, to a single data file.
If any table yields no head and is not expected to be empty, the tables are
listed and nothing is written.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errUsage
			}
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd, cfg, args[0], f.check)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "TOML config file (default mobheads.toml or $MOBHEADS_CONFIG)")
	fl.StringVarP(&f.out, "out", "o", "", "output file path")
	fl.StringVar(&f.format, "format", "", "output format: json or yaml")
	fl.IntVarP(&f.workers, "workers", "j", 0, "number of tables scanned in parallel")
	fl.StringVar(&f.dsn, "dsn", "", "PostgreSQL DSN; also store heads in the mob_heads table")
	fl.StringVar(&f.script, "script", "", "Lua file or directory defining adjust_head(head)")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fl.BoolVar(&f.check, "check", false, "compare with the existing output instead of writing it")
	return cmd
}

// loadConfig reads the config file and applies flags set on the command line.
// The default path is optional; an explicit one must exist.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	path, optional := f.configPath, false
	if path == "" {
		path = os.Getenv("MOBHEADS_CONFIG")
	}
	if path == "" {
		path, optional = defaultConfigPath, true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	fl := cmd.Flags()
	if fl.Changed("out") {
		cfg.Output.Path = f.out
	}
	if fl.Changed("format") {
		if f.format != extract.FormatJSON && f.format != extract.FormatYAML {
			return nil, fmt.Errorf("--format must be json or yaml, got %q", f.format)
		}
		cfg.Output.Format = f.format
	}
	if fl.Changed("workers") {
		if f.workers < 1 {
			return nil, fmt.Errorf("--workers must be at least 1, got %d", f.workers)
		}
		cfg.Extract.Workers = f.workers
	}
	if fl.Changed("dsn") {
		cfg.Database.DSN = f.dsn
	}
	if fl.Changed("script") {
		cfg.Scripting.Path = f.script
	}
	if fl.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cobra.Command, cfg *config.Config, dir string, check bool) error {
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "Root directory for loot tables: %s\n", root)

	opts := extract.Options{
		GroupMarker:   cfg.Extract.GroupMarker,
		ExpectedEmpty: cfg.Extract.ExpectedEmpty,
		Extension:     cfg.Extract.FileExtension,
		SkipHidden:    cfg.Extract.SkipHidden,
		Workers:       cfg.Extract.Workers,
		Overrides:     cfg.Overrides,
		Diagnostics:   stdout,
	}
	if cfg.Scripting.Path != "" {
		engine, err := scripting.NewEngine(cfg.Scripting.Path, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		if !engine.HasHook() {
			log.Warn("script defines no adjust_head function", zap.String("path", cfg.Scripting.Path))
		}
		opts.Hook = engine
	}

	start := time.Now()
	res, err := extract.NewDriver(root, opts, log).Run(ctx)
	if err != nil {
		return err
	}
	log.Info("scan finished",
		zap.Int("files", res.Files),
		zap.Int("heads", len(res.Heads)),
		zap.Int("diagnostics", len(res.Diagnostics)),
		zap.Duration("took", time.Since(start)))

	if !res.Complete() {
		extract.Report(stdout, res.Missing)
		log.Warn("tables without head drops, output not written", zap.Int("missing", len(res.Missing)))
		return nil
	}

	if check {
		if err := extract.Check(cfg.Output.Path, res.Heads, cfg.Output.Format); err != nil {
			return err
		}
		log.Info("output is up to date", zap.String("path", cfg.Output.Path))
		return nil
	}

	digest, err := extract.Emit(cfg.Output.Path, res.Heads, cfg.Output.Format)
	if err != nil {
		return err
	}
	log.Info("heads written",
		zap.String("path", cfg.Output.Path),
		zap.String("format", cfg.Output.Format),
		zap.String("blake2b", digest))

	if cfg.Database.DSN != "" {
		if err := storeHeads(ctx, cfg, res, log); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	return nil
}

func storeHeads(ctx context.Context, cfg *config.Config, res *extract.Result, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if err := persist.NewHeadRepo(db).ReplaceAll(ctx, res.Heads); err != nil {
		return err
	}
	log.Info("heads stored", zap.Int("rows", len(res.Heads)))
	return nil
}
