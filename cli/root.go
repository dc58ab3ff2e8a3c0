package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opal-lang/rawline/cli/internal/config"
	"github.com/opal-lang/rawline/core/schema"
	"github.com/opal-lang/rawline/internal/ctxlog"
	"github.com/opal-lang/rawline/runtime/decoder"
	"github.com/opal-lang/rawline/runtime/model"
	"github.com/opal-lang/rawline/runtime/rawline"
)

// app holds state shared by all subcommands of one invocation.
type app struct {
	stdin      io.Reader
	configPath string
	flags      struct {
		maxDepth  int
		strict    bool
		logLevel  string
		logFormat string
		workers   int
		noColor   bool
	}

	cfg     config.Config
	logger  *slog.Logger
	manager *model.Manager
	api     *rawline.API
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	a := &app{stdin: stdin}

	root := &cobra.Command{
		Use:           "rawline",
		Short:         "Decode records of STEP/IFC files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Path to the HCL configuration file")
	pf.IntVar(&a.flags.maxDepth, "max-depth", decoder.DefaultMaxDepth, "Maximum list nesting depth")
	pf.BoolVar(&a.flags.strict, "strict", false, "Fail on derived and binary values instead of skipping them")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	pf.StringVar(&a.flags.logFormat, "log-format", "text", "Log format: text or json")
	pf.IntVar(&a.flags.workers, "workers", 4, "Concurrent decode workers")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		a.dumpCmd(),
		a.refsCmd(),
		a.digestCmd(),
		a.queryCmd(),
		a.statsCmd(),
		a.watchCmd(),
	)
	return root
}

// setup merges the config file with flags, flags winning, and builds the
// logger, manager and API.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(a.configPath, config.Environ())
	if err != nil {
		return &CLIError{Message: "invalid configuration", Details: err.Error()}
	}

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		cfg.MaxDepth = a.flags.maxDepth
	}
	if flags.Changed("strict") {
		cfg.Strict = a.flags.strict
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(a.flags.logLevel)
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = strings.ToLower(a.flags.logFormat)
	}
	if flags.Changed("workers") {
		cfg.Workers = a.flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return &CLIError{Message: "invalid flags", Details: err.Error()}
	}
	a.cfg = cfg

	a.logger = newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(ctxlog.WithLogger(ctx, a.logger))

	registry := schema.NewRegistry()
	registry.Register(cfg.Entities...)
	a.manager = model.NewManager(model.WithRegistry(registry), model.WithLogger(a.logger))
	a.api = rawline.New(a.manager, append(cfg.DecoderOptions(), decoder.WithLogger(a.logger))...)

	a.logger.Debug("configuration loaded", "max_depth", cfg.MaxDepth, "strict", cfg.Strict,
		"workers", cfg.Workers, "extra_entities", len(cfg.Entities))
	return nil
}

// openModel loads path into the manager; "-" reads standard input.
func (a *app) openModel(path string) (model.ID, error) {
	if path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return 0, fmt.Errorf("read stdin: %w", err)
		}
		return a.manager.Open(data)
	}
	return a.manager.OpenFile(path)
}

// parseIDs accepts 12 and #12.
func parseIDs(args []string) ([]uint32, error) {
	ids := make([]uint32, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseUint(strings.TrimPrefix(arg, "#"), 10, 32)
		if err != nil || n == 0 {
			return nil, &CLIError{
				Message: fmt.Sprintf("invalid record id %q", arg),
				Hint:    "record ids are positive integers, optionally written as #12",
			}
		}
		ids = append(ids, uint32(n))
	}
	return ids, nil
}

// typeCode resolves an entity name or fails with suggestions.
func (a *app) typeCode(name string) (uint32, error) {
	registry := a.manager.Schema()
	code := registry.TypeCode(name)
	if code != schema.Unknown {
		return code, nil
	}
	err := &CLIError{Message: fmt.Sprintf("unknown entity type %q", name)}
	if suggestions := registry.Suggest(name); len(suggestions) > 0 {
		err.Hint = "did you mean " + strings.Join(suggestions, ", ") + "?"
	}
	return 0, err
}
