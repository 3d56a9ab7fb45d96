package main

import (
	"fmt"

	"github.com/at-ishikawa/systab/internal/abi"
	"github.com/at-ishikawa/systab/internal/cache"
	"github.com/at-ishikawa/systab/internal/cli"
	"github.com/at-ishikawa/systab/internal/config"
	"github.com/at-ishikawa/systab/internal/ingest"
	"github.com/at-ishikawa/systab/internal/presenter"
	"github.com/at-ishikawa/systab/internal/query"
	"github.com/spf13/cobra"
)

// options is filled by flags and completed from the configuration file.
type options struct {
	configFile string
	debugMode  bool
	cachePath  string
	mode       abi.Mode
	base       query.Base
	format     ingest.Format
	djson      bool
	dhtml      bool
	output     presenter.Output

	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &options{
		mode:   abi.Mode64,
		base:   query.Base16,
		format: ingest.FormatJSON,
		output: presenter.OutputTable,
	}

	rootCommand := &cobra.Command{
		Use:   "systab",
		Short: "Build and query a local cache of the syscall table",
		Long: `Build and query a local cache of the syscall table.

Without a command every cached syscall is listed with its cache index and rax/eax value.
Run "systab cache URI" first to build the cache from kernelgrok style JSON or HTML data.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(opts.debugMode)
			return opts.complete(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.querier(cmd)
			if err != nil {
				return err
			}
			return q.List()
		},
	}

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file path")
	flags.BoolVar(&opts.debugMode, "debug", false, "Enable debug mode")
	flags.StringVar(&opts.cachePath, "cache-file", "", "cache file path (default from cache.path in the config)")
	flags.VarP(&opts.mode, "abi", "m", "register ABI used for labels, -m64 or -m32")
	flags.VarP(&opts.base, "base", "b", "numeric base of a call id, -b16 or -b10")
	flags.Var(&opts.format, "source-format", "format of the cache source, json or html")
	flags.BoolVar(&opts.djson, "djson", false, "cache source is JSON")
	flags.BoolVar(&opts.dhtml, "dhtml", false, "cache source is HTML")
	flags.VarP(&opts.output, "output", "o", "output format, table or json")
	rootCommand.MarkFlagsMutuallyExclusive("djson", "dhtml")

	rootCommand.AddCommand(
		newGetCommand(opts),
		newCallCommand(opts),
		newNameCommand(opts),
		newCacheCommand(opts),
	)
	return rootCommand
}

// complete fills every option whose flag was not given from the configuration file.
func (opts *options) complete(cmd *cobra.Command) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	opts.cfg = cfg

	flags := cmd.Flags()
	if !flags.Changed("cache-file") {
		opts.cachePath = cfg.Cache.Path
	}
	if !flags.Changed("abi") {
		if err := opts.mode.Set(cfg.Defaults.ABI); err != nil {
			return err
		}
	}
	if !flags.Changed("base") {
		if err := opts.base.Set(fmt.Sprint(cfg.Defaults.Base)); err != nil {
			return err
		}
	}
	if !flags.Changed("source-format") {
		if err := opts.format.Set(cfg.Defaults.SourceFormat); err != nil {
			return err
		}
	}
	switch {
	case opts.djson:
		opts.format = ingest.FormatJSON
	case opts.dhtml:
		opts.format = ingest.FormatHTML
	}
	if !flags.Changed("output") {
		if err := opts.output.Set(cfg.Defaults.Output); err != nil {
			return err
		}
	}
	return nil
}

func (opts *options) store() *cache.Store {
	return cache.NewStore(opts.cachePath)
}

func (opts *options) presenter(cmd *cobra.Command) (*presenter.Presenter, error) {
	regs, err := abi.ForMode(opts.mode)
	if err != nil {
		return nil, err
	}
	return presenter.New(cmd.OutOrStdout(), regs, presenter.WithOutput(opts.output)), nil
}

func (opts *options) querier(cmd *cobra.Command) (*cli.Querier, error) {
	p, err := opts.presenter(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewQuerier(opts.store(), p), nil
}
