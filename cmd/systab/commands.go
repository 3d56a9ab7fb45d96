package main

import (
	"github.com/at-ishikawa/systab/internal/cli"
	"github.com/at-ishikawa/systab/internal/ingest"
	"github.com/at-ishikawa/systab/internal/source"
	"github.com/spf13/cobra"
)

func newGetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get INDEX",
		Short: "Get the syscall at cache index INDEX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.querier(cmd)
			if err != nil {
				return err
			}
			return q.Get(args[0])
		},
	}
}

func newCallCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "call ID",
		Aliases: []string{"eax", "rax"},
		Short:   "Get the syscall with rax/eax value ID",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.querier(cmd)
			if err != nil {
				return err
			}
			return q.Call(args[0], opts.base)
		},
	}
}

func newNameCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "name SUBSTR",
		Short: "Get every syscall whose name contains SUBSTR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.querier(cmd)
			if err != nil {
				return err
			}
			_, err = q.Name(args[0])
			return err
		},
	}
}

func newCacheCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cache URI",
		Short: "Rebuild the cache from the syscall table at URI",
		Long: `Rebuild the cache from the syscall table at URI.

URI is an http(s) URL, a file:// URL or a local path. The document is read as JSON
unless --dhtml or --source-format html is given. The previous cache is replaced only
when the whole document could be read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalizer, err := ingest.NewNormalizer(opts.format, ingest.WithTableID(opts.cfg.Source.HTMLTableID))
			if err != nil {
				return err
			}

			fetcher := source.New(source.Config{
				RetryAttempts: opts.cfg.Source.RetryAttempts,
				Timeout:       opts.cfg.Source.Timeout,
			})
			defer func() {
				_ = fetcher.Close()
			}()

			count, err := cli.NewBuilder(fetcher, normalizer, opts.store()).Build(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			p, err := opts.presenter(cmd)
			if err != nil {
				return err
			}
			return p.Built(count)
		},
	}
}
