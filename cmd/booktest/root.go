package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"pollex.nl/shelf/booktest"
	"pollex.nl/shelf/config"
	"pollex.nl/shelf/sqlitefk"
)

// rootOptions holds the global flags and the config they override.
type rootOptions struct {
	DSN     string
	Variant string
	Verbose bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "booktest",
		Short:         "Authors, books and tags on sqlite",
		Long:          "Create the booktest tables and run queries against them. Foreign keys are enforced on every connection.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "sqlite database (overrides BOOKTEST_DSN)")
	cmd.PersistentFlags().StringVar(&opts.Variant, "variant", "", "table naming: explicit|default (overrides BOOKTEST_VARIANT)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every statement")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newDemoCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))

	return cmd
}

func (opts *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dsn") {
		cfg.DSN = opts.DSN
	}
	if flags.Changed("variant") {
		cfg.Variant = opts.Variant
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.Verbose
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts.cfg = cfg
	opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	return nil
}

func (opts *rootOptions) openDB(cmd *cobra.Command) (*sql.DB, error) {
	db, err := sqlitefk.Open(cmd.Context(), opts.cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.cfg.DSN, err)
	}
	return db, nil
}

func (opts *rootOptions) newStore(db *sql.DB) *booktest.Store {
	storeOpts := []booktest.Option{booktest.WithLogger(opts.logger)}
	if opts.cfg.Verbose {
		storeOpts = append(storeOpts, booktest.WithQueryLogging())
	}
	return booktest.NewStore(db, booktest.NewSchema(opts.cfg.SchemaVariant()), storeOpts...)
}
