// Package app wires configuration, logging, storage and the state store behind
// the storefront command line.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nikolayk812/storefront-state/internal/config"
	"github.com/nikolayk812/storefront-state/internal/observability"
	"github.com/nikolayk812/storefront-state/internal/state"
	"go.uber.org/zap"
)

// Options control how the CLI runs.
type Options struct {
	ConfigPath string
	// AssumeYes confirms over-budget checkouts without asking.
	AssumeYes bool
	Args      []string
	Stdin     io.Reader
	Stdout    io.Writer
}

// Run loads configuration, opens the store and executes one command.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	kv, release, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer release()

	store, err := state.New(kv,
		state.WithLogger(logger.Named("state")),
		state.WithDefaultBudget(cfg.DefaultBudget),
		state.WithRetry(state.RetryConfig{
			Attempts:        cfg.Retry.Attempts,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
		}),
	)
	if err != nil {
		return fmt.Errorf("state.New: %w", err)
	}
	defer store.Close()

	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	cli := &commands{
		store:     store,
		kv:        kv,
		out:       opts.Stdout,
		in:        bufio.NewReader(opts.Stdin),
		unit:      cfg.Currency,
		assumeYes: opts.AssumeYes,
		logger:    logger,
	}

	logger.Debug("running command", zap.Strings("args", opts.Args))
	return cli.run(ctx, opts.Args)
}

func confirm(in *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
