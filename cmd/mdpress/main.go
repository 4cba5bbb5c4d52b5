package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	mdpress "github.com/mpercival/mdpress"
	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, args, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(ExitSuccess)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	if flags.version {
		fmt.Printf("mdpress %s\n", Version)
		os.Exit(ExitSuccess)
	}

	if err := validateWorkers(flags.workers); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	env := DefaultEnv()

	poolSize := mdpress.ResolvePoolSize(flags.workers)
	if flags.verbose {
		fmt.Fprintf(os.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := mdpress.NewConverterPool(poolSize, mdpress.WithClock(env.Now))
	defer pool.Close()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, args, flags, pool, env); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		_ = pool.Close()
		os.Exit(exitCodeFor(err))
	}
}
