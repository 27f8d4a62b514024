package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ashpect/ttlcache/pkg/cache"
	"github.com/ashpect/ttlcache/pkg/config"
	"github.com/ashpect/ttlcache/pkg/logging"
)

const writers = 4

var (
	cfgPath string
	debug   bool
)

func main() {
	root := &cobra.Command{
		Use:          "cachectl",
		Short:        "Exercise the TTL cache with a demo workload",
		RunE:         run,
		SilenceUsage: true,
	}
	root.Flags().StringVar(&cfgPath, "config", "", "path to a TOML or YAML config file")
	root.Flags().BoolVar(&debug, "debug", false, "enable per-operation trace output")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	id := "demo"
	opts := cache.Options{
		DefaultTTL:    2 * time.Second,
		SweepInterval: 200 * time.Millisecond,
	}
	if cfgPath != "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		id = cfg.ID
		opts = cfg.Cache.ToOptions()
	}
	if debug {
		opts.Debug = true
	}

	log := logging.ComponentLogger(logging.New(opts.Debug, cmd.ErrOrStderr()), "cachectl")
	opts.Logger = &log

	c := cache.New(id, opts)
	defer c.Close()

	out := cmd.OutOrStdout()

	// Concurrent writers hammer the table to show it holds up under
	// parallel mutation.
	g, ctx := errgroup.WithContext(cmd.Context())
	for w := 0; w < writers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < 25; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				key := fmt.Sprintf("writer%d/key%d", w, i)
				if err := c.AddWithTTL(key, i, cache.NoExpiry); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(out, "stored %d keys, ~%d KB\n", c.Len(), c.SizeKB())

	// A short-lived entry expires and the sweep removes it without any
	// further reads.
	if err := c.AddWithTTL("ephemeral", "soon gone", 100*time.Millisecond); err != nil {
		return err
	}
	fmt.Fprintf(out, "has(ephemeral) = %v\n", c.Has("ephemeral"))

	time.Sleep(500 * time.Millisecond)
	fmt.Fprintf(out, "after expiry: has(ephemeral) = %v, %d keys remain\n",
		c.Has("ephemeral"), c.Len())

	c.ClearAll()
	fmt.Fprintf(out, "after clear: %d keys, ~%d KB\n", c.Len(), c.SizeKB())
	return nil
}
