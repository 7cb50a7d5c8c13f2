// main
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pacs008/actor"
	"github.com/pacs008/actor/treeset"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const setName = "treeset"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		config     *Config
	)

	var rootCmd = &cobra.Command{
		Use:          "treesetctl",
		Short:        "Drive an actor-based ordered integer set",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = LoadConfig(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				config.LogLevel = logLevel
			}
			level, err := log.ParseLevel(config.LogLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to yaml config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")

	var cmdRun = &cobra.Command{
		Use:   "run [script]",
		Short: "Run a script of set operations (stdin if no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			as := actor.NewActorSystem()
			client, err := startSet(as, config)
			if err != nil {
				return err
			}
			defer client.Stop()
			return runScript(cmd.Context(), client, in, cmd.OutOrStdout())
		},
	}

	var (
		seed    int64
		workers int
	)
	var cmdLoad = &cobra.Command{
		Use:   "load",
		Short: "Run a concurrent random workload and verify the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers > 0 {
				config.Load.Workers = workers
			}
			stopMetrics := serveMetrics(config.MetricsAddr)
			defer stopMetrics()

			as := actor.NewActorSystem()
			set, err := buildSet(as, config)
			if err != nil {
				return err
			}
			report, err := runLoad(cmd.Context(), as, set, config.Load, config.OpTimeout, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "operations=%d live=%d gc_cycles=%d elapsed=%v\n",
				report.Operations, report.Live, report.Stats.GCCycles, report.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
	cmdLoad.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmdLoad.Flags().IntVar(&workers, "workers", 0, "concurrent clients (overrides config)")

	var cmdConfig = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	rootCmd.AddCommand(cmdRun, cmdLoad, cmdConfig)
	return rootCmd
}

func buildSet(as *actor.ActorSystem, config *Config) (*actor.ActorRef, error) {
	b := treeset.Build(as, setName)
	if config.GCInterval > 0 {
		b = b.WithGCInterval(config.GCInterval)
	}
	return b.Run()
}

func startSet(as *actor.ActorSystem, config *Config) (*treeset.Client, error) {
	set, err := buildSet(as, config)
	if err != nil {
		return nil, err
	}
	return treeset.NewClient(as, set, config.OpTimeout)
}

// serveMetrics exposes /metrics on addr until the returned
// function is called. An empty addr serves nothing.
func serveMetrics(addr string) func() {
	if addr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithField("addr", addr).Errorf("Metrics server failed: %v", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
