// cmd/surfscan/scan.go
// scan subcommand: flag parsing, config layering and app startup

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/surfscan/surfscan/internal/app"
	"github.com/surfscan/surfscan/internal/core"
	"github.com/surfscan/surfscan/internal/models"
	"github.com/surfscan/surfscan/pkg/logger"
)

func newScanCmd() *cobra.Command {
	var (
		configFile  string
		ports       string
		mode        string
		batchSize   int
		rateLimit   int
		tcpTimeout  time.Duration
		udpTimeout  time.Duration
		noBanner    bool
		tool        string
		udpViaTool  bool
		formats     []string
		outDir      string
		noColor     bool
		verbose     bool
		natsURL     string
		noHistory   bool
		historyPath string
	)

	cmd := &cobra.Command{
		Use:   "scan [target]",
		Short: "Scan a target host for open ports and attack vectors",
		Example: `  surfscan scan 192.168.1.10
  surfscan scan example.com -p 1-1024 -m comprehensive
  surfscan scan 10.0.0.5 -p 22,80,443 --tool /usr/bin/nmap -m syn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			set := func(key string, value interface{}) { overrides[key] = value }

			// Only flags the user actually set override file/env values.
			if cmd.Flags().Changed("mode") {
				set("scanner.mode", mode)
			}
			if cmd.Flags().Changed("batch-size") {
				set("scanner.batch_size", batchSize)
			}
			if cmd.Flags().Changed("rate") {
				set("scanner.rate_limit", rateLimit)
			}
			if cmd.Flags().Changed("tcp-timeout") {
				set("scanner.tcp_timeout", tcpTimeout)
			}
			if cmd.Flags().Changed("udp-timeout") {
				set("scanner.udp_timeout", udpTimeout)
			}
			if noBanner {
				set("scanner.banner_grab", false)
			}
			if cmd.Flags().Changed("tool") {
				set("scanner.external_tool", tool)
			}
			if cmd.Flags().Changed("udp-via-tool") {
				set("scanner.udp_via_tool", udpViaTool)
			}
			if cmd.Flags().Changed("output") {
				set("output.formats", formats)
			}
			if cmd.Flags().Changed("out-dir") {
				set("output.directory", outDir)
			}
			if noColor {
				set("output.color", false)
			}
			if verbose {
				set("output.verbose", true)
				set("log.level", "debug")
			}
			if cmd.Flags().Changed("nats") {
				set("notify.url", natsURL)
			}
			if noHistory {
				set("history.enabled", false)
			}
			if cmd.Flags().Changed("history-db") {
				set("history.path", historyPath)
			}

			cfg, err := core.Load(configFile, overrides)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if err := logger.Init(logger.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				File:   cfg.Log.File,
			}); err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			defer logger.Sync()

			scanMode, err := models.ParseScanMode(cfg.Scanner.Mode)
			if err != nil {
				return err
			}

			application, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, stop := signal.NotifyContext(context.Background(),
				syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return application.Run(ctx, args[0], ports, scanMode)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to YAML config file")
	cmd.Flags().StringVarP(&ports, "ports", "p", "1-1024", "Port spec, e.g. 22,80,8000-8100")
	cmd.Flags().StringVarP(&mode, "mode", "m", "connect", "Scan mode: connect, syn, udp, comprehensive")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Ports probed concurrently per batch")
	cmd.Flags().IntVar(&rateLimit, "rate", 0, "Max probe launches per second (0 = unlimited)")
	cmd.Flags().DurationVar(&tcpTimeout, "tcp-timeout", 0, "TCP connect timeout")
	cmd.Flags().DurationVar(&udpTimeout, "udp-timeout", 0, "UDP probe timeout")
	cmd.Flags().BoolVar(&noBanner, "no-banner", false, "Skip banner grabbing on open TCP ports")
	cmd.Flags().StringVar(&tool, "tool", "", "Path to external SYN/UDP probe tool")
	cmd.Flags().BoolVar(&udpViaTool, "udp-via-tool", false, "Delegate UDP probes to the external tool")
	cmd.Flags().StringSliceVarP(&formats, "output", "o", nil, "Output formats: console, jsonl")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for file outputs")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	cmd.Flags().StringVar(&natsURL, "nats", "", "NATS URL for open-port events")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Disable scan history persistence")
	cmd.Flags().StringVar(&historyPath, "history-db", "", "Scan history database path")

	return cmd
}
