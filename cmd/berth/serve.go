package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/berth-web/berth/internal/config"
	"github.com/berth-web/berth/internal/errors"
	"github.com/berth-web/berth/pkg/dirres"
	"github.com/berth-web/berth/pkg/host"
	"github.com/berth-web/berth/pkg/middleware"
	"github.com/berth-web/berth/pkg/ref"
	"github.com/berth-web/berth/pkg/server"
	"github.com/berth-web/berth/pkg/store"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		address    string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the resolution server",
		Long: `Start the server described by berth.json.

Examples:
  berth serve
  berth serve --config /etc/berth/berth.json
  berth serve --address :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, address, verbose)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to berth.json (default: search upward from the working directory)")
	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address override")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func runServe(ctx context.Context, configPath, address string, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Server.Address = address
	}

	selector, err := buildSelector(ctx, cfg, logger)
	if err != nil {
		return err
	}

	adapter := server.NewAdapter(selector, server.Info(cfg.Server.Address), logger)
	adapter.Use(
		middleware.Prometheus(),
		middleware.OpenTelemetry(),
	)

	srvConfig := server.DefaultConfig().
		WithAddress(cfg.Server.Address).
		WithMetricsPath(cfg.Server.MetricsPath)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "name", cfg.Name, "hosts", len(cfg.Hosts))
	return server.New(srvConfig, adapter, logger).Run(sigCtx)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := config.FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return config.Load(root)
}

// buildSelector turns the declarative config into live virtual hosts
// with their directory attachments.
func buildSelector(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*host.Selector, error) {
	name := cfg.Name
	if name == "" {
		name = "berth"
	}
	root := host.NewContext(name, logger)
	selector := host.NewSelector()

	var s3Entries *store.S3
	for i := range cfg.Hosts {
		hc := &cfg.Hosts[i]
		vh := host.New(root, hc.Name)
		err := vh.SetPatterns(host.PatternSet{
			HostDomain:     hc.Patterns.HostDomain,
			HostPort:       hc.Patterns.HostPort,
			HostScheme:     hc.Patterns.HostScheme,
			ResourceDomain: hc.Patterns.ResourceDomain,
			ResourcePort:   hc.Patterns.ResourcePort,
			ResourceScheme: hc.Patterns.ResourceScheme,
			ServerAddress:  hc.Patterns.ServerAddress,
			ServerPort:     hc.Patterns.ServerPort,
		})
		if err != nil {
			return nil, err
		}

		for j := range hc.Attachments {
			ac := &hc.Attachments[j]
			rootRef := ref.New(ac.Root)

			var entries store.EntryStore
			switch rootRef.Scheme() {
			case "file":
				entries = store.NewLocal()
			case "s3":
				if s3Entries == nil {
					awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
					if err != nil {
						return nil, errors.New("B100").Wrap(err)
					}
					s3Entries = store.NewS3(s3.NewFromConfig(awsCfg))
				}
				entries = s3Entries
			default:
				return nil, errors.New("B101").
					WithDetail("Host " + hc.Name + ": root " + ac.Root)
			}

			dir := dirres.New(rootRef, entries)
			dir.SetIndexName(ac.Index)
			dir.SetListingAllowed(ac.Listing)
			dir.SetModifiable(ac.Modifiable)
			dir.SetDeeplyAccessible(ac.DeepAccess())
			dir.SetNegotiateContent(ac.NegotiateContent())
			if ac.Comparator == "lexical" {
				dir.UseAlphaComparator()
			}

			switch {
			case ac.Default:
				vh.AttachDefault(dir)
			case ac.Pattern == "":
				if _, err := vh.Attach(dir); err != nil {
					return nil, err
				}
			default:
				if _, err := vh.AttachPattern(ac.Pattern, dir); err != nil {
					return nil, err
				}
			}
		}

		if hc.Default {
			selector.SetDefault(vh)
		} else {
			selector.Add(vh)
		}
	}
	return selector, nil
}
