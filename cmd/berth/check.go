package main

import (
	"github.com/spf13/cobra"

	"github.com/berth-web/berth/pkg/host"
)

func checkCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate berth.json without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// Compile every pattern set the way serve would.
			for _, hc := range cfg.Hosts {
				vh := host.New(nil, hc.Name)
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
					return err
				}
				info("host %s: %d attachment(s)", hc.Name, len(hc.Attachments))
			}

			success("%s is valid", cfg.Path())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to berth.json")

	return cmd
}
