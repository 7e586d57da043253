package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var envFlag string
	var verboseFlag bool
	var noBrowserFlag bool
	var noCacheFlag bool
	var cacheTTLFlag time.Duration

	cctx := &commandContext{
		configPath: &configFlag,
		envPath:    &envFlag,
		verbose:    &verboseFlag,
		noBrowser:  &noBrowserFlag,
		noCache:    &noCacheFlag,
		cacheTTL:   &cacheTTLFlag,
	}

	rootCmd := &cobra.Command{
		Use:           "bridgefinder",
		Short:         "Find connections between family trees on WikiTree",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "Path to a .env file with WikiTree credentials")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noBrowserFlag, "no-browser", false, "Disable reading session cookies from browser stores")
	rootCmd.PersistentFlags().BoolVar(&noCacheFlag, "no-cache", false, "Disable API response caching")
	rootCmd.PersistentFlags().DurationVar(&cacheTTLFlag, "cache-ttl", 7*24*time.Hour, "API cache time-to-live")

	rootCmd.AddCommand(newFindCommand(cctx))
	rootCmd.AddCommand(newExportCommand(cctx))

	return rootCmd
}
