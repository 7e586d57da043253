package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lineakit/bridgefinder/bridge"
	"github.com/lineakit/bridgefinder/match"
	"github.com/spf13/cobra"
)

func newFindCommand(cctx *commandContext) *cobra.Command {
	var output string
	var maxPeople int

	cmd := &cobra.Command{
		Use:   "find [root-profile]",
		Short: "Crawl a tree and score bridge candidates for its end-of-line ancestors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cctx.logger()
			cfg, creds, err := cctx.loadConfig()
			if err != nil {
				return err
			}

			root := creds.RootID
			if len(args) > 0 {
				root = args[0]
			}
			if root == "" {
				return errors.New("root profile required (argument or WIKITREE_ROOT_ID)")
			}

			ctx := cmd.Context()
			client, err := cctx.newClient(ctx, logger, creds)
			if err != nil {
				return err
			}

			if maxPeople <= 0 {
				maxPeople = cfg.MaxCrawlPeople
			}
			people, err := client.CrawlTree(ctx, root, maxPeople)
			if err != nil {
				return fmt.Errorf("crawl %s: %w", root, err)
			}
			logger.InfoContext(ctx, "tree crawled", "root", root, "people", len(people))

			finder := bridge.NewFinder(client, match.NewEngine(cfg.Match),
				bridge.WithLogger(logger),
				bridge.WithAPIDelay(cfg.APIDelay),
				bridge.WithPrivacyCutoff(cfg.PrivacyCutoff),
				bridge.WithSearchLimit(cfg.SearchLimit),
			)
			report, err := finder.Run(ctx, root, people)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, []byte(report.Markdown()), 0o644); err != nil { //nolint:gosec // report is meant to be readable
				return fmt.Errorf("write report: %w", err)
			}

			out := cmd.OutOrStdout()
			if report.TotalMatches > 0 {
				fmt.Fprintln(out, summaryTable(report))
			}
			fmt.Fprintf(out, "Found %d matches (%d confirmed) across %d ancestors.\n",
				report.TotalMatches, len(report.Confirmed), len(report.Results))
			fmt.Fprintf(out, "Report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "bridge_report.md", "Report output path")
	cmd.Flags().IntVar(&maxPeople, "max-people", 0, "Crawl cap (defaults to the configured limit)")

	return cmd
}
