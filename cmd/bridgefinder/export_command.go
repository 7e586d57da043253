package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lineakit/bridgefinder/gedcom"
	"github.com/lineakit/bridgefinder/person"
	"github.com/spf13/cobra"
)

func newExportCommand(cctx *commandContext) *cobra.Command {
	var output string
	var maxPeople int
	var fromWatchlist bool

	cmd := &cobra.Command{
		Use:   "export [root-profile]",
		Short: "Export a crawled tree (or your watchlist) as GEDCOM 5.5.1",
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
			if root == "" && !fromWatchlist {
				return errors.New("root profile required (argument or WIKITREE_ROOT_ID), or use --watchlist")
			}

			ctx := cmd.Context()
			client, err := cctx.newClient(ctx, logger, creds)
			if err != nil {
				return err
			}

			if maxPeople <= 0 {
				maxPeople = cfg.MaxCrawlPeople
			}

			var people []person.Record
			if fromWatchlist {
				people, err = client.Watchlist(ctx, maxPeople)
				if err != nil {
					return fmt.Errorf("watchlist: %w", err)
				}
			} else {
				people, err = client.CrawlTree(ctx, root, maxPeople)
				if err != nil {
					return fmt.Errorf("crawl %s: %w", root, err)
				}
			}
			if len(people) == 0 {
				return errors.New("nothing to export")
			}

			doc := gedcom.NewExporter(people).Export()
			if err := os.WriteFile(output, []byte(doc), 0o644); err != nil { //nolint:gosec // exports are meant to be readable
				return fmt.Errorf("write gedcom: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d people to %s\n", len(people), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "tree.ged", "GEDCOM output path")
	cmd.Flags().IntVar(&maxPeople, "max-people", 0, "Export cap (defaults to the configured limit)")
	cmd.Flags().BoolVar(&fromWatchlist, "watchlist", false, "Export your watchlist instead of crawling from a root profile")

	return cmd
}
