package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/prospector-cli/internal/app"
	"github.com/sells-group/prospector-cli/internal/config"
	"github.com/sells-group/prospector-cli/internal/discovery"
)

var (
	searchNearMe bool
	searchSelect int
	searchSave   bool
)

var searchCmd = &cobra.Command{
	Use:   "search NICHE [LOCATION]",
	Short: "Find businesses in a niche and area",
	Long:  "Searches for businesses with weak web presence. --select enriches one result with analysis, competitors and email drafts; --save adds it to the pipeline.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if searchSave && searchSelect == 0 {
			return eris.New("--save requires --select")
		}

		env, err := initApp(ctx, config.ModeSearch, true, app.Deps{
			Notifier: writerNotifier{w: cmd.ErrOrStderr()},
		})
		if err != nil {
			return err
		}
		defer env.Close()
		ctrl := env.Ctrl
		if err := ctrl.Navigate(app.ViewSearch); err != nil {
			return err
		}

		niche, location := args[0], ""
		if len(args) == 2 {
			location = args[1]
		}
		if searchNearMe {
			pos, err := ctrl.UseMyLocation(ctx)
			if err != nil {
				return eris.Wrap(err, "use my location")
			}
			location = discovery.LocationPlaceholder
			printPosition(out, pos)
		}

		results, err := ctrl.RunSearch(ctx, niche, location)
		if err != nil {
			return err
		}
		printResults(out, results)

		if searchSelect == 0 {
			return nil
		}
		if searchSelect < 0 || searchSelect > len(results) {
			return eris.Errorf("--select %d is out of range (1-%d)", searchSelect, len(results))
		}
		lead, err := ctrl.SelectLead(ctx, results[searchSelect-1].ID)
		if err != nil {
			return err
		}
		ctrl.Search().Wait()
		printEnrichment(out, lead, ctrl.Search().Snapshot().Enrichment)

		if searchSave {
			if _, _, err := ctrl.SaveSelected(ctx); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchNearMe, "near-me", false, "search around the configured location")
	searchCmd.Flags().IntVar(&searchSelect, "select", 0, "enrich the Nth result")
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "save the selected result to the pipeline")
	rootCmd.AddCommand(searchCmd)
}
