package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/prospector-cli/internal/app"
	"github.com/sells-group/prospector-cli/internal/config"
	"github.com/sells-group/prospector-cli/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show pipeline statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initApp(cmd.Context(), config.ModeLeads, false, app.Deps{})
		if err != nil {
			return err
		}
		defer env.Close()

		f, err := dashboard.NewFormatter(dashboardConfig(cfg))
		if err != nil {
			return err
		}
		printCards(cmd.OutOrStdout(), f.Cards(env.Ctrl.Dashboard()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
