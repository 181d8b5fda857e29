package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/app"
	"github.com/sells-group/prospector-cli/internal/config"
	"github.com/sells-group/prospector-cli/internal/crmsync"
	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/pkg/notion"
	"github.com/sells-group/prospector-cli/pkg/salesforce"
)

var (
	leadsBoard    bool
	removeYes     bool
	pushTarget    string
	pushXLSX      string
	pushNotionRPS float64
	pushSFRate    float64
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Manage the saved lead pipeline",
	RunE:  runLeadsList,
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved leads",
	Args:  cobra.NoArgs,
	RunE:  runLeadsList,
}

func runLeadsList(cmd *cobra.Command, _ []string) error {
	env, err := initApp(cmd.Context(), config.ModeLeads, false, app.Deps{})
	if err != nil {
		return err
	}
	defer env.Close()

	if leadsBoard {
		printBoard(cmd.OutOrStdout(), env.Ctrl.Board())
		return nil
	}
	printLeads(cmd.OutOrStdout(), env.Ctrl.Leads())
	return nil
}

var leadsStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Move a saved lead to another pipeline stage",
	Long:  "STATUS is one of NEW, CONTACTED, MEETING, CLOSED, LOST.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initApp(cmd.Context(), config.ModeLeads, false, app.Deps{})
		if err != nil {
			return err
		}
		defer env.Close()

		status := model.CRMStatus(strings.ToUpper(strings.TrimSpace(args[1])))
		ok, err := env.Ctrl.UpdateLeadStatus(cmd.Context(), args[0], status)
		if err != nil {
			return err
		}
		if !ok {
			return eris.Errorf("no saved lead with id %q", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", args[0], status)
		return nil
	},
}

var leadsRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a saved lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var confirmer app.Confirmer = app.Answer(true)
		if !removeYes {
			confirmer = newPromptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
		}
		env, err := initApp(cmd.Context(), config.ModeLeads, false, app.Deps{Confirmer: confirmer})
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Ctrl.RemoveLead(cmd.Context(), args[0]) {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		}
		if _, ok := env.Leads.Get(args[0]); !ok {
			return eris.Errorf("no saved lead with id %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "kept")
		return nil
	},
}

var leadsPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upsert saved leads into Notion, Salesforce or a spreadsheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		target, err := crmsync.ParseTarget(pushTarget)
		if err != nil {
			return err
		}

		env, err := initApp(ctx, "push:"+string(target), false, app.Deps{})
		if err != nil {
			return err
		}
		defer env.Close()

		sink, err := newSink(target)
		if err != nil {
			return err
		}

		res, err := crmsync.Push(ctx, sink, env.Ctrl.Leads())
		if err != nil {
			return eris.Wrap(err, "push leads")
		}
		zap.L().Info("push complete",
			zap.String("target", string(target)),
			zap.Int("created", res.Created),
			zap.Int("updated", res.Updated),
			zap.Int("failed", res.Failed),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d created, %d updated, %d failed\n", target, res.Created, res.Updated, res.Failed)
		for _, e := range res.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), "  "+e)
		}
		if res.Failed > 0 {
			return eris.Errorf("%d leads failed to push", res.Failed)
		}
		return nil
	},
}

func newSink(target crmsync.Target) (crmsync.Sink, error) {
	switch target {
	case crmsync.TargetNotion:
		client := notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(pushNotionRPS))
		return crmsync.NewNotionSink(client, cfg.Notion.LeadDB), nil
	case crmsync.TargetSalesforce:
		client, err := salesforce.Connect(salesforce.JWTConfig{
			LoginURL: cfg.Salesforce.LoginURL,
			Username: cfg.Salesforce.Username,
			ClientID: cfg.Salesforce.ClientID,
			KeyPath:  cfg.Salesforce.KeyPath,
		}, salesforce.WithRateLimit(pushSFRate))
		if err != nil {
			return nil, err
		}
		return crmsync.NewSalesforceSink(client), nil
	default:
		return crmsync.NewSpreadsheetSink(pushXLSX), nil
	}
}

func init() {
	leadsCmd.PersistentFlags().BoolVar(&leadsBoard, "board", false, "group leads into pipeline columns")
	leadsRemoveCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "remove without asking")
	leadsPushCmd.Flags().StringVar(&pushTarget, "to", "", "destination: notion, salesforce or xlsx (required)")
	leadsPushCmd.Flags().StringVar(&pushXLSX, "path", "pipeline.xlsx", "spreadsheet path for --to xlsx")
	leadsPushCmd.Flags().Float64Var(&pushNotionRPS, "notion-rps", 3, "Notion requests per second")
	leadsPushCmd.Flags().Float64Var(&pushSFRate, "salesforce-rps", 5, "Salesforce requests per second")
	_ = leadsPushCmd.MarkFlagRequired("to")

	leadsCmd.AddCommand(leadsListCmd, leadsStatusCmd, leadsRemoveCmd, leadsPushCmd)
	rootCmd.AddCommand(leadsCmd)
}
