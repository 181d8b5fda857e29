package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/prospector-cli/internal/app"
	"github.com/sells-group/prospector-cli/internal/chat"
	"github.com/sells-group/prospector-cli/internal/config"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the strategy assistant",
	Long:  "Starts an interactive conversation. Enter /exit or send EOF to quit.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initApp(cmd.Context(), config.ModeChat, true, app.Deps{
			Notifier: writerNotifier{w: cmd.ErrOrStderr()},
		})
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Ctrl.Navigate(app.ViewChat); err != nil {
			return err
		}
		return chatLoop(cmd.Context(), env.Ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// chatLoop reads one message per line and prints each reply until EOF or
// /exit.
func chatLoop(ctx context.Context, ctrl *app.Controller, in io.Reader, out io.Writer) error {
	for _, m := range ctrl.Chat().Messages() {
		fmt.Fprintf(out, "%s\n\n", m.Text)
	}

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := sc.Text()
		if strings.TrimSpace(line) == "/exit" {
			return nil
		}

		reply, err := ctrl.SendChat(ctx, line)
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			continue
		case err != nil:
			return err
		}
		fmt.Fprintf(out, "\n%s\n\n", reply.Text)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
