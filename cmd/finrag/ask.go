package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question from the reports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		question := strings.Join(args, " ")
		if strings.TrimSpace(question) == "" {
			return eris.New("Please enter a question.")
		}

		override, _ := cmd.Flags().GetString("context")
		if path, _ := cmd.Flags().GetString("context-file"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "read context file %s", path)
			}
			override = string(data)
		}

		svc := application.Services
		if override == "" && svc.Corpus.Empty() {
			return eris.New(svc.NoCorpusText())
		}

		width, _ := cmd.Flags().GetInt("width")
		res := svc.Engine.Ask(ctx, question, override)
		fmt.Fprintln(cmd.OutOrStdout(), wrapText(res.String(), width))
		if !res.OK() {
			return errReported
		}
		return nil
	},
}

func init() {
	askCmd.Flags().String("context", "", "answer from this text instead of the loaded reports")
	askCmd.Flags().String("context-file", "", "answer from the contents of this file instead of the loaded reports")
	askCmd.Flags().Int("width", 0, "wrap output at this many columns (0 disables wrapping)")
	rootCmd.AddCommand(askCmd)
}
