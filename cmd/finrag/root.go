package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"finrag/internal/app"
)

var application *app.App

// errReported marks a failure whose message was already printed as output.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "finrag",
	Short: "Ask questions about the financial reports from the command line",
	Long:  "Answers questions against every loaded report chunk and runs simulated persona interviews, printing the results.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New("cli")
		if err != nil {
			return err
		}
		application = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			_ = application.Log.Sync()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func reportError(w io.Writer, err error) {
	if errors.Is(err, errReported) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}
