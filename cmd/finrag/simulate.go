package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finrag/internal/assistant"
)

type simulationRun struct {
	Persona    string               `json:"persona"`
	DurationMS int64                `json:"duration_ms"`
	Transcript assistant.Transcript `json:"transcript"`
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [persona]",
	Short: "Run a simulated persona interview against the reports",
	Long:  "Generates the questions a persona would ask and answers each one. With --all every persona is run in catalog order.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc := application.Services
		all, _ := cmd.Flags().GetBool("all")
		asJSON, _ := cmd.Flags().GetBool("json")
		width, _ := cmd.Flags().GetInt("width")

		personas, err := selectPersonas(svc.Catalog, args, all)
		if err != nil {
			return err
		}
		if svc.Corpus.Empty() {
			return eris.New(svc.NoCorpusText())
		}

		runs := make([]simulationRun, 0, len(personas))
		for _, id := range personas {
			start := time.Now()
			transcript, err := svc.Simulator.Simulate(ctx, id)
			if err != nil {
				return eris.Wrapf(err, "simulate %s", id)
			}
			run := simulationRun{Persona: id, DurationMS: time.Since(start).Milliseconds(), Transcript: transcript}
			runs = append(runs, run)
			application.Log.Info("persona simulated", zap.String("persona", id), zap.Int("turns", len(transcript)), zap.Int64("duration_ms", run.DurationMS))

			if !asJSON {
				printRun(cmd.OutOrStdout(), run, width)
			}
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}
		printSummary(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	simulateCmd.Flags().Bool("all", false, "simulate every persona")
	simulateCmd.Flags().Bool("json", false, "print the transcripts as JSON")
	simulateCmd.Flags().Int("width", 80, "wrap output at this many columns (0 disables wrapping)")
	rootCmd.AddCommand(simulateCmd)
}

func selectPersonas(catalog *assistant.Catalog, args []string, all bool) ([]string, error) {
	switch {
	case all && len(args) > 0:
		return nil, eris.New("pass either a persona or --all, not both")
	case all:
		return catalog.IDs(), nil
	case len(args) == 0:
		return nil, eris.Errorf("persona is required, one of: %s", strings.Join(catalog.IDs(), ", "))
	}
	if _, err := catalog.Lookup(args[0]); err != nil {
		return nil, err
	}
	return []string{args[0]}, nil
}

func printRun(w io.Writer, run simulationRun, width int) {
	fmt.Fprintf(w, "%s\n%s\n\n", run.Persona, strings.Repeat("=", len(run.Persona)))
	for _, turn := range run.Transcript {
		fmt.Fprintf(w, "Question: %s\n", wrapText(turn.Question, width))
		fmt.Fprintf(w, "Response: %s\n", wrapText(turn.Answer, width))
		fmt.Fprintln(w, "---")
	}
	fmt.Fprintln(w)
}

func printSummary(w io.Writer, runs []simulationRun) {
	if len(runs) < 2 {
		return
	}
	var total int64
	var turns int
	fmt.Fprintln(w, "Summary")
	for _, run := range runs {
		fmt.Fprintf(w, "  %-22s %2d turns  %6d ms\n", run.Persona, len(run.Transcript), run.DurationMS)
		total += run.DurationMS
		turns += len(run.Transcript)
	}
	fmt.Fprintf(w, "  %-22s %2d turns  %6d ms\n", "total", turns, total)
}
