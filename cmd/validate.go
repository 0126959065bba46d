package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dsrkit/auditlint/internal/core"
	"github.com/dsrkit/auditlint/internal/engine"
	"github.com/dsrkit/auditlint/internal/vocab"
)

var validateCmd = &cobra.Command{
	Use:     "validate LOGFILE",
	Short:   "Validate a DSR audit log for PII leakage and lifecycle violations",
	Example: `  auditlint validate build/dsr_audit.log -o report.json`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vocabPath, err := cmd.Flags().GetString("vocab")
		if err != nil {
			return err
		}
		strictVocab, err := cmd.Flags().GetBool("strict-vocab")
		if err != nil {
			return err
		}
		outputPath, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		normalizer := vocab.New()
		if vocabPath != "" {
			if err := normalizer.LoadExtensions(vocabPath); err != nil {
				return err
			}
			log.Debug().Msgf("loaded vocabulary extensions from %s", vocabPath)
		}

		logFile, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening audit log: %w", err)
		}
		defer logFile.Close()

		report, err := engine.New(normalizer, strictVocab).Run(logFile)
		if err != nil {
			return err
		}
		log.Info().Msgf("analyzed %d audit events from %s", report.EventCount, args[0])

		renderReport(report)

		if outputPath != "" {
			if err := writeJSONReport(report, outputPath); err != nil {
				return err
			}
			log.Info().Msgf("wrote JSON report to %s", outputPath)
		}

		if !report.Passed() {
			return fmt.Errorf("audit log failed compliance validation (%d errors)", len(report.Errors))
		}
		log.Info().Msg("audit log passed compliance validation")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("output", "o", "", "Write a machine-readable JSON report to this path")
	validateCmd.Flags().String("vocab", "", "YAML file extending the action/status vocabulary")
	validateCmd.Flags().Bool("strict-vocab", false, "Treat unrecognized action/status values as errors")
}

func renderReport(report *core.Report) {
	fmt.Println(bold("\n── Validation Report ──"))
	fmt.Printf("  %-10s %s\n", faint("Run ID:"), report.RunID)
	fmt.Printf("  %-10s %d\n", faint("Events:"), report.EventCount)

	verdict := green("PASS")
	if !report.Passed() {
		verdict = red("FAIL")
	}
	fmt.Printf("  %-10s %s (%d errors, %d warnings)\n\n",
		faint("Verdict:"), verdict, len(report.Errors), len(report.Warnings))

	if len(report.Errors) > 0 {
		renderFindings("Errors", report.Errors)
	}
	if len(report.Warnings) > 0 {
		renderFindings("Warnings", report.Warnings)
	}
}

func renderFindings(title string, findings []core.Finding) {
	fmt.Println(bold(title))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Ref", "Message"})

	for _, f := range findings {
		ref := "-"
		switch {
		case f.Line > 0:
			ref = fmt.Sprintf("line %d", f.Line)
		case f.RequestID != "":
			ref = truncate(f.RequestID, 35)
		}
		t.AppendRow(table.Row{ref, f.Message})
	}

	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Println()
}

// writeJSONReport persists the report for downstream automation, one JSON
// document per file.
func writeJSONReport(report *core.Report, path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("opening report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
