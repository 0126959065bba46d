package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dsrkit/auditlint/internal/vocab"
)

// vocabCmd shows the built-in external-to-canonical vocabulary, so operators
// can see what an extension file still needs to cover.
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Show the built-in action/status normalization vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		normalizer := vocab.New()

		fmt.Println(bold("\n── Actions ──"))
		renderMapping(normalizer.Actions())

		fmt.Println(bold("\n── Statuses ──"))
		renderMapping(normalizer.Statuses())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
}

func renderMapping(mapping map[string]string) {
	externals := make([]string, 0, len(mapping))
	for external := range mapping {
		externals = append(externals, external)
	}
	sort.Strings(externals)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"External", "Canonical"})
	for _, external := range externals {
		t.AppendRow(table.Row{external, mapping[external]})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
