package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dsrkit/auditlint/internal/buildinfo"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show build information",
	Run: func(cmd *cobra.Command, args []string) {
		info := buildinfo.GetBuildInfo()
		fmt.Println(bold("\n── Auditlint Build Information ──"))
		fmt.Printf("  %s:    %s\n", faint("Version"), info.Version)
		fmt.Printf("  %s:     %s\n", faint("Commit"), info.CommitHash)
		fmt.Printf("  %s:      %s\n", faint("About"), info.About)
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
