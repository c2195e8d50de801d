package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsMdCmd = &cobra.Command{
	Use:    "gen-md [<directory to save files>]",
	Short:  "Generate markdown docs for this tool",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	Run:    doGenMdDocs,
}

func doGenMdDocs(cmd *cobra.Command, args []string) {
	outDir := "./"
	if len(args) == 1 {
		outDir = args[0]
	}
	fmt.Println("Generating docs at:", outDir)

	rootCmd.DisableAutoGenTag = true
	if err := doc.GenMarkdownTree(rootCmd, outDir); err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}
}
