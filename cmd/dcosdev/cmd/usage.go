package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// usageFrontMatter titles each page after its command, e.g. "dcosdev operator new"
func usageFrontMatter(filename string) string {
	page := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return fmt.Sprintf("---\ntitle: %s\nversion: %s\n---\n\n", strings.ReplaceAll(page, "_", " "), NewVersionInfo().Version)
}

var docCmd = &cobra.Command{
	Use:   "usage",
	Short: "Generates the markdown reference of dcosdev commands",
	Long: `Generates one markdown page per dcosdev command, from the project scaffolding
commands (operator, basic) to the publishing ones (up, release).

The target directory is created when missing. Pages carry a front matter with the
command title and the dcosdev version, ready for a static site generator.`,
	Run: func(cmd *cobra.Command, args []string) {
		target := dcosdevFlags.doc.docTarget
		if err := os.MkdirAll(target, 0755); err != nil {
			wrapFatalln("failed to create documentation directory", err)
			return
		}
		rootCmd.DisableAutoGenTag = true
		if err := doc.GenMarkdownTreeCustom(rootCmd, target, usageFrontMatter, func(s string) string { return s }); err != nil {
			wrapFatalln("failed to generate doc", err)
			return
		}
		printInfo("usage documentation written to %s", target)
	},
}

func init() {
	rootCmd.AddCommand(docCmd)
	addTargetFlag(docCmd)
}
