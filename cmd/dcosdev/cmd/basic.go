package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var basicCmd = &cobra.Command{
	Use:   "basic",
	Short: "Commands to manage plain marathon packages",
}

var basicNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a plain marathon package",
	Long:  "Create a package running a single marathon app, launched by cmd.sh.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := newCliOptionInputs(config, &dcosdevFlags)
		s, err := in.scaffolder()
		if err != nil {
			wrapFatalln("prepare scaffolding", err)
			return
		}
		files, err := s.NewBasic(context.Background(), args[0])
		if err != nil {
			wrapFatalln("create basic package", err)
			return
		}
		printInfo("created basic package %s", args[0])
		printFiles(files)
	},
}

func init() {
	basicCmd.AddCommand(basicNewCmd)
	rootCmd.AddCommand(basicCmd)
}
