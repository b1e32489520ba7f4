package cmd

import (
	"context"
	"path/filepath"

	"github.com/portworx/dcosdev/pkg/upgrade"
	"github.com/spf13/cobra"
)

var operatorUpgradeCmd = &cobra.Command{
	Use:   "upgrade <new-sdk-version>",
	Short: "Upgrade the SDK version of an operator package",
	Long: `Upgrade the SDK version recorded in universe/package.json, universe/resource.json
and the java scheduler build file, if any. Upgrading to the current version changes nothing.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := newCliOptionInputs(config, &dcosdevFlags)
		logger, err := in.getLogger()
		if err != nil {
			wrapFatalln("get logger", err)
			return
		}
		layout, err := in.layout()
		if err != nil {
			wrapFatalln("upgrade", err)
			return
		}
		res, err := upgrade.New(in.fs(), layout, upgrade.WithLogger(logger)).Upgrade(context.Background(), args[0])
		if err != nil {
			wrapFatalln("upgrade", err)
			return
		}
		if res.From == res.To {
			printInfo("already at sdk %s", res.To)
			return
		}
		printInfo("upgrade from %s to %s", res.From, res.To)
		for _, f := range res.Files {
			rel, err := filepath.Rel(layout.Root, f.Path)
			if err != nil {
				rel = f.Path
			}
			infoLogger.Printf("  %s: %d replacement(s)", rel, f.Replacements)
		}
	},
}

func init() {
	operatorCmd.AddCommand(operatorUpgradeCmd)
}
