package cmd

import (
	"context"
	"strings"

	"github.com/portworx/dcosdev/pkg/checksum"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/portworx/dcosdev/pkg/scaffold"
	"github.com/spf13/cobra"
)

// used to patch over checksum manifest downloads during test
var checksumSource checksum.Source

var operatorCmd = &cobra.Command{
	Use:   "operator",
	Short: "Commands to manage SDK operator packages",
	Long: `Commands to create and evolve DC/OS SDK operator packages.

An operator package is built against one of the supported SDK versions: ` + strings.Join(model.SDKVersions.Sorted(), ", "),
}

var operatorNewCmd = &cobra.Command{
	Use:   "new <name> <sdk-version>",
	Short: "Create an SDK operator package",
	Long: `Create an SDK operator package in the project directory.

The CLI checksums of the SDK version are downloaded and recorded in universe/resource.json.
Nothing is written when the version is not supported or the checksums cannot be found.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		in := newCliOptionInputs(config, &dcosdevFlags)
		s, err := in.scaffolder()
		if err != nil {
			wrapFatalln("prepare scaffolding", err)
			return
		}
		files, err := s.NewOperator(context.Background(), args[0], args[1])
		if err != nil {
			printError("could not create operator %s", args[0])
			wrapFatalln("create operator", err)
			return
		}
		printInfo("created operator %s with sdk %s", args[0], args[1])
		printFiles(files)
	},
}

var operatorAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add sub-projects to an operator package",
}

var operatorAddJavaCmd = &cobra.Command{
	Use:   "java-scheduler",
	Short: "Add a custom java scheduler",
	Long:  "Add a gradle project with a custom java scheduler, built against the package's SDK version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		in := newCliOptionInputs(config, &dcosdevFlags)
		s, err := in.scaffolder()
		if err != nil {
			wrapFatalln("prepare scaffolding", err)
			return
		}
		files, err := s.AddJavaScheduler(context.Background())
		if err != nil {
			wrapFatalln("add java scheduler", err)
			return
		}
		printInfo("added java scheduler, build it with: dcosdev build java")
		printFiles(files)
	},
}

var operatorAddTestsCmd = &cobra.Command{
	Use:   "tests",
	Short: "Add an integration test suite",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		in := newCliOptionInputs(config, &dcosdevFlags)
		s, err := in.scaffolder()
		if err != nil {
			wrapFatalln("prepare scaffolding", err)
			return
		}
		files, err := s.AddTests(context.Background())
		if err != nil {
			wrapFatalln("add tests", err)
			return
		}
		printInfo("added tests, run them with: dcosdev test <dcos-url>")
		printFiles(files)
	},
}

func (in *cliOptionInputs) scaffolder() (*scaffold.Scaffolder, error) {
	logger, err := in.getLogger()
	if err != nil {
		return nil, err
	}
	layout, err := in.layout()
	if err != nil {
		return nil, err
	}
	return scaffold.New(in.fs(), layout,
		scaffold.WithLogger(logger),
		scaffold.WithChecksumSource(checksumSource),
		scaffold.WithChecksumURL(in.config.ChecksumURL),
		scaffold.WithEndpoints(in.config.endpoints()),
	), nil
}

func init() {
	operatorCmd.AddCommand(operatorNewCmd)

	operatorAddCmd.AddCommand(operatorAddJavaCmd)
	operatorAddCmd.AddCommand(operatorAddTestsCmd)
	operatorCmd.AddCommand(operatorAddCmd)

	rootCmd.AddCommand(operatorCmd)
}
