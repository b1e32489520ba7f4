package cmd

import (
	"context"

	"github.com/portworx/dcosdev/pkg/runner"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test <dcos-url>",
	Short: "Run the integration tests against a cluster",
	Long: `Run the sanity integration tests of the project against a DC/OS cluster, in the SDK test harness container.

The tests install the development snapshot last published with "dcosdev up", from $MINIO_HOST.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := newCliOptionInputs(config, &dcosdevFlags)
		if err := in.requireMinioHost(); err != nil {
			wrapFatalln("test", err)
			return
		}
		r, closer, err := in.runner()
		if err != nil {
			wrapFatalln("prepare tests", err)
			return
		}
		defer func() { _ = closer() }()

		project, err := in.project()
		if err != nil {
			wrapFatalln("test", err)
			return
		}
		err = r.Test(context.Background(), runner.TestOptions{
			ClusterURL:      args[0],
			Strict:          dcosdevFlags.test.strict,
			Username:        dcosdevFlags.test.username,
			Password:        dcosdevFlags.test.password,
			StubUniverseURL: in.config.endpoints().StubRepositoryURL(project.Name),
		})
		if err != nil {
			printError("tests failed")
			wrapFatalln("test", err)
			return
		}
		printInfo("tests passed")
	},
}

func init() {
	addStrictFlag(testCmd)
	addDCOSUsernameFlag(testCmd)
	addDCOSPasswordFlag(testCmd)
	rootCmd.AddCommand(testCmd)
}
