package cmd

import (
	"context"
	"strconv"

	"github.com/portworx/dcosdev/pkg/workflow"
	"github.com/spf13/cobra"
)

var releaseCmd = &cobra.Command{
	Use:   "release <package-version> <release-version> <s3-bucket>",
	Short: "Release a package version to a public bucket",
	Long: `Publish a versioned release of the package to a public S3 bucket, under <name>/artifacts/<package-version>/.

Artifact URIs of the repository document point at the bucket. With --universe, the release is also
added to a clone of the universe repository, as repo/packages/<N>/<name>/<release-version>.
The universe is left untouched unless every artifact got published.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		releaseVersion, err := strconv.Atoi(args[1])
		if err != nil {
			wrapFatalln("release version must be an integer", err)
			return
		}
		in := newCliOptionInputs(config, &dcosdevFlags)
		deps, err := in.workflowDeps()
		if err != nil {
			wrapFatalln("prepare release", err)
			return
		}
		ctx := context.Background()
		deps.Store, err = in.releaseStore(ctx, args[2])
		if err != nil {
			wrapFatalln("release bucket", err)
			return
		}

		printInfo("releasing %s %s-%d to %s", deps.Project.Name, args[0], releaseVersion, args[2])
		res, err := workflow.Release(ctx, deps, workflow.ReleaseOptions{
			Version:        args[0],
			ReleaseVersion: releaseVersion,
			Bucket:         args[2],
			UniversePath:   dcosdevFlags.release.universe,
		})
		if res != nil {
			printReport(res.Report)
		}
		if err != nil {
			wrapFatalln("release", err)
			return
		}
		if res.Split != "" {
			printInfo("added release to universe: %s", res.Split)
		}
	},
}

func init() {
	addUniverseFlag(releaseCmd)
	rootCmd.AddCommand(releaseCmd)
}
