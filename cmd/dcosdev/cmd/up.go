package cmd

import (
	"context"

	"github.com/portworx/dcosdev/pkg/workflow"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Publish a development snapshot",
	Long: `Build the package repository document of the project and publish it, with every artifact,
to the object store at $MINIO_HOST (or to a local directory with --local-store).

The commands to add the snapshot to a cluster are printed at the end.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		in := newCliOptionInputs(config, &dcosdevFlags)
		deps, err := in.workflowDeps()
		if err != nil {
			wrapFatalln("prepare up", err)
			return
		}
		deps.Store, err = in.internalStore()
		if err != nil {
			wrapFatalln("object store", err)
			return
		}

		printInfo("uploading %s snapshot to %s", deps.Project.Name, deps.Store)
		res, err := workflow.Up(context.Background(), deps)
		if res != nil {
			printReport(res.Report)
		}
		if err != nil {
			wrapFatalln("up", err)
			return
		}
		printFollowUp(deps.Project.Name, deps.Endpoints)
	},
}

func (in *cliOptionInputs) workflowDeps() (workflow.Deps, error) {
	logger, err := in.getLogger()
	if err != nil {
		return workflow.Deps{}, err
	}
	project, err := in.project()
	if err != nil {
		return workflow.Deps{}, err
	}
	return workflow.Deps{
		Fs:        in.fs(),
		Project:   project,
		Endpoints: in.config.endpoints(),
		Logger:    logger,
	}, nil
}

func init() {
	addLocalStoreFlag(upCmd)
	rootCmd.AddCommand(upCmd)
}
