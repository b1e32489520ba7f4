package cmd

import (
	"context"

	"github.com/portworx/dcosdev/pkg/runner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Commands to build project artifacts",
}

var buildJavaCmd = &cobra.Command{
	Use:   "java",
	Short: "Build the java sub-projects",
	Long: `Build every gradle project under java/ in a gradle container, one after the other.

The build stops at the first project that fails. Set $PROJECT_PATH when the docker daemon sees the
project directory under another path, e.g. when dcosdev itself runs in a container.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		in := newCliOptionInputs(config, &dcosdevFlags)
		r, closer, err := in.runner()
		if err != nil {
			wrapFatalln("prepare build", err)
			return
		}
		defer func() { _ = closer() }()

		built, err := r.BuildJava(context.Background())
		if err != nil {
			printError("java build failed")
			wrapFatalln("build java", err)
			return
		}
		printInfo("built %v", built)
	},
}

func (in *cliOptionInputs) runner() (*runner.Runner, func() error, error) {
	logger, err := in.getLogger()
	if err != nil {
		return nil, nil, err
	}
	project, err := in.project()
	if err != nil {
		return nil, nil, err
	}
	hostPath, err := in.hostPath()
	if err != nil {
		return nil, nil, err
	}
	rt, closer, err := newRuntime(logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("container runtime ready", zap.String("project", project.Name), zap.String("hostPath", hostPath))
	return runner.New(in.fs(), rt, project,
		runner.WithHostPath(hostPath),
		runner.WithBuildImage(in.config.BuildImage),
		runner.WithTestImage(in.config.TestImage),
		runner.WithLogger(logger),
		runner.WithOutput(infoLogger.Writer()),
		runner.WithProgress(func(msg string) { printInfo("%s", msg) }),
	), closer, nil
}

func init() {
	buildCmd.AddCommand(buildJavaCmd)
	rootCmd.AddCommand(buildCmd)
}
