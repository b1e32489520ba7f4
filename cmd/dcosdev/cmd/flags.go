package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/portworx/dcosdev/pkg/container"
	"github.com/portworx/dcosdev/pkg/dlogger"
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/portworx/dcosdev/pkg/storage"
	"github.com/portworx/dcosdev/pkg/storage/localfs"
	"github.com/portworx/dcosdev/pkg/storage/sthree"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type flagsT struct {
	root struct {
		workdir  string
		logLevel string
	}
	config struct {
		minioHost    string
		internalHost string
	}
	up struct {
		localStore string
	}
	test struct {
		strict   bool
		username string
		password string
	}
	release struct {
		universe string
	}
	doc struct {
		docTarget string
	}
}

var dcosdevFlags = flagsT{}

func addWorkdirFlag(cmd *cobra.Command) string {
	workdir := "workdir"
	cmd.PersistentFlags().StringVar(&dcosdevFlags.root.workdir, workdir, "", "The project directory. Defaults to the current directory")
	return workdir
}

func addLogLevel(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&dcosdevFlags.root.logLevel, loglevel, dlogger.LogLevelInfo, "The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return loglevel
}

func addMinioHostFlag(cmd *cobra.Command) string {
	c := "minio-host"
	cmd.Flags().StringVar(&dcosdevFlags.config.minioHost, c, "", "The object store host, as reachable from this machine")
	return c
}

func addInternalHostFlag(cmd *cobra.Command) string {
	c := "internal-host"
	cmd.Flags().StringVar(&dcosdevFlags.config.internalHost, c, "", "The object store host:port, as reachable from inside the cluster")
	return c
}

func addLocalStoreFlag(cmd *cobra.Command) string {
	c := "local-store"
	cmd.Flags().StringVar(&dcosdevFlags.up.localStore, c, "", "Publish to a local directory instead of the object store")
	return c
}

func addStrictFlag(cmd *cobra.Command) string {
	c := "strict"
	cmd.Flags().BoolVar(&dcosdevFlags.test.strict, c, false, "Run the tests against a cluster in strict security mode")
	return c
}

func addDCOSUsernameFlag(cmd *cobra.Command) string {
	c := "dcos-username"
	cmd.Flags().StringVar(&dcosdevFlags.test.username, c, "bootstrapuser", "The cluster login used by the tests")
	return c
}

func addDCOSPasswordFlag(cmd *cobra.Command) string {
	c := "dcos-password"
	cmd.Flags().StringVar(&dcosdevFlags.test.password, c, "deleteme", "The cluster password used by the tests")
	return c
}

func addUniverseFlag(cmd *cobra.Command) string {
	c := "universe"
	cmd.Flags().StringVar(&dcosdevFlags.release.universe, c, "", "A clone of the universe repository to add the release to")
	return c
}

func addTargetFlag(cmd *cobra.Command) string {
	c := "target-dir"
	cmd.Flags().StringVar(&dcosdevFlags.doc.docTarget, c, ".", "The target directory where to generate the markdown documentation")
	return c
}

/** combined config (file + env var) and parameters (pflags) */

// used to patch over the container runtime during test
var newRuntime = func(logger *zap.Logger) (container.Runtime, func() error, error) {
	d, err := container.NewDocker(logger)
	if err != nil {
		return nil, nil, err
	}
	return d, d.Close, nil
}

type cliOptionInputs struct {
	config *CLIConfig
	params *flagsT

	onceLogger sync.Once
	logger     *zap.Logger
	loggerErr  error
}

func newCliOptionInputs(config *CLIConfig, params *flagsT) *cliOptionInputs {
	return &cliOptionInputs{
		config: config,
		params: params,
	}
}

func (in *cliOptionInputs) fs() afero.Fs {
	return afero.NewOsFs()
}

func (in *cliOptionInputs) workdir() (string, error) {
	if in.params.root.workdir != "" {
		return filepath.Abs(in.params.root.workdir)
	}
	return os.Getwd()
}

func (in *cliOptionInputs) layout() (model.Layout, error) {
	dir, err := in.workdir()
	if err != nil {
		return model.Layout{}, fmt.Errorf("resolve project directory: %w", err)
	}
	return model.NewLayout(dir), nil
}

func (in *cliOptionInputs) project() (*model.Project, error) {
	layout, err := in.layout()
	if err != nil {
		return nil, err
	}
	return model.LoadProject(in.fs(), layout)
}

// hostPath is the project directory as the docker daemon sees it
func (in *cliOptionInputs) hostPath() (string, error) {
	if in.config.ProjectPath != "" {
		return in.config.ProjectPath, nil
	}
	return in.workdir()
}

func (in *cliOptionInputs) getLogger() (*zap.Logger, error) {
	in.onceLogger.Do(func() {
		in.logger, in.loggerErr = dlogger.GetLogger(in.params.root.logLevel)
	})
	if in.loggerErr != nil {
		return nil, fmt.Errorf("failed to set log level: %v", in.loggerErr)
	}
	return in.logger, nil
}

func (in *cliOptionInputs) requireMinioHost() error {
	if in.config.MinioHost == "" {
		return fmt.Errorf("set environment variable $MINIO_HOST or define minio_host in the config file")
	}
	return nil
}

// internalStore is where development snapshots go: minio, or a local directory
func (in *cliOptionInputs) internalStore() (storage.Store, error) {
	logger, err := in.getLogger()
	if err != nil {
		return nil, err
	}
	if dir := in.params.up.localStore; dir != "" {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create local store: %w", err)
		}
		return storage.Instrument(logger, localfs.New(afero.NewBasePathFs(afero.NewOsFs(), dir))), nil
	}
	if err = in.requireMinioHost(); err != nil {
		return nil, err
	}
	e := in.config.endpoints()
	store, err := sthree.New(
		sthree.Bucket(e.Bucket),
		sthree.AWSConfig(sthree.MinioConfig(e.MinioEndpoint(), in.config.MinioAccessKey, in.config.MinioSecretKey)),
	)
	if err != nil {
		return nil, err
	}
	return storage.Instrument(logger, store), nil
}

// releaseStore is the public bucket releases go to
func (in *cliOptionInputs) releaseStore(ctx context.Context, bucket string) (storage.Store, error) {
	logger, err := in.getLogger()
	if err != nil {
		return nil, err
	}
	region := in.config.AWSRegion
	if region == "" {
		region, err = sthree.BucketRegion(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("detect region of bucket %s: %w", bucket, err)
		}
		logger.Debug("detected bucket region", zap.String("bucket", bucket), zap.String("region", region))
	}
	store, err := sthree.New(sthree.Bucket(bucket), sthree.AWSConfig(aws.NewConfig().WithRegion(region)))
	if err != nil {
		return nil, err
	}
	return storage.Instrument(logger, store), nil
}
