package cmd

import (
	"log"
	"os"

	"github.com/portworx/dcosdev/pkg/model"
	"github.com/portworx/dcosdev/pkg/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dcosdev",
	Short: "dcosdev scaffolds, builds, tests and releases DC/OS packages",
	Long: `dcosdev is a development tool for DC/OS packages.

It creates SDK operator or plain marathon packages, builds their java sub-projects in containers,
publishes development snapshots to an in-cluster object store, runs the integration test suite against
a cluster and finally releases versioned packages to a public S3 bucket.

Every command works on the project in the current directory (or --workdir).
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		wrapFatalWithCodef(1, "%v", err)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addWorkdirFlag(rootCmd)
	addLogLevel(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("minio_host", "")
	viper.SetDefault("minio_port", model.DefaultMinioPort)
	viper.SetDefault("minio_access_key", "minio")
	viper.SetDefault("minio_secret_key", "minio123")
	viper.SetDefault("minio_bucket", model.DefaultArtifactsBucket)
	viper.SetDefault("internal_host", model.DefaultInternalHost)
	viper.SetDefault("project_path", "")
	viper.SetDefault("aws_region", "")
	viper.SetDefault("checksum_url", model.DefaultChecksumURL)
	viper.SetDefault("build_image", runner.DefaultBuildImage)
	viper.SetDefault("test_image", runner.DefaultTestImage)

	if os.Getenv("DCOSDEV_CONFIG") != "" {
		// Use config file from the env.
		viper.SetConfigFile(os.Getenv("DCOSDEV_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.dcosdev")
		viper.AddConfigPath("/etc/dcosdev")
		viper.SetConfigName("dcosdev")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("invalid configuration", err)
	}
}
