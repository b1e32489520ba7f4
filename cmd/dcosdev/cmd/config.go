package cmd

import (
	"github.com/portworx/dcosdev/pkg/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	MinioHost      string `json:"minio_host" yaml:"minio_host" mapstructure:"minio_host"`                // Object store host, as seen from this machine
	MinioPort      int    `json:"minio_port" yaml:"minio_port" mapstructure:"minio_port"`                // Object store port
	MinioAccessKey string `json:"minio_access_key" yaml:"minio_access_key" mapstructure:"minio_access_key"`
	MinioSecretKey string `json:"minio_secret_key" yaml:"minio_secret_key" mapstructure:"minio_secret_key"`
	MinioBucket    string `json:"minio_bucket" yaml:"minio_bucket" mapstructure:"minio_bucket"`          // Bucket for development snapshots
	InternalHost   string `json:"internal_host" yaml:"internal_host" mapstructure:"internal_host"`       // Object store host:port, as seen from the cluster
	ProjectPath    string `json:"project_path" yaml:"project_path" mapstructure:"project_path"`          // Project directory as seen by the docker daemon
	AWSRegion      string `json:"aws_region" yaml:"aws_region" mapstructure:"aws_region"`                // Region of release buckets, detected when empty
	ChecksumURL    string `json:"checksum_url" yaml:"checksum_url" mapstructure:"checksum_url"`          // Base URL of SDK artifacts
	BuildImage     string `json:"build_image" yaml:"build_image" mapstructure:"build_image"`             // Gradle image
	TestImage      string `json:"test_image" yaml:"test_image" mapstructure:"test_image"`                // Test harness image repository
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// endpoints where development snapshots are published
func (c *CLIConfig) endpoints() model.Endpoints {
	e := model.DefaultEndpoints(c.MinioHost)
	if c.MinioPort != 0 {
		e.MinioPort = c.MinioPort
	}
	if c.MinioBucket != "" {
		e.Bucket = c.MinioBucket
	}
	if c.InternalHost != "" {
		e.InternalHost = c.InternalHost
	}
	return e
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage a config",
	Long: `Commands to manage dcosdev CLI config.

Configuration for dcosdev is the set of object store and image settings that do not change across runs.
Every setting may also be given as an environment variable, e.g. MINIO_HOST or PROJECT_PATH.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
