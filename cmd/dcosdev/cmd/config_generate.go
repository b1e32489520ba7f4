package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var configGen = &cobra.Command{
	Use:   "create",
	Short: "Create a config",
	Long: `Create a config to use for dcosdev. Config file will be placed in $HOME/.dcosdev/dcosdev.yaml

The file records the current settings (defaults, environment and config file), with the flags of this command on top.`,
	Run: func(cmd *cobra.Command, args []string) {
		home, err := os.UserHomeDir()
		if err != nil {
			wrapFatalln("could not get home directory for user", err)
			return
		}
		c := *config
		if dcosdevFlags.config.minioHost != "" {
			c.MinioHost = dcosdevFlags.config.minioHost
		}
		if dcosdevFlags.config.internalHost != "" {
			c.InternalHost = dcosdevFlags.config.internalHost
		}
		o, err := yaml.Marshal(c)
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		dir := filepath.Join(home, ".dcosdev")
		_ = os.Mkdir(dir, 0777)
		target := filepath.Join(dir, "dcosdev.yaml")
		err = ioutil.WriteFile(target, o, 0666)
		if err != nil {
			wrapFatalln("write config file", err)
			return
		}
		infoLogger.Printf("config written to %s", target)
	},
}

func init() {
	addMinioHostFlag(configGen)
	addInternalHostFlag(configGen)

	configCmd.AddCommand(configGen)
}
