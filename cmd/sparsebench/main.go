package main

import (
	"os"
	"strings"

	"github.com/notargets/SparseKernel/harness"
	"github.com/notargets/SparseKernel/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("sparsebench failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "sparsebench",
		Short:         "Conformance and timing harness for the sparse device library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			viper.SetEnvPrefix("SPARSEBENCH")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()
			if configFile != "" {
				viper.SetConfigFile(configFile)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			level, err := logrus.ParseLevel(viper.GetString("v"))
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Optional config file with flag defaults")
	cmd.PersistentFlags().String("v", "info", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().String("device", "", "OCCA device properties, e.g. {\"mode\": \"Serial\"}")

	cmd.AddCommand(
		newRunCommand(),
		newBadArgCommand(),
		newSuiteCommand(),
	)
	return cmd
}

// newEnv opens the requested device and wires the harness to stdout
func newEnv() (*harness.Env, func(), error) {
	device, err := utils.CreateDevice(viper.GetString("device"))
	if err != nil {
		return nil, nil, err
	}
	env := harness.NewEnv(device)
	env.Log = logrus.WithField("mode", device.Mode())
	return env, device.Free, nil
}
