package main

import (
	"codeberg.org/mutker/ledmatrixctl/internal/config"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ledmatrixctl",
		Short:        "Show system stats and animations on the LED matrix panels",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCmd(),
		newProfileCmd(),
		newPortsCmd(),
		newDevicesCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads the configuration for cmd and initializes logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		return nil, err
	}
	logger.Debug().Msg("Config loaded")

	return cfg, nil
}
