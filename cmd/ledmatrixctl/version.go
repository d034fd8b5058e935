package main

import (
	"fmt"
	"runtime"

	"codeberg.org/mutker/ledmatrixctl/internal/device"
	"codeberg.org/mutker/ledmatrixctl/internal/frame"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var queryDevices bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ledmatrixctl %s\n", version)
			fmt.Fprintf(out, "commit: %s\n", commit)
			fmt.Fprintf(out, "go: %s\n", runtime.Version())

			if !queryDevices {
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts := device.PortOptions{BaudRate: cfg.Panels.BaudRate, ReadTimeout: cfg.Panels.ReadTimeout}
			ports := [2]string{cfg.Panels.LeftPort, cfg.Panels.RightPort}
			for _, side := range frame.Sides {
				fmt.Fprintf(out, "%s panel (%s): %s\n", side, ports[side], firmwareOf(ports[side], opts))
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&queryDevices, "device", false, "Also query the firmware version of both panels")

	return cmd
}

func firmwareOf(port string, opts device.PortOptions) string {
	link, err := device.Open(port, opts, logger.New("device"))
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	defer link.Close()

	v, err := device.QueryVersion(link)
	if err != nil {
		return errorStyle.Render(err.Error())
	}

	return successStyle.Render(v.String())
}
