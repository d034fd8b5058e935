package main

import (
	"fmt"

	"codeberg.org/mutker/ledmatrixctl/internal/device"
	"github.com/spf13/cobra"
)

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports on this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ports, err := device.ListPorts()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPorts(ports))

			return nil
		},
	}
}

func renderPorts(ports []device.PortInfo) string {
	if len(ports) == 0 {
		return mutedStyle.Render("No serial ports found")
	}

	rows := make([][]string, 0, len(ports))
	for _, p := range ports {
		id := ""
		if p.IsUSB {
			id = p.VID + ":" + p.PID
		}
		rows = append(rows, []string{p.Name, yesNo(p.IsUSB), id, p.Product, p.SerialNumber})
	}

	return renderTable([]string{"PORT", "USB", "VID:PID", "PRODUCT", "SERIAL"}, rows)
}
