package main

import (
	"fmt"
	"time"

	"codeberg.org/mutker/ledmatrixctl/internal/inventory"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
	"github.com/spf13/cobra"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "Show the panels recorded in the inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Inventory {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Inventory is disabled; enable it with --inventory or inventory = true"))
				return nil
			}

			registry, err := inventory.NewService(inventory.Config{DBPath: cfg.InventoryDB, Enabled: true}, logger.New(""))
			if err != nil {
				return err
			}
			defer registry.Close()

			panels, err := registry.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPanels(panels))

			return nil
		},
	}
}

func renderPanels(panels []inventory.Panel) string {
	if len(panels) == 0 {
		return mutedStyle.Render("No panels recorded yet")
	}

	rows := make([][]string, 0, len(panels))
	for _, p := range panels {
		firmware := p.Firmware
		if firmware == "" {
			firmware = mutedStyle.Render("unknown")
		}
		rows = append(rows, []string{p.Side, p.Port, firmware, yesNo(p.Connected), p.SeenAt.Format(time.RFC3339)})
	}

	return renderTable([]string{"SIDE", "PORT", "FIRMWARE", "CONNECTED", "LAST SEEN"}, rows)
}
