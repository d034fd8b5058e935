package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/ledmatrixctl/internal/config"
	"codeberg.org/mutker/ledmatrixctl/internal/device"
	"codeberg.org/mutker/ledmatrixctl/internal/frame"
	"codeberg.org/mutker/ledmatrixctl/internal/inventory"
	"codeberg.org/mutker/ledmatrixctl/internal/logger"
	"codeberg.org/mutker/ledmatrixctl/internal/panel"
	"codeberg.org/mutker/ledmatrixctl/internal/pid"
	"codeberg.org/mutker/ledmatrixctl/internal/profile"
	"codeberg.org/mutker/ledmatrixctl/internal/stats"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the panel daemon (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd)
		},
	}
}

func runDaemon(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := pid.Write(); err != nil {
		logger.Error().Err(err).Msg("Failed to write PID file")
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCoreLayout()

	log := logger.New("")
	links, err := openLinks(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, l := range links {
			if err := l.Close(); err != nil {
				logger.Warn().Err(err).Str("port", l.Name()).Msg("Failed to close panel")
			}
		}
	}()

	registry, err := inventory.NewService(inventory.Config{DBPath: cfg.InventoryDB, Enabled: cfg.Inventory}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := registry.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close inventory")
		}
	}()
	recordPanels(ctx, registry, cfg, links)

	state := profile.NewState(profile.Default)
	monitor := profile.NewMonitor(profile.NewFileSelector(cfg.ProfileFile), state, cfg.Schedule.PollInterval, log)
	monitor.Poll()
	logger.Info().
		Str("profile", state.Get().String()).
		Str("selector", cfg.ProfileFile).
		Msg("Initial profile")

	brightness := uint8(cfg.Panels.Brightness)
	dispatcher, err := panel.New(state, panel.Config{
		Left:       links[frame.Left],
		Right:      links[frame.Right],
		Sources:    buildSources(cfg),
		Brightness: &brightness,
	}, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return monitor.Run(gctx) })
	g.Go(func() error { return dispatcher.Run(gctx) })

	err = g.Wait()
	if ctx.Err() != nil {
		logger.Info().Msg("Received termination signal.")
	}
	logger.Info().Msg("Exiting...")

	return err
}

func openLinks(cfg *config.Config, log logger.Logger) ([2]device.Link, error) {
	var links [2]device.Link
	opts := device.PortOptions{
		BaudRate:    cfg.Panels.BaudRate,
		ReadTimeout: cfg.Panels.ReadTimeout,
		Handshake:   cfg.Panels.Handshake,
	}

	ports := map[frame.Side]string{
		frame.Left:  cfg.Panels.LeftPort,
		frame.Right: cfg.Panels.RightPort,
	}
	for _, side := range frame.Sides {
		l, err := device.OpenLink(ports[side], opts, cfg.Panels.AllowMissingDevice, log.With(side.String()))
		if err != nil {
			for _, opened := range links {
				if opened != nil {
					opened.Close()
				}
			}
			logger.Error().Err(err).Stringer("side", side).Msg("Failed to open panel")
			return links, err
		}
		links[side] = l
	}

	return links, nil
}

func buildSources(cfg *config.Config) []frame.Source {
	reader := stats.NewReader(stats.Paths{
		ProcStat:          cfg.Sources.ProcStat,
		ProcMeminfo:       cfg.Sources.ProcMeminfo,
		BatteryUevent:     cfg.Sources.BatteryUevent,
		ProcNetWireless:   cfg.Sources.ProcNetWireless,
		WirelessInterface: cfg.Sources.WirelessInterface,
	})
	timing := frame.Timing{
		Period:    cfg.Schedule.DisplayInterval,
		LeftDelay: cfg.Schedule.LeftDelay,
	}

	return []frame.Source{
		frame.NewCPU(stats.NewCPUSampler(reader.CPU), timing, cfg.Schedule.SampleInterval),
		frame.NewRAM(reader, timing),
		frame.NewWifiBattery(reader, timing),
		frame.NewShimmer(cfg.Schedule.ShimmerFPS, cfg.Schedule.ColumnDelay),
		frame.NewNoise(timing, nil),
	}
}

func recordPanels(ctx context.Context, registry inventory.Registry, cfg *config.Config, links [2]device.Link) {
	if !registry.Enabled() {
		return
	}

	ports := [2]string{cfg.Panels.LeftPort, cfg.Panels.RightPort}
	for _, side := range frame.Sides {
		_, noop := links[side].(*device.NoopLink)
		p := &inventory.Panel{
			Port:      ports[side],
			Side:      side.String(),
			Connected: !noop,
		}
		if fw, ok := links[side].Firmware(); ok {
			p.Firmware = fw.String()
		}
		if err := registry.Record(ctx, p); err != nil {
			logger.Warn().Err(err).Str("port", p.Port).Msg("Failed to record panel")
		}
	}
}

// logCoreLayout reports how many cores the CPU profile can show.
func logCoreLayout() {
	n, err := cpu.Counts(true)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to count CPU cores")
		return
	}

	logger.Info().Int("logical_cores", n).Msg("CPU topology")
	if n <= frame.CoresPerPanel {
		logger.Warn().
			Int("logical_cores", n).
			Msgf("Right panel shows cpu%d-%d, which this host does not have", frame.CoresPerPanel, 2*frame.CoresPerPanel-1)
	}
}
