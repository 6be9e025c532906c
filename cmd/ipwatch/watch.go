package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/user/ipwatch/internal/tui"
	"github.com/user/ipwatch/internal/util"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Launch the interactive timeline monitor",
	Long: `Launch the interactive terminal monitor. ipwatch probes the
geolocation service on a fixed interval and shows a compressed timeline:

- identical consecutive readings collapse into one line with a counter
- cycles that overran the interval show as gap markers
- pausing leaves a divider in the log

Keys: 't' probes immediately, 'p' toggles pause, 'q' quits.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0,
		"polling interval (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal; log to file only.
	util.InitLogger(cfg.LogLevel, cfg.LogFile, false)

	if watchInterval > 0 {
		cfg.PollInterval = watchInterval
	}

	util.Info("Starting monitor: endpoint=%s interval=%s", cfg.Endpoint, cfg.PollInterval)

	app := tui.NewApp(cfg)
	return app.Run()
}
