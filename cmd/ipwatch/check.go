package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/ipwatch/internal/model"
	"github.com/user/ipwatch/internal/probe"
	"github.com/user/ipwatch/internal/render"
	"github.com/user/ipwatch/internal/timeline"
	"github.com/user/ipwatch/internal/util"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single probe and print the result",
	Long: `Run one probe cycle against the geolocation endpoint and print
the reading. A failed probe prints an error row and exits zero; failures
are data here, not errors.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	util.InitLogger(cfg.LogLevel, cfg.LogFile, true)

	client := probe.NewClient(cfg.Endpoint, cfg.ProbeTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ProbeTimeout)
	defer cancel()

	triggeredAt := time.Now()
	info, err := client.Lookup(ctx)
	completedAt := time.Now()

	outcome := model.Failed()
	if err != nil {
		util.Warn("Probe failed: %v", err)
	} else {
		outcome = model.Succeeded(info.IP, info.Latitude, info.Longitude)
	}

	rows := render.Rows([]timeline.Entry{
		timeline.ReadingEntry(model.NewReading(outcome, triggeredAt, completedAt)),
	})
	for _, row := range rows {
		fmt.Printf("%s  %s  %s\n", row.Time, row.Latency, row.Text)
	}

	return nil
}
