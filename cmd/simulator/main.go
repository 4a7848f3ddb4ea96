package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"techsocial/simulator"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	config := simulator.SimConfig{
		NumReaders:     8,
		NumPosts:       120,
		PageSize:       10,
		OverlapPages:   true,
		Duration:       30 * time.Second,
		RefreshPercent: 0.15,
		LikePercent:    0.25,
		TickInterval:   50 * time.Millisecond,
	}

	slog.Info("starting simulation",
		"readers", config.NumReaders,
		"posts", config.NumPosts,
		"pageSize", config.PageSize,
		"overlap", config.OverlapPages,
		"duration", config.Duration,
	)

	sim := simulator.NewSimulator(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.Duration+time.Minute)
	defer cancel()

	if err := sim.Run(ctx); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	stats := sim.GetStats()
	slog.Info("simulation completed",
		"elapsed", stats.Elapsed,
		"pageLoads", stats.PageLoads,
		"refreshes", stats.Refreshes,
		"likes", stats.Likes,
		"skipped", stats.SkippedOps,
		"failed", stats.FailedOps,
	)
	if stats.DuplicateViolations > 0 || stats.OrderViolations > 0 {
		slog.Error("invariant violations observed",
			"duplicates", stats.DuplicateViolations,
			"misorders", stats.OrderViolations,
		)
		os.Exit(1)
	}
}
