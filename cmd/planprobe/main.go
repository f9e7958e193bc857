package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/planprobe"
	"github.com/scottkoons/the-social-studio-sub000/pkg/logger"
)

const probeBudget = 2 * time.Minute

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		items     = flag.Int("items", planprobe.DefaultItems, "Number of items to schedule")
		rangeDays = flag.Int("days", planprobe.DefaultRangeDays, "Length of the date range in days")
		platform  = flag.String("platform", "", "Platform window table (instagram, facebook, tiktok)")
		timeout   = flag.Duration("timeout", planprobe.DefaultTimeout, "HTTP request timeout")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeBudget)
	defer cancel()

	cfg := planprobe.Config{
		BaseURL:   *baseURL,
		Items:     *items,
		RangeDays: *rangeDays,
		Platform:  *platform,
		Timeout:   *timeout,
		Verbose:   *verbose,
	}

	if err := planprobe.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "probe failed", logger.Error(err))
		os.Exit(1)
	}
}
