package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/app"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/tui"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/logger"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	diagnose := flag.Bool("diagnose", false, "load the dictionary, print component health and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := logger.SetupFile(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting idiomdex",
		"dataset", cfg.Dataset.BaseURL,
		"partitions", cfg.Dataset.PartitionCount,
		"strategy", cfg.Search.Strategy,
		"pager", cfg.Pager.Mode,
	)
	a, err := app.New(ctx, cfg, app.WithMarkers(tui.Markers))
	if err != nil {
		slog.Error("failed to build application", "error", err)
		fmt.Fprintf(os.Stderr, "idiomdex: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	if *diagnose {
		load := a.Load(ctx)
		fmt.Printf("entries=%d loaded=%d failed=%d exam_items=%d\n",
			a.Dataset.Len(), load.Report.Loaded(), load.Report.Failed(), len(load.Exams))
		fmt.Println(a.Diagnostics(ctx))
		return
	}

	model := tui.New(ctx, a)
	defer model.Close()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		slog.Error("terminal client exited", "error", err)
		fmt.Fprintf(os.Stderr, "idiomdex: %v\n", err)
		os.Exit(1)
	}
	slog.Info("idiomdex stopped")
}
