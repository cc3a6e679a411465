package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rileylov/designlab/internal/config"
	"github.com/rileylov/designlab/internal/feedback"
	"github.com/rileylov/designlab/internal/slide"
	"github.com/rileylov/designlab/internal/ui"
)

// parseFlags returns the config path and the overrides for flags that were
// set explicitly.
func parseFlags() (string, config.Overrides) {
	var (
		configPath    = flag.String("config", "", "Path to a YAML config file")
		trackWidth    = flag.Float64("track-width", 0, "Slide track width in points")
		handleWidth   = flag.Float64("handle-width", 0, "Slide handle width in points")
		completeRatio = flag.Float64("complete-ratio", 0, "Fraction of travel that commits the slide (0,1]")
		trackCells    = flag.Int("track-cells", 0, "Terminal columns the track is drawn across")
		fps           = flag.Int("fps", 0, "Animation frame rate")
		haptics       = flag.String("haptics", "", "Threshold pulse: flash|bell|off")
		listen        = flag.String("listen", "", "Address for the feedback WebSocket (e.g. 127.0.0.1:8080)")
		logLevel      = flag.String("log-level", "", "Log level: debug|info|warn|error")
		logFile       = flag.String("log-file", "", "Write logs to this file")
	)
	flag.Parse()

	var o config.Overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "track-width":
			o.TrackWidth = trackWidth
		case "handle-width":
			o.HandleWidth = handleWidth
		case "complete-ratio":
			o.CompleteRatio = completeRatio
		case "track-cells":
			o.TrackCells = trackCells
		case "fps":
			o.FPS = fps
		case "haptics":
			o.Haptics = haptics
		case "listen":
			o.Listen = listen
		case "log-level":
			o.LogLevel = logLevel
		case "log-file":
			o.LogFile = logFile
		}
	})
	return *configPath, o
}

func loadConfig(path string, o config.Overrides) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	o.Apply(&cfg)
	return cfg, cfg.Validate()
}

func main() {
	path, overrides := parseFlags()

	cfg, err := loadConfig(path, overrides)
	if err != nil {
		if errors.Is(err, slide.ErrInvalidConfiguration) {
			fmt.Fprintln(os.Stderr, "Invalid slide geometry:", err)
		} else {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
		}
		os.Exit(2)
	}

	logger, closer, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening log:", err)
		os.Exit(1)
	}
	defer closer.Close()

	zone.NewGlobal()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := ui.OptionsFromConfig(cfg, logger)
	opts.Bell = os.Stderr
	opts.Clipboard = clipboard.WriteAll
	if clipboard.Unsupported {
		opts.Clipboard = nil
	}

	if cfg.Feedback.Listen != "" {
		srv := feedback.NewServer(logger, feedback.HubConfig{})
		opts.Sink = srv.Sink()
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Feedback.Listen, cfg.Feedback.Path, nil); err != nil {
				logger.Error("feedback server stopped", "error", err)
			}
		}()
	}

	logger.Info("starting", "haptics", string(cfg.Haptics.Mode), "track_cells", cfg.Slide.TrackCells)

	p := tea.NewProgram(ui.New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Println("Error running program:", err)
		cancel()
		closer.Close()
		os.Exit(1)
	}
}
