package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yildizm/LeafScan/internal/config"
	"github.com/yildizm/LeafScan/internal/filewatch"
	"github.com/yildizm/LeafScan/internal/logger"
	"github.com/yildizm/LeafScan/internal/monitor"
	"github.com/yildizm/LeafScan/internal/ui"
)

func newAppCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "app [image]",
		Short: "Open the interactive interface",
		Long: `Open the interactive interface. An image path may be given to select it
right away. Press ? inside the app for key bindings.

The selected image is watched on disk: saving it again re-selects it and
deleting it clears the selection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var initial string
			if len(args) == 1 {
				initial = args[0]
			}
			return runApp(initial)
		},
	}
}

func runApp(initialPath string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	log := newLogger("cli")
	logFile, err := redirectLogs(log, cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer func() { _ = logFile.Close() }()
	}

	client, err := newPredictClient(cfg, log)
	if err != nil {
		return err
	}
	tracker := monitor.New()
	defer logMetrics(log, tracker)
	predictor := trackedPredictor(client, tracker)

	ctrl, err := newController(cfg, log, controllerDeps{predictor: predictor, tracker: tracker})
	if err != nil {
		return err
	}

	watcher, err := filewatch.New()
	if err != nil {
		log.WarnWithFields("File watching disabled", []logger.Field{logger.Error(err)})
		watcher = nil
	}
	if watcher != nil {
		defer func() { _ = watcher.Close() }()
	}

	return ui.Run(ui.Options{
		Controller:     ctrl,
		Predictor:      predictor,
		Watcher:        watcher,
		Tracker:        tracker,
		Logger:         log,
		InitialPath:    initialPath,
		NoColor:        !isColorEnabled(),
		RequestTimeout: cfg.Endpoint.Timeout,
	})
}

// redirectLogs keeps log lines off the TUI screen: they go to the log file
// when verbose and nowhere otherwise.
func redirectLogs(log *logger.Logger, cfg *config.Config) (io.Closer, error) {
	if !isVerbose() || cfg.Output.LogFile == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}

	path := config.ExpandPath(cfg.Output.LogFile)
	// #nosec G304 - path comes from the user's own configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	log.SetOutput(f)
	return f, nil
}
