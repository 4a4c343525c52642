package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/yildizm/LeafScan/internal/clipboard"
	"github.com/yildizm/LeafScan/internal/config"
	"github.com/yildizm/LeafScan/internal/imaging"
	"github.com/yildizm/LeafScan/internal/logger"
	"github.com/yildizm/LeafScan/internal/monitor"
	"github.com/yildizm/LeafScan/internal/predict"
	"github.com/yildizm/LeafScan/internal/prefs"
	"github.com/yildizm/LeafScan/internal/report"
	"github.com/yildizm/LeafScan/internal/session"
)

// newLogger creates a component logger gated by the verbose flag
func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

// newPredictClient builds the HTTP client from the endpoint config
func newPredictClient(cfg *config.Config, log *logger.Logger) (*predict.Client, error) {
	return predict.New(&predict.Config{
		URL:       cfg.Endpoint.URL,
		FieldName: cfg.Endpoint.FieldName,
		Timeout:   cfg.Endpoint.Timeout,
	}, log.WithComponent("predict"))
}

// newPrefsStore opens the preference file named in the config
func newPrefsStore(cfg *config.Config) *prefs.FileStore {
	return prefs.NewFileStore(config.ExpandPath(cfg.Storage.PrefsPath))
}

// controllerDeps are the collaborators that differ between commands
type controllerDeps struct {
	predictor  session.Predictor
	clipboard  io.Writer
	celebrator session.Celebrator
	tracker    *monitor.Tracker // optional, times report saves
}

// newController wires a session controller from the config
func newController(cfg *config.Config, log *logger.Logger, deps controllerDeps) (*session.Controller, error) {
	saver, err := report.NewSaver(cfg.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to configure report sink: %w", err)
	}

	clipOut := deps.clipboard
	if clipOut == nil {
		clipOut = os.Stderr
	}

	opts := session.OptionsFromConfig(cfg)
	opts.Predictor = deps.predictor
	previewer, err := imaging.NewCachedThumbnailer(cfg.UI.PreviewSize, imaging.DefaultCacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create preview cache: %w", err)
	}
	opts.Previewer = previewer
	opts.Cropper = imaging.NewCropper(cfg.UI.PreviewSize * 2)
	opts.Celebrator = deps.celebrator
	opts.Clipboard = clipboard.New(clipOut)
	opts.Saver = monitor.Saver(deps.tracker, saver)
	opts.Prefs = newPrefsStore(cfg)
	opts.Logger = log

	return session.New(opts), nil
}

// trackedPredictor builds the endpoint predictor timed by tracker
func trackedPredictor(client *predict.Client, tracker *monitor.Tracker) session.Predictor {
	return monitor.Predictor(tracker, session.ClientPredictor{Client: client})
}

// logMetrics writes one Info line per tracked operation
func logMetrics(log *logger.Logger, tracker *monitor.Tracker) {
	for _, m := range tracker.Snapshot() {
		log.InfoWithFields("Operation metrics", []logger.Field{
			logger.F("operation", string(m.Operation)),
			logger.F("ok", m.SuccessCount),
			logger.F("failed", m.ErrorCount),
			logger.F("avg", m.AvgTime().String()),
			logger.F("max", m.MaxTime.String()),
		})
	}
}
