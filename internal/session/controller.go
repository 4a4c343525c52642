// Package session owns the upload, predict and display lifecycle. The
// Controller is not safe for concurrent use; front ends serialize calls.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/yildizm/LeafScan/internal/config"
	"github.com/yildizm/LeafScan/internal/imaging"
	"github.com/yildizm/LeafScan/internal/logger"
	"github.com/yildizm/LeafScan/internal/predict"
	"github.com/yildizm/LeafScan/internal/prefs"
	"github.com/yildizm/LeafScan/internal/report"
	"github.com/yildizm/LeafScan/internal/theme"
	"github.com/yildizm/LeafScan/internal/tips"
)

// Defaults used when Options leaves a value unset
const (
	DefaultMaxFileSize         = 5 * 1024 * 1024
	DefaultCelebrationDuration = 5 * time.Second
	DefaultNoticeDuration      = 3 * time.Second
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now calls f
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock
var SystemClock Clock = ClockFunc(time.Now)

// Predictor sends a file to the prediction endpoint
type Predictor interface {
	Predict(ctx context.Context, f *File) (*predict.Result, error)
}

// PredictorFunc adapts a function to Predictor
type PredictorFunc func(ctx context.Context, f *File) (*predict.Result, error)

// Predict calls fn
func (fn PredictorFunc) Predict(ctx context.Context, f *File) (*predict.Result, error) {
	return fn(ctx, f)
}

// ClientPredictor submits files through the HTTP client
type ClientPredictor struct {
	Client *predict.Client
}

// Predict uploads f's original bytes
func (p ClientPredictor) Predict(ctx context.Context, f *File) (*predict.Result, error) {
	return p.Client.Predict(ctx, f.Name, f.Type, f.Data)
}

// Previewer builds a local preview reference for image bytes
type Previewer interface {
	Preview(data []byte) (string, error)
}

// Cropper renders a snapshot of a region of an image
type Cropper interface {
	Snapshot(data []byte, region imaging.Region) (string, error)
}

// Celebrator plays the success animation for a duration
type Celebrator interface {
	Celebrate(d time.Duration)
}

// CelebratorFunc adapts a function to Celebrator
type CelebratorFunc func(d time.Duration)

// Celebrate calls f
func (f CelebratorFunc) Celebrate(d time.Duration) { f(d) }

// Clipboard receives share summaries
type Clipboard interface {
	Copy(text string) error
}

// Options wires a Controller. Zero values fall back to defaults.
type Options struct {
	Predictor  Predictor
	Previewer  Previewer
	Cropper    Cropper
	Celebrator Celebrator
	Clipboard  Clipboard
	Saver      report.Saver
	Prefs      prefs.Store
	Clock      Clock
	Intn       func(n int) int
	Logger     *logger.Logger
	Listeners  []theme.Listener

	MaxFileSize         int64
	ProgressStep        int
	ProgressInterval    time.Duration
	CelebrationDuration time.Duration
	NoticeDuration      time.Duration
}

// OptionsFromConfig copies the limits and timings out of cfg
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxFileSize:         cfg.Upload.MaxFileSize,
		ProgressStep:        cfg.Upload.ProgressStep,
		ProgressInterval:    cfg.Upload.ProgressInterval,
		CelebrationDuration: cfg.UI.CelebrationDuration,
		NoticeDuration:      cfg.UI.NoticeDuration,
	}
}

// Controller holds all interaction state for one session
type Controller struct {
	opts Options
	log  *logger.Logger

	upload      Upload
	uploadCount int
	selectedAt  time.Time

	prediction *predict.Result
	history    []predict.Result
	loading    bool
	errMsg     string

	celebrateUntil time.Time
	notice         notice

	dark       bool
	tip        string
	generation uint64
}

// New creates a controller, loads the dark mode preference, publishes the
// active palette and picks the first tip.
func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Intn == nil {
		opts.Intn = rand.IntN
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Cropper == nil {
		opts.Cropper = imaging.NewCropper(0)
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.NewMemoryStore()
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.ProgressStep <= 0 {
		opts.ProgressStep = DefaultProgressStep
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	if opts.CelebrationDuration <= 0 {
		opts.CelebrationDuration = DefaultCelebrationDuration
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = DefaultNoticeDuration
	}

	c := &Controller{
		opts: opts,
		log:  opts.Logger.WithComponent("session"),
	}

	dark, err := prefs.LoadDarkMode(opts.Prefs)
	if err != nil {
		c.log.WarnWithFields("Failed to load theme preference", []logger.Field{logger.Error(err)})
	}
	c.dark = dark
	c.publish(theme.For(c.dark))

	c.tip = tips.Pick(opts.Intn)
	return c
}

// SelectFile replaces the current selection with f. Files over the size
// limit are rejected and the previous selection is dropped.
func (c *Controller) SelectFile(f *File) error {
	if f == nil {
		return newValidationError("file", MsgNoFile)
	}

	size := max(f.Size, int64(len(f.Data)))

	c.generation++
	c.loading = false
	c.clearSelection()

	if size > c.opts.MaxFileSize {
		c.errMsg = sizeLimitMessage(c.opts.MaxFileSize)
		c.log.InfoWithFields("File rejected", []logger.Field{
			logger.F("name", f.Name),
			logger.F("size", size),
			logger.F("limit", c.opts.MaxFileSize),
		})
		return newValidationError("file", c.errMsg)
	}

	file := *f
	file.Size = size

	c.upload = Upload{File: &file, Preview: c.preview(&file)}
	c.uploadCount++
	c.selectedAt = c.opts.Clock.Now()

	c.log.InfoWithFields("File selected", []logger.Field{
		logger.F("name", file.Name),
		logger.F("size", file.Size),
		logger.F("type", file.Type),
	})
	return nil
}

// OpenFile reads path and selects it. Oversized files are rejected from
// their stat size without being read.
func (c *Controller) OpenFile(path string) error {
	clean := filepath.Clean(config.ExpandPath(path))

	info, err := os.Stat(clean)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", clean)
	}

	f := &File{Name: filepath.Base(clean), Path: clean, Size: info.Size()}
	if f.Size > c.opts.MaxFileSize {
		return c.SelectFile(f)
	}

	// #nosec G304 - path comes from the user's own selection
	data, err := os.ReadFile(clean)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	f.Data = data
	f.Size = int64(len(data))
	f.Type = http.DetectContentType(data)

	return c.SelectFile(f)
}

func (c *Controller) preview(f *File) string {
	if c.opts.Previewer != nil {
		preview, err := c.opts.Previewer.Preview(f.Data)
		if err == nil {
			return preview
		}
		c.log.DebugWithFields("Preview unavailable", []logger.Field{logger.F("name", f.Name), logger.Error(err)})
	}

	ref := f.Path
	if ref == "" {
		ref = f.Name
	}
	if abs, err := filepath.Abs(ref); err == nil {
		ref = abs
	}
	return "file://" + filepath.ToSlash(ref)
}

// Progress returns the simulated upload percentage for the current selection
func (c *Controller) Progress() int {
	if c.upload.File == nil {
		return 0
	}
	elapsed := c.opts.Clock.Now().Sub(c.selectedAt)
	return SimulatedProgress(elapsed, c.opts.ProgressStep, c.opts.ProgressInterval)
}

// ProgressInterval is the tick period of the simulated progress bar
func (c *Controller) ProgressInterval() time.Duration {
	return c.opts.ProgressInterval
}

// Crop stores a snapshot of region for display. The submitted file is
// never altered.
func (c *Controller) Crop(region imaging.Region) error {
	if c.upload.File == nil {
		return newValidationError("file", MsgNoFile)
	}

	snapshot, err := c.opts.Cropper.Snapshot(c.upload.File.Data, region)
	if err != nil {
		return fmt.Errorf("failed to crop image: %w", err)
	}
	c.upload.Cropped = snapshot

	c.log.DebugWithFields("Crop updated", []logger.Field{logger.F("region", region.String())})
	return nil
}

// BeginSubmit checks that a file is selected and enters the loading state.
// It returns the file to send.
func (c *Controller) BeginSubmit() (*File, error) {
	if c.upload.File == nil {
		c.prediction = nil
		c.errMsg = MsgNoFile
		return nil, newValidationError("file", MsgNoFile)
	}

	c.loading = true
	c.errMsg = ""
	c.prediction = nil
	c.celebrateUntil = time.Time{}

	file := *c.upload.File
	return &file, nil
}

// CompleteSubmit records the outcome of a prediction and leaves the
// loading state.
func (c *Controller) CompleteSubmit(res *predict.Result, err error) error {
	defer func() { c.loading = false }()

	if err == nil && res == nil {
		err = errors.New("empty prediction")
	}
	if err != nil {
		c.prediction = nil
		c.errMsg = MsgPredictionFailed

		fields := []logger.Field{logger.Error(err)}
		var te *predict.TransportError
		if errors.As(err, &te) {
			fields = append(fields, logger.F("type", te.Type))
			if te.StatusCode > 0 {
				fields = append(fields, logger.F("status", te.StatusCode))
			}
		}
		c.log.WarnWithFields("Prediction failed", fields)
		return err
	}

	result := *res
	c.prediction = &result
	c.history = append(c.history, result)
	c.errMsg = ""

	c.celebrateUntil = c.opts.Clock.Now().Add(c.opts.CelebrationDuration)
	if c.opts.Celebrator != nil {
		c.opts.Celebrator.Celebrate(c.opts.CelebrationDuration)
	}

	c.log.InfoWithFields("Prediction received", []logger.Field{
		logger.F("disease", result.PredictedDisease),
		logger.F("confidence", result.ConfidencePercent()),
	})
	return nil
}

// Submit sends the selected file and records the result
func (c *Controller) Submit(ctx context.Context) error {
	file, err := c.BeginSubmit()
	if err != nil {
		return err
	}

	if c.opts.Predictor == nil {
		return c.CompleteSubmit(nil, errors.New("no predictor configured"))
	}
	res, err := c.opts.Predictor.Predict(ctx, file)
	return c.CompleteSubmit(res, err)
}

// RemoveImage clears the selection and its results. History and the
// upload count are kept.
func (c *Controller) RemoveImage() {
	c.generation++
	c.loading = false
	c.clearSelection()
}

// Reset clears everything RemoveImage does plus history and the upload count
func (c *Controller) Reset() {
	c.RemoveImage()
	c.history = nil
	c.uploadCount = 0
}

func (c *Controller) clearSelection() {
	c.upload = Upload{}
	c.selectedAt = time.Time{}
	c.prediction = nil
	c.errMsg = ""
	c.celebrateUntil = time.Time{}
	c.notice = notice{}
}

// ToggleTheme flips dark mode, persists it and republishes the palette.
// The palette is applied even when saving the preference fails.
func (c *Controller) ToggleTheme() (theme.Palette, error) {
	c.dark = !c.dark
	palette := theme.For(c.dark)
	c.publish(palette)

	if err := prefs.SaveDarkMode(c.opts.Prefs, c.dark); err != nil {
		return palette, fmt.Errorf("failed to save theme preference: %w", err)
	}
	return palette, nil
}

// Subscribe registers l and sends it the active palette right away
func (c *Controller) Subscribe(l theme.Listener) {
	if l == nil {
		return
	}
	c.opts.Listeners = append(c.opts.Listeners, l)
	l(theme.For(c.dark).Variables())
}

func (c *Controller) publish(p theme.Palette) {
	for _, l := range c.opts.Listeners {
		if l != nil {
			l(p.Variables())
		}
	}
}

// DarkMode reports whether the dark palette is active
func (c *Controller) DarkMode() bool {
	return c.dark
}

// Palette returns the active palette
func (c *Controller) Palette() theme.Palette {
	return theme.For(c.dark)
}

// NewTip picks another tip
func (c *Controller) NewTip() string {
	c.tip = tips.Pick(c.opts.Intn)
	return c.tip
}

// Tip returns the current tip
func (c *Controller) Tip() string {
	return c.tip
}

// Feedback acknowledges a rating of the current prediction. Nothing is stored.
func (c *Controller) Feedback(helpful bool) (string, error) {
	if c.prediction == nil {
		return "", newValidationError("prediction", MsgNoPrediction)
	}

	text := "Thanks for your feedback!"
	if !helpful {
		text = "Thanks, we'll use this to improve our predictions."
	}
	c.setNotice(text)

	c.log.DebugWithFields("Feedback received", []logger.Field{logger.F("helpful", helpful)})
	return text, nil
}

// Share copies the prediction summary to the clipboard and returns it
func (c *Controller) Share() (string, error) {
	if c.prediction == nil {
		return "", newValidationError("prediction", MsgNoPrediction)
	}
	if c.opts.Clipboard == nil {
		return "", errors.New("clipboard is not available")
	}

	summary := report.ShareSummary(*c.prediction)
	if err := c.opts.Clipboard.Copy(summary); err != nil {
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	c.setNotice("Prediction copied to clipboard.")
	return summary, nil
}

// DownloadReport saves crop_disease_report.txt and returns its location
func (c *Controller) DownloadReport(ctx context.Context) (string, error) {
	if c.prediction == nil {
		return "", newValidationError("prediction", MsgNoPrediction)
	}
	if c.opts.Saver == nil {
		return "", errors.New("report saver is not configured")
	}

	location, err := c.opts.Saver.Save(ctx, report.FileName, []byte(report.Text(*c.prediction)))
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	c.setNotice("Report saved to " + location)

	c.log.InfoWithFields("Report saved", []logger.Field{logger.F("location", location)})
	return location, nil
}

func (c *Controller) setNotice(text string) {
	c.notice = notice{text: text, until: c.opts.Clock.Now().Add(c.opts.NoticeDuration)}
}

// Celebrating reports whether the success window is open
func (c *Controller) Celebrating() bool {
	return c.prediction != nil && c.opts.Clock.Now().Before(c.celebrateUntil)
}

// CelebrationDuration is the length of the success window
func (c *Controller) CelebrationDuration() time.Duration {
	return c.opts.CelebrationDuration
}

// NoticeDuration is how long acknowledgements stay visible
func (c *Controller) NoticeDuration() time.Duration {
	return c.opts.NoticeDuration
}

// Generation changes every time the selection is replaced or cleared.
// Asynchronous replies tagged with an older generation are stale.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// Snapshot returns a copy of the state for rendering
func (c *Controller) Snapshot() State {
	s := State{
		UploadCount: c.uploadCount,
		History:     slices.Clone(c.history),
		Loading:     c.loading,
		Error:       c.errMsg,
		Progress:    c.Progress(),
		Celebrating: c.Celebrating(),
		DarkMode:    c.dark,
		Palette:     theme.For(c.dark),
		Tip:         c.tip,
		Generation:  c.generation,
	}

	s.Upload = c.upload
	if c.upload.File != nil {
		file := *c.upload.File
		s.Upload.File = &file
	}
	if c.prediction != nil {
		p := *c.prediction
		s.Prediction = &p
	}
	if c.notice.text != "" && c.opts.Clock.Now().Before(c.notice.until) {
		s.Notice = c.notice.text
	}
	return s
}

func sizeLimitMessage(limit int64) string {
	if limit == DefaultMaxFileSize {
		return MsgFileTooLarge
	}
	const mib = 1024 * 1024
	if limit%mib == 0 {
		return fmt.Sprintf("File size exceeds the %dMB limit.", limit/mib)
	}
	return fmt.Sprintf("File size exceeds the %d byte limit.", limit)
}
