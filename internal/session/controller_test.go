package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/LeafScan/internal/imaging"
	"github.com/yildizm/LeafScan/internal/predict"
	"github.com/yildizm/LeafScan/internal/prefs"
	"github.com/yildizm/LeafScan/internal/report"
	"github.com/yildizm/LeafScan/internal/theme"
)

const mib = 1024 * 1024

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakePredictor struct {
	result *predict.Result
	err    error
	calls  int
	sent   []*File

	// observe is called while the request is in flight
	observe func()
}

func (p *fakePredictor) Predict(_ context.Context, f *File) (*predict.Result, error) {
	p.calls++
	p.sent = append(p.sent, f)
	if p.observe != nil {
		p.observe()
	}
	return p.result, p.err
}

type fakePreviewer struct {
	err error
}

func (p fakePreviewer) Preview(data []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "data:image/png;base64,preview", nil
}

type fakeCropper struct {
	regions []imaging.Region
}

func (c *fakeCropper) Snapshot(_ []byte, region imaging.Region) (string, error) {
	c.regions = append(c.regions, region)
	return "data:image/png;base64,crop", nil
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) Copy(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakeSaver struct {
	name    string
	content string
}

func (s *fakeSaver) Save(_ context.Context, name string, content []byte) (string, error) {
	s.name = name
	s.content = string(content)
	return "/tmp/" + name, nil
}

var leafBlight = &predict.Result{
	PredictedDisease: "Leaf Blight",
	Confidence:       0.87,
	Treatment:        "Apply fungicide X",
}

type harness struct {
	c         *Controller
	clock     *fakeClock
	predictor *fakePredictor
	cropper   *fakeCropper
	clipboard *fakeClipboard
	saver     *fakeSaver
	prefs     *prefs.MemoryStore
	celebrate []time.Duration
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		clock:     &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
		predictor: &fakePredictor{result: leafBlight},
		cropper:   &fakeCropper{},
		clipboard: &fakeClipboard{},
		saver:     &fakeSaver{},
		prefs:     prefs.NewMemoryStore(),
	}
	h.c = h.build()
	return h
}

func (h *harness) build() *Controller {
	return New(Options{
		Predictor:  h.predictor,
		Previewer:  fakePreviewer{},
		Cropper:    h.cropper,
		Celebrator: CelebratorFunc(func(d time.Duration) { h.celebrate = append(h.celebrate, d) }),
		Clipboard:  h.clipboard,
		Saver:      h.saver,
		Prefs:      h.prefs,
		Clock:      h.clock,
		Intn:       func(n int) int { return n - 1 },
	})
}

func image(size int64) *File {
	return &File{Name: "leaf.png", Size: size, Type: "image/png", Data: []byte("png-bytes")}
}

func TestSelectFile_RejectsOversize(t *testing.T) {
	sizes := []int64{5*mib + 1, 6 * mib, 50 * mib}

	for _, size := range sizes {
		h := newHarness(t)

		err := h.c.SelectFile(image(size))
		if !IsValidationError(err) {
			t.Fatalf("size %d: expected ValidationError, got %v", size, err)
		}

		s := h.c.Snapshot()
		if s.Error != MsgFileTooLarge {
			t.Errorf("size %d: expected %q, got %q", size, MsgFileTooLarge, s.Error)
		}
		if s.HasFile() || s.Upload.Preview != "" {
			t.Errorf("size %d: expected no file or preview", size)
		}
		if s.UploadCount != 0 {
			t.Errorf("size %d: rejected file must not count, got %d", size, s.UploadCount)
		}

		_ = h.c.Submit(context.Background())
		if h.predictor.calls != 0 {
			t.Errorf("size %d: expected no request, got %d", size, h.predictor.calls)
		}
	}
}

func TestSelectFile_AcceptsUpToLimit(t *testing.T) {
	sizes := []int64{1, 2 * mib, 5 * mib}

	for _, size := range sizes {
		h := newHarness(t)
		h.c.errMsg = "stale"

		if err := h.c.SelectFile(image(size)); err != nil {
			t.Fatalf("size %d: unexpected error %v", size, err)
		}

		s := h.c.Snapshot()
		if !s.HasFile() || s.Upload.Preview == "" {
			t.Errorf("size %d: expected file and preview", size)
		}
		if s.Prediction != nil || s.Error != "" {
			t.Errorf("size %d: expected prediction and error cleared", size)
		}
		if s.UploadCount != 1 {
			t.Errorf("size %d: expected upload count 1, got %d", size, s.UploadCount)
		}
	}
}

func TestSelectFile_InvalidatesPrevious(t *testing.T) {
	h := newHarness(t)

	_ = h.c.SelectFile(image(mib))
	_ = h.c.Crop(imaging.Region{Width: 50, Height: 50})
	_ = h.c.Submit(context.Background())
	gen := h.c.Generation()

	_ = h.c.SelectFile(&File{Name: "second.jpg", Size: mib, Data: []byte("jpg")})

	s := h.c.Snapshot()
	if s.Upload.File.Name != "second.jpg" {
		t.Errorf("Expected second file selected, got %s", s.Upload.File.Name)
	}
	if s.Upload.Cropped != "" || s.Prediction != nil || s.Error != "" {
		t.Errorf("Expected crop, prediction and error cleared: %+v", s)
	}
	if s.UploadCount != 2 {
		t.Errorf("Expected upload count 2, got %d", s.UploadCount)
	}
	if len(s.History) != 1 {
		t.Errorf("Expected history kept, got %d", len(s.History))
	}
	if h.c.Generation() == gen {
		t.Error("Expected generation to change")
	}
}

func TestSelectFile_RejectionClearsPrevious(t *testing.T) {
	h := newHarness(t)

	_ = h.c.SelectFile(image(mib))
	_ = h.c.Submit(context.Background())

	_ = h.c.SelectFile(image(6 * mib))

	s := h.c.Snapshot()
	if s.HasFile() || s.Prediction != nil || s.Progress != 0 {
		t.Errorf("Expected previous selection dropped: %+v", s)
	}
	if s.Error != MsgFileTooLarge {
		t.Errorf("Expected size error, got %q", s.Error)
	}
}

func TestSelectFile_PreviewFallback(t *testing.T) {
	h := newHarness(t)
	h.c.opts.Previewer = fakePreviewer{err: errors.New("unsupported")}

	if err := h.c.SelectFile(&File{Name: "leaf.heic", Path: "/data/leaf.heic", Size: 10}); err != nil {
		t.Fatal(err)
	}
	if got := h.c.Snapshot().Upload.Preview; got != "file:///data/leaf.heic" {
		t.Errorf("Expected file reference preview, got %s", got)
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leaf.png")
	pngHeader := []byte("\x89PNG\r\n\x1a\n0000")
	if err := os.WriteFile(path, pngHeader, 0o600); err != nil {
		t.Fatal(err)
	}

	h := newHarness(t)
	if err := h.c.OpenFile(path); err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	f := h.c.Snapshot().Upload.File
	if f.Name != "leaf.png" || f.Size != int64(len(pngHeader)) || f.Type != "image/png" {
		t.Errorf("Unexpected file metadata: %+v", f)
	}

	if err := h.c.OpenFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
	if err := h.c.OpenFile(dir); err == nil {
		t.Error("Expected error for directory")
	}
}

func TestOpenFile_OversizeNotRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(6 * mib); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	h := newHarness(t)
	if err := h.c.OpenFile(path); !IsValidationError(err) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if h.c.Snapshot().Error != MsgFileTooLarge {
		t.Errorf("Expected size error")
	}
}

func TestProgress(t *testing.T) {
	h := newHarness(t)

	if h.c.Progress() != 0 {
		t.Error("Expected 0 progress without a file")
	}

	_ = h.c.SelectFile(image(mib))

	steps := []struct {
		advance time.Duration
		want    int
	}{
		{0, 0},
		{199 * time.Millisecond, 0},
		{1 * time.Millisecond, 10},
		{400 * time.Millisecond, 30},
		{time.Second, 80},
		{400 * time.Millisecond, 100},
		{time.Hour, 100},
	}
	for _, step := range steps {
		h.clock.Advance(step.advance)
		if got := h.c.Progress(); got != step.want {
			t.Errorf("After +%v: progress = %d, want %d", step.advance, got, step.want)
		}
	}

	h.c.RemoveImage()
	if h.c.Progress() != 0 {
		t.Error("Expected progress cleared by RemoveImage")
	}
}

func TestCrop(t *testing.T) {
	h := newHarness(t)

	if err := h.c.Crop(imaging.Region{Width: 10, Height: 10}); !IsValidationError(err) {
		t.Errorf("Expected ValidationError without file, got %v", err)
	}

	_ = h.c.SelectFile(image(mib))
	region := imaging.Region{X: 10, Y: 10, Width: 50, Height: 50}
	if err := h.c.Crop(region); err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if h.c.Snapshot().Upload.Cropped != "data:image/png;base64,crop" {
		t.Error("Expected cropped snapshot stored")
	}

	_ = h.c.Submit(context.Background())
	if string(h.predictor.sent[0].Data) != "png-bytes" {
		t.Error("Expected the original file to be submitted")
	}
}

func TestSubmit_NoFile(t *testing.T) {
	h := newHarness(t)

	err := h.c.Submit(context.Background())
	if !IsValidationError(err) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if h.predictor.calls != 0 {
		t.Errorf("Expected no network call, got %d", h.predictor.calls)
	}
	if s := h.c.Snapshot(); s.Error != MsgNoFile || s.Loading {
		t.Errorf("Unexpected state %+v", s)
	}
}

func TestSubmit_Success(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(2 * mib))

	var loadingDuringCall bool
	var errDuringCall string
	h.predictor.observe = func() {
		s := h.c.Snapshot()
		loadingDuringCall = s.Loading
		errDuringCall = s.Error
	}

	if err := h.c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !loadingDuringCall || errDuringCall != "" {
		t.Errorf("Expected loading with no error in flight, got loading=%v error=%q", loadingDuringCall, errDuringCall)
	}

	s := h.c.Snapshot()
	if s.Loading {
		t.Error("Expected loading cleared")
	}
	if s.Error != "" {
		t.Errorf("Expected no error, got %q", s.Error)
	}
	if s.Prediction == nil || s.Prediction.PredictedDisease != "Leaf Blight" {
		t.Fatalf("Expected Leaf Blight prediction, got %+v", s.Prediction)
	}
	if s.Prediction.ConfidencePercent() != "87.00%" {
		t.Errorf("Expected 87.00%%, got %s", s.Prediction.ConfidencePercent())
	}
	if s.Prediction.Treatment != "Apply fungicide X" {
		t.Errorf("Unexpected treatment %s", s.Prediction.Treatment)
	}
	if len(s.History) != 1 || s.History[0] != *leafBlight {
		t.Errorf("Expected history [Leaf Blight], got %+v", s.History)
	}
}

func TestSubmit_Failure(t *testing.T) {
	failures := []error{
		&predict.TransportError{Type: predict.ErrTypeNetwork, Message: "connection refused"},
		&predict.TransportError{Type: predict.ErrTypeStatus, StatusCode: 500, Message: "unexpected status"},
		&predict.TransportError{Type: predict.ErrTypeDecode, Message: "malformed body"},
	}

	for _, failure := range failures {
		h := newHarness(t)
		_ = h.c.SelectFile(image(mib))
		_ = h.c.Submit(context.Background())

		_ = h.c.SelectFile(image(mib))
		h.predictor.result, h.predictor.err = nil, failure

		loading := false
		h.predictor.observe = func() { loading = h.c.Snapshot().Loading }

		err := h.c.Submit(context.Background())
		if !errors.Is(err, failure) {
			t.Errorf("Expected %v returned, got %v", failure, err)
		}

		s := h.c.Snapshot()
		if !loading || s.Loading {
			t.Errorf("Expected loading true then false, got %v then %v", loading, s.Loading)
		}
		if s.Error != MsgPredictionFailed {
			t.Errorf("Expected generic failure message, got %q", s.Error)
		}
		if s.Prediction != nil {
			t.Error("Prediction and error must not both be set")
		}
		if len(s.History) != 1 {
			t.Errorf("Expected history unchanged at 1, got %d", len(s.History))
		}
	}
}

func TestSubmit_RetryAfterFailure(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(mib))

	h.predictor.result, h.predictor.err = nil, errors.New("boom")
	_ = h.c.Submit(context.Background())

	h.predictor.result, h.predictor.err = leafBlight, nil
	if err := h.c.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s := h.c.Snapshot(); s.Error != "" || s.Prediction == nil {
		t.Errorf("Expected manual retry to succeed: %+v", s)
	}
	if h.predictor.calls != 2 {
		t.Errorf("Expected exactly 2 calls, got %d", h.predictor.calls)
	}
}

func TestSplitSubmit(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(mib))

	file, err := h.c.BeginSubmit()
	if err != nil {
		t.Fatal(err)
	}
	if file.Name != "leaf.png" || !h.c.Snapshot().Loading {
		t.Error("Expected loading with file returned")
	}

	if err := h.c.CompleteSubmit(nil, nil); err == nil {
		t.Error("Expected error for empty result")
	}
	if s := h.c.Snapshot(); s.Loading || s.Error != MsgPredictionFailed {
		t.Errorf("Unexpected state %+v", s)
	}
}

func TestCelebration(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(mib))
	_ = h.c.Submit(context.Background())

	if len(h.celebrate) != 1 || h.celebrate[0] != 5*time.Second {
		t.Errorf("Expected one 5s celebration, got %v", h.celebrate)
	}
	if !h.c.Celebrating() {
		t.Error("Expected celebrating right after success")
	}

	h.clock.Advance(4999 * time.Millisecond)
	if !h.c.Celebrating() {
		t.Error("Expected celebrating before 5s")
	}
	h.clock.Advance(time.Millisecond)
	if h.c.Celebrating() {
		t.Error("Expected celebration over at 5s")
	}
}

func TestRemoveImage(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(mib))
	_ = h.c.Crop(imaging.Region{Width: 50, Height: 50})
	_ = h.c.Submit(context.Background())
	h.clock.Advance(time.Second)

	h.c.RemoveImage()

	s := h.c.Snapshot()
	if s.HasFile() || s.Upload.Preview != "" || s.Upload.Cropped != "" {
		t.Error("Expected file, preview and crop cleared")
	}
	if s.Prediction != nil || s.Error != "" || s.Progress != 0 {
		t.Error("Expected prediction, error and progress cleared")
	}
	if len(s.History) != 1 || s.UploadCount != 1 {
		t.Errorf("Expected history and upload count kept, got %d and %d", len(s.History), s.UploadCount)
	}
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(mib))
	_ = h.c.Submit(context.Background())
	_ = h.c.SelectFile(image(mib))

	h.c.Reset()

	s := h.c.Snapshot()
	if s.HasFile() || s.Upload.Preview != "" || s.Prediction != nil || s.Error != "" || s.Progress != 0 {
		t.Errorf("Expected selection cleared: %+v", s)
	}
	if len(s.History) != 0 || s.UploadCount != 0 {
		t.Errorf("Expected history and count cleared, got %d and %d", len(s.History), s.UploadCount)
	}
}

func TestSelectionClearsLoading(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(mib))
	_, _ = h.c.BeginSubmit()

	_ = h.c.SelectFile(image(mib))
	if h.c.Snapshot().Loading {
		t.Error("Expected a new selection to abandon the in-flight request")
	}
}

func TestToggleTheme(t *testing.T) {
	h := newHarness(t)

	var published []map[string]string
	h.c.Subscribe(func(vars map[string]string) { published = append(published, vars) })

	if h.c.DarkMode() {
		t.Fatal("Expected light mode by default")
	}

	p, err := h.c.ToggleTheme()
	if err != nil {
		t.Fatal(err)
	}
	if p != theme.Dark || !h.c.DarkMode() {
		t.Errorf("Expected dark palette after toggle")
	}
	if v, _, _ := h.prefs.Get(prefs.KeyDarkMode); v != "true" {
		t.Errorf("Expected darkMode=true stored, got %q", v)
	}

	p, _ = h.c.ToggleTheme()
	if p != theme.Light || h.c.DarkMode() {
		t.Error("Expected double toggle to restore light mode")
	}
	if v, _, _ := h.prefs.Get(prefs.KeyDarkMode); v != "false" {
		t.Errorf("Expected darkMode=false stored, got %q", v)
	}

	if len(published) != 3 {
		t.Fatalf("Expected initial publish plus two toggles, got %d", len(published))
	}
	if published[1][theme.VarBackground] != "#2c3e50" || published[2][theme.VarBackground] != "#f5f7fa" {
		t.Errorf("Unexpected published backgrounds: %v", published)
	}
	for _, vars := range published {
		if len(vars) != 5 {
			t.Errorf("Expected 5 variables, got %d", len(vars))
		}
	}
}

func TestThemePersistsAcrossReload(t *testing.T) {
	h := newHarness(t)
	_, _ = h.c.ToggleTheme()

	reloaded := h.build()
	if !reloaded.DarkMode() {
		t.Error("Expected dark mode restored from storage")
	}
	if reloaded.Palette() != theme.Dark {
		t.Error("Expected dark palette after reload")
	}
}

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingStore) Set(string, string) error         { return errors.New("disk gone") }

func TestToggleThemeSaveFailure(t *testing.T) {
	c := New(Options{Prefs: failingStore{}})

	p, err := c.ToggleTheme()
	if err == nil {
		t.Error("Expected save error")
	}
	if p != theme.Dark || !c.DarkMode() {
		t.Error("Expected palette applied despite save failure")
	}
}

func TestTips(t *testing.T) {
	h := newHarness(t)
	first := h.c.Tip()
	if first == "" {
		t.Fatal("Expected a tip at startup")
	}

	picks := []int{0, 3}
	i := 0
	h.c.opts.Intn = func(n int) int { v := picks[i%len(picks)]; i++; return v }

	a, b := h.c.NewTip(), h.c.NewTip()
	if a == b {
		t.Errorf("Expected different tips for different picks")
	}
	if h.c.Tip() != b {
		t.Errorf("Expected current tip to be the last pick")
	}
}

func TestPredictionActions_RequirePrediction(t *testing.T) {
	h := newHarness(t)

	if _, err := h.c.Feedback(true); !IsValidationError(err) {
		t.Errorf("Feedback: expected ValidationError, got %v", err)
	}
	if _, err := h.c.Share(); !IsValidationError(err) {
		t.Errorf("Share: expected ValidationError, got %v", err)
	}
	if _, err := h.c.DownloadReport(context.Background()); !IsValidationError(err) {
		t.Errorf("DownloadReport: expected ValidationError, got %v", err)
	}
	if h.clipboard.text != "" || h.saver.name != "" {
		t.Error("Expected no side effects without a prediction")
	}
}

func TestFeedbackNotice(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(mib))
	_ = h.c.Submit(context.Background())

	text, err := h.c.Feedback(false)
	if err != nil {
		t.Fatal(err)
	}
	if h.c.Snapshot().Notice != text {
		t.Errorf("Expected notice %q", text)
	}

	h.clock.Advance(3 * time.Second)
	if h.c.Snapshot().Notice != "" {
		t.Error("Expected notice to expire")
	}
}

func TestShare(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(mib))
	_ = h.c.Submit(context.Background())

	summary, err := h.c.Share()
	if err != nil {
		t.Fatal(err)
	}
	if summary != report.ShareSummary(*leafBlight) || h.clipboard.text != summary {
		t.Errorf("Unexpected clipboard text %q", h.clipboard.text)
	}

	h.clipboard.err = errors.New("no terminal")
	if _, err := h.c.Share(); err == nil {
		t.Error("Expected clipboard error")
	}
}

func TestDownloadReport(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(mib))
	_ = h.c.Submit(context.Background())

	location, err := h.c.DownloadReport(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if h.saver.name != "crop_disease_report.txt" {
		t.Errorf("Unexpected report name %s", h.saver.name)
	}
	if !strings.Contains(h.saver.content, "Confidence: 87.00%") {
		t.Errorf("Unexpected report content %q", h.saver.content)
	}
	if !strings.HasSuffix(location, "crop_disease_report.txt") {
		t.Errorf("Unexpected location %s", location)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	h := newHarness(t)
	_ = h.c.SelectFile(image(mib))
	_ = h.c.Submit(context.Background())

	s := h.c.Snapshot()
	s.History[0].PredictedDisease = "mutated"
	s.Prediction.Treatment = "mutated"

	again := h.c.Snapshot()
	if again.History[0].PredictedDisease != "Leaf Blight" || again.Prediction.Treatment != "Apply fungicide X" {
		t.Error("Snapshot must not alias controller state")
	}
}

func TestConfiguredSizeLimitMessage(t *testing.T) {
	c := New(Options{MaxFileSize: 2 * mib})
	_ = c.SelectFile(image(3 * mib))
	if got := c.Snapshot().Error; got != "File size exceeds the 2MB limit." {
		t.Errorf("Unexpected message %q", got)
	}
}
