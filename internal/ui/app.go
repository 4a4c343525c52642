package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/LeafScan/internal/emoji"
	"github.com/yildizm/LeafScan/internal/filewatch"
	"github.com/yildizm/LeafScan/internal/imaging"
	"github.com/yildizm/LeafScan/internal/logger"
	"github.com/yildizm/LeafScan/internal/monitor"
	"github.com/yildizm/LeafScan/internal/session"
	"github.com/yildizm/LeafScan/internal/ui/components"
)

// View represents different UI views
type View int

const (
	ViewMain View = iota
	ViewHistory
	ViewHelp
)

type inputKind int

const (
	inputNone inputKind = iota
	inputOpen
	inputCrop
)

// Options configures the TUI
type Options struct {
	Controller     *session.Controller
	Predictor      session.Predictor
	Watcher        *filewatch.Watcher // optional
	Tracker        *monitor.Tracker   // optional, shown in the history view
	Logger         *logger.Logger
	InitialPath    string
	NoColor        bool
	RequestTimeout time.Duration
}

// Model is the bubbletea model for the leaf scanner
type Model struct {
	ctrl      *session.Controller
	predictor session.Predictor
	watcher   *filewatch.Watcher
	tracker   *monitor.Tracker
	log       *logger.Logger
	timeout   time.Duration

	styles  *Styles
	noColor bool

	width       int
	height      int
	currentView View
	quitting    bool

	input     textinput.Model
	inputKind inputKind

	history     *components.List
	spinner     *components.Spinner
	celebration *components.Celebration
	animating   bool

	// status holds the outcome of the last action that has no place in
	// session state, such as a clipboard failure
	status      string
	statusIsErr bool

	initialPath string
}

// New creates the TUI model
func New(opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	input := textinput.New()
	input.CharLimit = 4096
	input.Width = 50

	m := &Model{
		ctrl:        opts.Controller,
		predictor:   opts.Predictor,
		watcher:     opts.Watcher,
		tracker:     opts.Tracker,
		log:         log.WithComponent("ui"),
		timeout:     opts.RequestTimeout,
		noColor:     opts.NoColor,
		input:       input,
		history:     components.NewHistoryList(nil, 60, 16),
		spinner:     components.NewSpinner("Analyzing leaf..."),
		celebration: components.NewCelebration(40, emoji.GetEmoji("celebrate")+" Diagnosis ready! "+emoji.GetEmoji("celebrate")),
		initialPath: opts.InitialPath,
	}
	m.applyTheme()
	return m
}

// Init opens the initial image, if any, and starts listening for file events
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForFileEvent(m.watcher)}
	if m.initialPath != "" {
		cmds = append(cmds, m.openPath(m.initialPath))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and navigation
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		if m.inputKind != inputNone {
			return m.handleInputKey(msg)
		}
		return m.handleKeyPress(msg)
	case progressTickMsg:
		return m.handleProgressTick(msg)
	case animationTickMsg:
		return m.handleAnimationTick()
	case predictionMsg:
		return m.handlePrediction(msg)
	case celebrationEndMsg, noticeExpiredMsg:
		// Both windows are derived from the clock; re-rendering is enough
		return m, nil
	case fileEventMsg:
		return m.handleFileEvent(msg)
	case watchErrorMsg:
		m.log.WarnWithFields("File watch error", []logger.Field{logger.Error(msg.err)})
		return m, waitForFileEvent(m.watcher)
	case watchClosedMsg:
		return m, nil
	}
	return m, nil
}

// handleWindowResize handles window resize events
func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.history.Width = min(max(msg.Width-8, 20), 80)
	m.history.Height = max(msg.Height-10, 5)
	m.celebration.Width = min(max(msg.Width-12, 20), 60)
	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "?" && key != "h" && key != "esc" {
		m.status = ""
	}

	switch key {
	case "q", "ctrl+c":
		return m.handleQuit()
	case "esc":
		m.currentView = ViewMain
		return m, nil
	case "?":
		return m.toggleView(ViewHelp)
	case "h":
		return m.toggleView(ViewHistory)
	}

	if m.currentView == ViewHistory {
		switch key {
		case "up", "k":
			m.history.MoveUp()
			return m, nil
		case "down", "j":
			m.history.MoveDown()
			return m, nil
		}
	}

	switch key {
	case "o":
		return m.startInput(inputOpen, "path/to/leaf.jpg", "")
	case "c":
		return m.startInput(inputCrop, "x y width height [px|%]", "10 10 80 80")
	case "enter", "s":
		return m.handleSubmit()
	case "x":
		m.ctrl.RemoveImage()
		m.unwatch()
		return m, nil
	case "R":
		m.ctrl.Reset()
		m.unwatch()
		m.history.SetItems(nil)
		return m, nil
	case "t":
		return m.handleToggleTheme()
	case "n":
		m.ctrl.NewTip()
		return m, nil
	case "+", "-":
		return m.handleFeedback(key == "+")
	case "y":
		return m.handleShare()
	case "d":
		return m.handleDownload()
	}
	return m, nil
}

func (m *Model) toggleView(v View) (tea.Model, tea.Cmd) {
	if m.currentView == v {
		m.currentView = ViewMain
		return m, nil
	}
	m.currentView = v
	if v == ViewHistory {
		m.history.SetItems(components.HistoryItems(m.ctrl.Snapshot().History))
	}
	return m, nil
}

// handleQuit handles quit commands
func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.log.WarnWithFields("Failed to close watcher", []logger.Field{logger.Error(err)})
		}
	}
	return m, tea.Quit
}

func (m *Model) startInput(kind inputKind, placeholder, value string) (tea.Model, tea.Cmd) {
	if kind == inputCrop && !m.ctrl.Snapshot().HasFile() {
		m.setStatus(session.MsgNoFile, true)
		return m, nil
	}

	m.inputKind = kind
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// handleInputKey routes keys to the active text input
func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		return m, nil
	case tea.KeyCtrlC:
		return m.handleQuit()
	case tea.KeyEnter:
		kind, value := m.inputKind, strings.TrimSpace(m.input.Value())
		m.stopInput()
		if value == "" {
			return m, nil
		}
		if kind == inputOpen {
			return m, m.openPath(value)
		}
		return m.applyCrop(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopInput() {
	m.inputKind = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

// openPath selects the file at path and starts its progress bar
func (m *Model) openPath(path string) tea.Cmd {
	err := m.ctrl.OpenFile(path)
	if err != nil {
		if !session.IsValidationError(err) {
			m.setStatus(err.Error(), true)
		}
		m.unwatch()
		return nil
	}

	snap := m.ctrl.Snapshot()
	m.watch(snap.Upload.File.Path)
	return progressTick(snap.Generation, m.ctrl.ProgressInterval())
}

func (m *Model) applyCrop(value string) (tea.Model, tea.Cmd) {
	region, err := imaging.ParseRegion(value)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	if err := m.ctrl.Crop(region); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.setStatus(emoji.GetEmoji("crop")+" Crop updated to "+region.String(), false)
	return m, nil
}

func (m *Model) watch(path string) {
	if m.watcher == nil || path == "" {
		return
	}
	if err := m.watcher.Watch(path); err != nil {
		m.log.DebugWithFields("Cannot watch file", []logger.Field{logger.Path(path), logger.Error(err)})
	}
}

func (m *Model) unwatch() {
	if m.watcher != nil {
		m.watcher.Unwatch()
	}
}

// handleSubmit starts a prediction unless one is already running
func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	if m.ctrl.Snapshot().Loading {
		return m, nil
	}

	file, err := m.ctrl.BeginSubmit()
	if err != nil {
		return m, nil
	}
	if m.predictor == nil {
		_ = m.ctrl.CompleteSubmit(nil, fmt.Errorf("no predictor configured"))
		return m, nil
	}

	gen := m.ctrl.Generation()
	m.log.DebugWithFields("Submitting image", []logger.Field{logger.F("name", file.Name), logger.F("generation", gen)})
	return m, tea.Batch(submitCommand(m.predictor, file, gen, m.timeout), m.startAnimation())
}

// handlePrediction records a reply for the current selection
func (m *Model) handlePrediction(msg predictionMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.ctrl.Generation() {
		m.log.DebugWithFields("Dropping stale prediction", []logger.Field{logger.F("generation", msg.gen)})
		return m, nil
	}

	if err := m.ctrl.CompleteSubmit(msg.result, msg.err); err != nil {
		return m, nil
	}

	m.history.SetItems(components.HistoryItems(m.ctrl.Snapshot().History))
	return m, tea.Batch(
		celebrationTimer(msg.gen, m.ctrl.CelebrationDuration()),
		m.startAnimation(),
	)
}

// handleProgressTick advances the progress bar for the current selection
func (m *Model) handleProgressTick(msg progressTickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.ctrl.Generation() {
		return m, nil
	}
	if m.ctrl.Progress() >= 100 {
		return m, nil
	}
	return m, progressTick(msg.gen, m.ctrl.ProgressInterval())
}

func (m *Model) startAnimation() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	return animationTick()
}

// handleAnimationTick moves the spinner and confetti while either is shown
func (m *Model) handleAnimationTick() (tea.Model, tea.Cmd) {
	snap := m.ctrl.Snapshot()
	if !snap.Loading && !snap.Celebrating {
		m.animating = false
		return m, nil
	}
	m.spinner.Tick()
	m.celebration.Tick()
	return m, animationTick()
}

// handleFileEvent follows edits to the selected image on disk
func (m *Model) handleFileEvent(msg fileEventMsg) (tea.Model, tea.Cmd) {
	next := waitForFileEvent(m.watcher)

	snap := m.ctrl.Snapshot()
	if !snap.HasFile() || !samePath(snap.Upload.File.Path, msg.event.Path) {
		return m, next
	}

	switch msg.event.Kind {
	case filewatch.Removed:
		m.log.InfoWithFields("Selected image removed", []logger.Field{logger.Path(msg.event.Path)})
		m.ctrl.RemoveImage()
		m.unwatch()
		return m, next
	default:
		m.log.InfoWithFields("Selected image changed", []logger.Field{logger.Path(msg.event.Path)})
		return m, tea.Batch(m.openPath(msg.event.Path), next)
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// handleToggleTheme switches palette and rebuilds every style
func (m *Model) handleToggleTheme() (tea.Model, tea.Cmd) {
	_, err := m.ctrl.ToggleTheme()
	m.applyTheme()
	if err != nil {
		m.log.WarnWithFields("Theme preference not saved", []logger.Field{logger.Error(err)})
	}
	return m, nil
}

func (m *Model) applyTheme() {
	m.styles = GetStyles(m.ctrl.Palette(), m.noColor)

	t := m.styles.Theme
	m.history.Colors = components.ListColors{
		Primary:  t.Primary,
		Muted:    t.Muted,
		Selected: t.Highlight,
		Success:  t.Success,
		Warning:  t.Warning,
		Error:    t.Error,
	}
	m.spinner.Color = t.Primary
	m.celebration.NoColor = m.noColor || IsColorDisabled()
}

func (m *Model) handleFeedback(helpful bool) (tea.Model, tea.Cmd) {
	if _, err := m.ctrl.Feedback(helpful); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	return m, noticeTimer(m.ctrl.NoticeDuration())
}

func (m *Model) handleShare() (tea.Model, tea.Cmd) {
	if _, err := m.ctrl.Share(); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	return m, noticeTimer(m.ctrl.NoticeDuration())
}

func (m *Model) handleDownload() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	if _, err := m.ctrl.DownloadReport(ctx); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	return m, noticeTimer(m.ctrl.NoticeDuration())
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusIsErr = isErr
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return m.styles.Success.Render("Thanks for using LeafScan! "+emoji.GetEmoji("leaf")) + "\n"
	}

	var body string
	switch m.currentView {
	case ViewHistory:
		body = m.renderHistory()
	case ViewHelp:
		body = m.renderHelp()
	default:
		body = m.renderMain()
	}

	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body,
		lipgloss.WithWhitespaceBackground(m.styles.Theme.Background))
}

func (m *Model) cardWidth() int {
	if m.width == 0 {
		return 72
	}
	return min(max(m.width-4, 40), 88)
}

func (m *Model) renderHeader(snap session.State) string {
	title := m.styles.Title.Render(emoji.GetEmoji("leaf") + " LeafScan")
	info := m.styles.Muted.Render(fmt.Sprintf("%s %s mode • %d uploads this session",
		emoji.ThemeIcon(snap.DarkMode), snap.Palette.Name, snap.UploadCount))
	return lipgloss.JoinVertical(lipgloss.Left, title, info)
}

func (m *Model) renderMain() string {
	snap := m.ctrl.Snapshot()

	sections := []string{
		m.renderHeader(snap),
		"",
		m.styles.Body.Render(emoji.GetEmoji("tip") + " " + snap.Tip),
		"",
		m.renderUpload(snap),
		"",
		m.renderResult(snap),
	}

	if snap.Notice != "" {
		sections = append(sections, "", m.styles.Success.Render(snap.Notice))
	}
	if m.status != "" {
		style := m.styles.Muted
		if m.statusIsErr {
			style = m.styles.Warning
		}
		sections = append(sections, "", style.Render(m.status))
	}
	if m.inputKind != inputNone {
		label := "Open image:"
		if m.inputKind == inputCrop {
			label = "Crop region:"
		}
		sections = append(sections, "", m.styles.Header.Render(label)+" "+m.input.View())
	}

	sections = append(sections, "", m.renderFooter(snap))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return m.styles.Card.Width(m.cardWidth()).Render(content)
}

func (m *Model) renderUpload(snap session.State) string {
	header := m.styles.Header.Render(emoji.GetEmoji("upload") + " Upload")
	if !snap.HasFile() {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			m.styles.Muted.Render("No image selected. Press o to open one."))
	}

	f := snap.Upload.File
	lines := []string{
		header,
		m.styles.Body.Render(fmt.Sprintf("%s %s (%s, %s)", emoji.GetEmoji("image"), f.Name, formatSize(f.Size), f.Type)),
		m.styles.Muted.Render("Preview: " + describeRef(snap.Upload.Preview)),
	}
	if snap.Upload.Cropped != "" {
		lines = append(lines, m.styles.Muted.Render(emoji.GetEmoji("crop")+" Crop: "+describeRef(snap.Upload.Cropped)))
	}

	bar := components.NewProgressBar(30)
	bar.SetColors(m.styles.Theme.Primary, m.styles.Theme.Muted)
	bar.SetProgress(snap.Progress)
	bar.SetLabel("Upload")
	lines = append(lines, bar.Render())

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderResult(snap session.State) string {
	header := m.styles.Header.Render(emoji.GetEmoji("disease") + " Diagnosis")

	switch {
	case snap.Loading:
		return lipgloss.JoinVertical(lipgloss.Left, header, m.spinner.Render())
	case snap.Error != "":
		return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Error.Render(emoji.GetEmoji("error")+" "+snap.Error))
	case snap.Prediction == nil:
		return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Muted.Render("Press enter to analyze the selected image."))
	}

	p := snap.Prediction
	lines := []string{
		header,
		m.styles.Highlight.Render(p.PredictedDisease),
		m.styles.Body.Render("Confidence: " + p.ConfidencePercent()),
		m.styles.Body.Render(emoji.GetEmoji("treatment") + " Treatment: " + p.Treatment),
	}
	if snap.Celebrating {
		lines = append(lines, "", m.celebration.Render())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderFooter(snap session.State) string {
	keys := []string{"o open", "enter submit", "c crop", "x remove", "t theme", "n tip"}
	if snap.Prediction != nil {
		keys = append(keys, "+/- feedback", "y share", "d download")
	}
	keys = append(keys, "h history", "? help", "q quit")
	return m.styles.Muted.Render(strings.Join(keys, " • "))
}

func (m *Model) renderHistory() string {
	lines := []string{m.history.Render(), ""}
	if m.tracker != nil {
		for _, op := range []monitor.OperationType{monitor.OperationPredict, monitor.OperationReport} {
			lines = append(lines, m.styles.Muted.Render(m.tracker.Operation(op).Describe()))
		}
		lines = append(lines, "")
	}
	lines = append(lines, m.styles.Muted.Render("↑↓ or j/k to move • h or esc to go back"))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.styles.Card.Width(m.cardWidth()).Render(content)
}

func (m *Model) renderHelp() string {
	bindings := [][2]string{
		{"o", "Open an image by path"},
		{"enter / s", "Submit the image for diagnosis"},
		{"c", "Crop the preview (x y width height, % or px)"},
		{"x", "Remove the image"},
		{"R", "Reset the session and history"},
		{"t", "Toggle dark mode"},
		{"n", "Show another farming tip"},
		{"+ / -", "Rate the diagnosis"},
		{"y", "Copy the diagnosis to the clipboard"},
		{"d", "Save crop_disease_report.txt"},
		{"h", "Prediction history"},
		{"q", "Quit"},
	}

	lines := []string{m.styles.Title.Render(emoji.GetEmoji("help") + " Help"), ""}
	for _, b := range bindings {
		lines = append(lines, m.styles.Key.Render(b[0])+" "+m.styles.Body.Render(b[1]))
	}
	lines = append(lines, "", m.styles.Muted.Render("? or esc to go back"))

	return m.styles.Card.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// describeRef summarizes a preview reference for terminal display
func describeRef(ref string) string {
	switch {
	case ref == "":
		return "none"
	case strings.HasPrefix(ref, "data:"):
		mime := strings.TrimPrefix(ref, "data:")
		if i := strings.IndexAny(mime, ";,"); i >= 0 {
			mime = mime[:i]
		}
		return fmt.Sprintf("%s thumbnail (%s)", mime, formatSize(int64(len(ref))))
	default:
		return ref
	}
}

func formatSize(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(unit*unit))
	}
}

// Run runs the TUI until the user quits
func Run(opts Options) error {
	model := New(opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
