package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/LeafScan/internal/filewatch"
	"github.com/yildizm/LeafScan/internal/predict"
	"github.com/yildizm/LeafScan/internal/session"
)

// Messages that belong to one selection carry its generation. Handlers
// drop them once the selection has changed.

type progressTickMsg struct {
	gen uint64
}

type animationTickMsg struct{}

type predictionMsg struct {
	gen    uint64
	result *predict.Result
	err    error
}

type celebrationEndMsg struct {
	gen uint64
}

type noticeExpiredMsg struct{}

type fileEventMsg struct {
	event filewatch.Event
}

type watchErrorMsg struct {
	err error
}

type watchClosedMsg struct{}

const animationInterval = 120 * time.Millisecond

// progressTick schedules the next simulated progress step
func progressTick(gen uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return progressTickMsg{gen: gen}
	})
}

// animationTick drives the spinner and confetti
func animationTick() tea.Cmd {
	return tea.Tick(animationInterval, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// celebrationTimer fires once the success window has closed
func celebrationTimer(gen uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return celebrationEndMsg{gen: gen}
	})
}

// noticeTimer fires once a notice has expired
func noticeTimer(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}

// submitCommand sends file off the UI goroutine. It touches no session state.
func submitCommand(predictor session.Predictor, file *session.File, gen uint64, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		result, err := predictor.Predict(ctx, file)
		return predictionMsg{gen: gen, result: result, err: err}
	}
}

// waitForFileEvent blocks until the watcher reports something
func waitForFileEvent(w *filewatch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case event, ok := <-w.Events():
			if !ok {
				return watchClosedMsg{}
			}
			return fileEventMsg{event: event}
		case err, ok := <-w.Errors():
			if !ok {
				return watchClosedMsg{}
			}
			return watchErrorMsg{err: err}
		}
	}
}
