package monitor

import (
	"context"

	"github.com/yildizm/LeafScan/internal/predict"
	"github.com/yildizm/LeafScan/internal/report"
	"github.com/yildizm/LeafScan/internal/session"
)

type trackedPredictor struct {
	tracker *Tracker
	next    session.Predictor
}

// Predictor wraps p so every request is timed under OperationPredict
func Predictor(t *Tracker, p session.Predictor) session.Predictor {
	if t == nil || p == nil {
		return p
	}
	return &trackedPredictor{tracker: t, next: p}
}

func (p *trackedPredictor) Predict(ctx context.Context, f *session.File) (*predict.Result, error) {
	var res *predict.Result
	err := p.tracker.Track(OperationPredict, func() error {
		var err error
		res, err = p.next.Predict(ctx, f)
		return err
	})
	return res, err
}

type trackedSaver struct {
	tracker *Tracker
	next    report.Saver
}

// Saver wraps s so every save is timed under OperationReport
func Saver(t *Tracker, s report.Saver) report.Saver {
	if t == nil || s == nil {
		return s
	}
	return &trackedSaver{tracker: t, next: s}
}

func (s *trackedSaver) Save(ctx context.Context, name string, content []byte) (string, error) {
	var location string
	err := s.tracker.Track(OperationReport, func() error {
		var err error
		location, err = s.next.Save(ctx, name, content)
		return err
	})
	return location, err
}
