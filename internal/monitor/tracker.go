package monitor

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

type operation struct {
	timer     *Timer
	errors    Counter
	successes Counter
}

// Tracker records timings per operation. It is safe for concurrent use.
type Tracker struct {
	mu         sync.RWMutex
	operations map[OperationType]*operation
	now        func() time.Time
}

// New creates an empty tracker
func New() *Tracker {
	return &Tracker{
		operations: make(map[OperationType]*operation),
		now:        time.Now,
	}
}

// Track runs fn and records its duration and outcome under op
func (t *Tracker) Track(op OperationType, fn func() error) error {
	start := t.now()
	err := fn()
	duration := t.now().Sub(start)

	o := t.operation(op)
	o.timer.Record(duration)
	if err != nil {
		o.errors.Inc()
	} else {
		o.successes.Inc()
	}

	return err
}

func (t *Tracker) operation(op OperationType) *operation {
	t.mu.RLock()
	o, ok := t.operations[op]
	t.mu.RUnlock()
	if ok {
		return o
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if o, ok = t.operations[op]; !ok {
		o = &operation{timer: NewTimer()}
		t.operations[op] = o
	}
	return o
}

// Operation returns the metrics recorded for op
func (t *Tracker) Operation(op OperationType) OperationMetrics {
	t.mu.RLock()
	o, ok := t.operations[op]
	t.mu.RUnlock()

	m := OperationMetrics{Operation: op}
	if !ok {
		return m
	}
	m.Count = o.timer.Count()
	m.TotalTime = o.timer.TotalTime()
	m.MinTime = o.timer.MinTime()
	m.MaxTime = o.timer.MaxTime()
	m.LastTime = o.timer.LastTime()
	m.ErrorCount = o.errors.Get()
	m.SuccessCount = o.successes.Get()
	return m
}

// Snapshot returns every recorded operation sorted by name
func (t *Tracker) Snapshot() []OperationMetrics {
	t.mu.RLock()
	ops := make([]OperationType, 0, len(t.operations))
	for op := range t.operations {
		ops = append(ops, op)
	}
	t.mu.RUnlock()

	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

	out := make([]OperationMetrics, 0, len(ops))
	for _, op := range ops {
		out = append(out, t.Operation(op))
	}
	return out
}

// Reset drops everything recorded so far
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.operations = make(map[OperationType]*operation)
	t.mu.Unlock()
}

// Describe renders one line such as "predict: 3 ok, 1 failed, avg 420ms"
func (m OperationMetrics) Describe() string {
	if m.Count == 0 {
		return fmt.Sprintf("%s: no requests yet", m.Operation)
	}
	return fmt.Sprintf("%s: %d ok, %d failed, avg %s, max %s",
		m.Operation, m.SuccessCount, m.ErrorCount,
		m.AvgTime().Round(time.Millisecond), m.MaxTime.Round(time.Millisecond))
}
