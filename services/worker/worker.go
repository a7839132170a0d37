package worker

import (
	"context"
	"encoding/json"
	mathrand "math/rand"
	"sync"
	"time"

	"lootradar/internal/metrics"
	"lootradar/internal/scanner"
	"lootradar/logger"
	"lootradar/services/dedup"
	"lootradar/services/notifier"
	"lootradar/services/publisher"
)

// Worker runs the scan pipeline on a jittered background schedule
type Worker struct {
	ctx       context.Context
	sources   []scanner.Source
	notifier  notifier.Notifier
	publisher publisher.Publisher
	seen      *dedup.Store
	interval  time.Duration
	jitter    time.Duration
	metrics   *metrics.Metrics
	log       *logger.Logger

	mu       sync.Mutex
	cycles   int64
	lastScan time.Time
}

// NewWorker creates a new worker. The publisher may be nil.
func NewWorker(
	ctx context.Context,
	sources []scanner.Source,
	n notifier.Notifier,
	pub publisher.Publisher,
	seen *dedup.Store,
	interval time.Duration,
	jitter time.Duration,
	m *metrics.Metrics,
) *Worker {
	return &Worker{
		ctx:       ctx,
		sources:   sources,
		notifier:  n,
		publisher: pub,
		seen:      seen,
		interval:  interval,
		jitter:    jitter,
		metrics:   m,
		log:       logger.ForWorker(),
	}
}

// Start runs scan cycles until the context is cancelled. The interval
// between cycles is jittered so the request pattern is not predictable.
func (w *Worker) Start() error {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

	for {
		start := time.Now()
		w.RunCycle()
		w.log.Debug().Dur("elapsed", time.Since(start)).Msg("scan cycle finished")

		sleep := w.interval
		if w.jitter > 0 {
			sleep += time.Duration(rnd.Int63n(int64(w.jitter)))
		}

		timer := time.NewTimer(sleep)
		select {
		case <-w.ctx.Done():
			timer.Stop()
			return w.ctx.Err()
		case <-timer.C:
		}
	}
}

// RunCycle runs all category scanners once and dispatches the surviving
// alerts. A panic anywhere in a cycle is recovered so the loop can sleep
// and retry instead of terminating the process.
func (w *Worker) RunCycle() {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("scan cycle panicked")
		}
	}()

	type result struct {
		label  string
		alerts []scanner.Alert
	}

	resultChan := make(chan result, len(w.sources))
	var wg sync.WaitGroup

	for _, src := range w.sources {
		wg.Add(1)
		go func(src scanner.Source) {
			defer wg.Done()
			// Scan runs off the cycle's goroutine, so it needs its own
			// recover; a panicking scanner must not take the process down.
			defer func() {
				if r := recover(); r != nil {
					w.log.Error().Interface("panic", r).Str("scanner", src.Label()).Msg("category scan panicked")
				}
			}()

			start := time.Now()
			alerts, err := src.Scan()
			w.metrics.ObserveScan(time.Since(start))
			if err != nil {
				w.log.Error().Err(err).Str("scanner", src.Label()).Msg("category scan failed")
				return
			}
			resultChan <- result{label: src.Label(), alerts: alerts}
		}(src)
	}

	wg.Wait()
	close(resultChan)

	for res := range resultChan {
		for _, alert := range res.alerts {
			w.dispatch(alert)
		}
	}

	if w.publisher != nil {
		if err := w.publisher.Trim(); err != nil {
			w.log.Error().Err(err).Msg("stream trimming failed")
		}
	}

	w.mu.Lock()
	w.cycles++
	w.lastScan = time.Now()
	w.mu.Unlock()
	w.metrics.IncCycle()
}

// dispatch filters one alert through the dedup store and delivers it.
// A delivery failure still leaves the key marked seen: losing one alert
// is better than a retry storm of duplicates.
func (w *Worker) dispatch(alert scanner.Alert) {
	if !w.seen.ShouldNotify(alert.Key) {
		w.metrics.IncSuppressed()
		return
	}

	if err := w.notifier.Send(alert.Message(), alert.Link); err != nil {
		w.metrics.IncError("notification")
		w.log.Error().Err(err).Str("category", alert.Category).Msg("notification delivery failed")
	} else {
		w.metrics.IncAlert(alert.Tier)
	}

	if w.publisher != nil {
		payload, err := json.Marshal(alert)
		if err != nil {
			w.log.Error().Err(err).Msg("alert marshalling failed")
			return
		}
		if err := w.publisher.Publish(payload); err != nil {
			w.log.Error().Err(err).Msg("alert publishing failed")
		}
	}
}

// Stats returns the completed cycle count and the last scan time
func (w *Worker) Stats() (int64, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cycles, w.lastScan
}
