package eval

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Sample is a single image: model output, reference annotations and time spent by model
type Sample struct {
	ImageID       string
	Predictions   []Detection
	GroundTruth   []Detection
	InferenceTime time.Duration
}

// Evaluator runs Matcher for every class of every sample and aggregates per-class statistics.
// Samples are expected to be prepared at ingestion (see NormalizeDetections): evaluator only reads them,
// so samples can be processed concurrently.
type Evaluator struct {
	matcher *Matcher
	classes []string
	workers int
	logger  logrus.FieldLogger
}

// Option configures Evaluator
type Option func(*Evaluator)

// WithWorkers sets number of goroutines processing samples. Values less than 1 mean 1
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithLogger sets logger. By default nothing is logged
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEvaluator creates evaluator for given classes. Nil matcher means DefaultMatcher()
func NewEvaluator(matcher *Matcher, classes []string, opts ...Option) *Evaluator {
	if matcher == nil {
		matcher = DefaultMatcher()
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	e := &Evaluator{
		matcher: matcher,
		classes: append([]string(nil), classes...),
		workers: 1,
		logger:  discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluateSample matches every class of a single sample. Results follow the order of classes
func (e *Evaluator) EvaluateSample(sample Sample) []MatchResult {
	results := make([]MatchResult, len(e.classes))
	for j, class := range e.classes {
		results[j] = e.matcher.Match(sample.Predictions, sample.GroundTruth, class)
	}
	return results
}

// Evaluate processes all samples and returns aggregated report.
// Aggregation happens in sample order, so the report does not depend on number of workers.
func (e *Evaluator) Evaluate(ctx context.Context, samples []Sample) (*Report, error) {
	perSample := make([][]MatchResult, len(samples))

	workers := e.workers
	if workers > len(samples) {
		workers = len(samples)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results := e.EvaluateSample(samples[idx])
				perSample[idx] = results
				e.logSample(samples[idx], results)
			}
		}()
	}

	var ctxErr error
dispatch:
	for i := range samples {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if ctxErr != nil {
		return nil, errors.Wrap(ctxErr, "evaluation interrupted")
	}

	report := &Report{
		Images:  len(samples),
		Classes: make([]ClassStats, len(e.classes)),
	}
	for j, class := range e.classes {
		report.Classes[j].Class = class
	}
	times := make([]float64, 0, len(samples))
	for i, results := range perSample {
		for j := range results {
			report.Classes[j].Add(results[j])
		}
		times = append(times, samples[i].InferenceTime.Seconds())
	}
	if len(times) > 0 {
		report.AverageInferenceTime = time.Duration(stat.Mean(times, nil) * float64(time.Second))
	}
	return report, nil
}

func (e *Evaluator) logSample(sample Sample, results []MatchResult) {
	for j, result := range results {
		if len(result.Predictions) == 0 && len(result.GroundTruth) == 0 {
			continue
		}
		e.logger.WithFields(logrus.Fields{
			"image":       sample.ImageID,
			"class":       e.classes[j],
			"matched":     len(result.Pairs),
			"predictions": len(result.Predictions),
			"groundtruth": len(result.GroundTruth),
		}).Debug("Matched class")
		for _, det := range result.MatchedPredictions() {
			e.logger.WithFields(logrus.Fields{
				"image": sample.ImageID,
				"class": det.Class,
				"id":    det.ID,
				"score": det.Score,
				"kind":  det.Kind,
			}).Trace("True positive")
		}
	}
}
