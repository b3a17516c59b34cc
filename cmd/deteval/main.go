package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/LdDl/det-eval/dataset"
	"github.com/LdDl/det-eval/eval"
	formatter "github.com/antonfisher/nested-logrus-formatter"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		logger.WithError(err).Error("Evaluation failed")
		stop()
		os.Exit(1)
	}
}

func newLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&formatter.Formatter{
		NoColors:        false,
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		FieldsOrder:     []string{"image", "class", "matched", "predictions", "groundtruth"},
	})
	return logger
}

func run(ctx context.Context, cfg *Config, logger logrus.FieldLogger, out io.Writer) error {
	images, err := dataset.LoadCOCO(cfg.Folders, cfg.Classes)
	if err != nil {
		return err
	}
	predictions, err := dataset.LoadPredictions(cfg.Predictions)
	if err != nil {
		return err
	}
	samples, err := dataset.Samples(images, predictions)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"images":      len(images),
		"predictions": len(predictions),
		"algorithm":   cfg.Algorithm.String(),
	}).Info("Dataset loaded")

	matcher := eval.NewMatcher(cfg.ScoreThreshold, cfg.IoUThreshold, cfg.Algorithm)
	evaluator := eval.NewEvaluator(matcher, cfg.Classes, eval.WithWorkers(cfg.Workers), eval.WithLogger(logger))
	report, err := evaluator.Evaluate(ctx, samples)
	if err != nil {
		return err
	}

	if cfg.JSON {
		return writeJSONReport(out, report)
	}
	writeTextReport(out, report)
	return nil
}

// roundedString rounds v to given number of decimals and always keeps a fractional part: 1 gives "1.0"
func roundedString(v float64, decimals int) string {
	p := math.Pow(10, float64(decimals))
	s := strconv.FormatFloat(math.Round(v*p)/p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// writeTextReport prints lines like "Fish:  Precision =  1.0   Recall =  0.5"
func writeTextReport(out io.Writer, report *eval.Report) {
	for _, s := range report.Reportable() {
		precision, _ := s.Precision()
		recall, _ := s.Recall()
		fmt.Fprintf(out, "%s:  Precision =  %s   Recall =  %s\n", s.Class, roundedString(precision, 3), roundedString(recall, 3))
	}
	if report.Images > 0 {
		fmt.Fprintf(out, "Average time %s sec\n", roundedString(report.AverageInferenceTime.Seconds(), 2))
	}
}

type jsonClass struct {
	eval.ClassStats
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

type jsonReport struct {
	Images                int         `json:"images"`
	AverageInferenceTimeS float64     `json:"average_inference_time_seconds"`
	Classes               []jsonClass `json:"classes"`
}

func writeJSONReport(out io.Writer, report *eval.Report) error {
	r := jsonReport{
		Images:                report.Images,
		AverageInferenceTimeS: report.AverageInferenceTime.Seconds(),
		Classes:               make([]jsonClass, 0, len(report.Classes)),
	}
	for _, s := range report.Reportable() {
		c := jsonClass{ClassStats: s}
		c.Precision, _ = s.Precision()
		c.Recall, _ = s.Recall()
		c.F1, _ = s.F1()
		r.Classes = append(r.Classes, c)
	}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "can't encode report")
	}
	return nil
}
