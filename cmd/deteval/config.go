package main

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/LdDl/det-eval/eval"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const envPrefix = "DETEVAL_"

var defaultClasses = []string{"Fish", "Jellyfish", "Penguin", "Bird", "Shark", "Starfish", "Rays and skates"}

// Config is run configuration of the evaluation
type Config struct {
	Folders        []string
	Classes        []string
	Predictions    string
	ScoreThreshold float64
	IoUThreshold   float64
	Algorithm      eval.MatchingAlgorithm
	Workers        int
	JSON           bool
	LogLevel       logrus.Level
}

// loadConfig reads .env (if present), then environment, then command line flags.
// Each next source overrides the previous one.
func loadConfig(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrap(err, "can't load .env")
	}

	fs := flag.NewFlagSet("deteval", flag.ContinueOnError)
	folders := fs.String("folders", envString("FOLDERS", "data/train,data/test,data/valid"), "Comma-separated dataset folders with _annotations.coco.json")
	classes := fs.String("classes", envString("CLASSES", strings.Join(defaultClasses, ",")), "Comma-separated classes to evaluate")
	predictions := fs.String("predictions", envString("PREDICTIONS", "predictions.json"), "Path to model outputs")
	scoreThreshold := fs.Float64("score-threshold", envFloat("SCORE_THRESHOLD", 0.3), "Minimum detection score (inclusive)")
	iouThreshold := fs.Float64("iou-threshold", envFloat("IOU_THRESHOLD", 0.6), "Minimum IoU to accept a match (inclusive)")
	algorithm := fs.String("algorithm", envString("ALGORITHM", eval.MatchingAlgorithmGreedy.String()), "Matching algorithm: greedy or hungarian")
	workers := fs.Int("workers", envInt("WORKERS", 1), "Number of images processed concurrently")
	jsonOut := fs.Bool("json", envBool("JSON", false), "Print report as JSON")
	logLevel := fs.String("log-level", envString("LOG_LEVEL", "info"), "Log level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Folders:        splitList(*folders),
		Classes:        splitList(*classes),
		Predictions:    *predictions,
		ScoreThreshold: *scoreThreshold,
		IoUThreshold:   *iouThreshold,
		Workers:        *workers,
		JSON:           *jsonOut,
	}
	switch strings.ToLower(*algorithm) {
	case eval.MatchingAlgorithmGreedy.String():
		cfg.Algorithm = eval.MatchingAlgorithmGreedy
	case eval.MatchingAlgorithmHungarian.String():
		cfg.Algorithm = eval.MatchingAlgorithmHungarian
	default:
		return nil, errors.Errorf("unknown matching algorithm '%s'", *algorithm)
	}
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		return nil, errors.Wrap(err, "bad log level")
	}
	cfg.LogLevel = level
	if len(cfg.Folders) == 0 {
		return nil, errors.New("no dataset folders given")
	}
	if len(cfg.Classes) == 0 {
		return nil, errors.New("no classes given")
	}
	return cfg, nil
}

func splitList(s string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(envString(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(envString(key, "")); err == nil {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(envString(key, "")); err == nil {
		return v
	}
	return fallback
}
