package eval

import (
	"time"
)

// ClassStats accumulates true positives and denominators for one class over many images
type ClassStats struct {
	Class       string `json:"class"`
	Matched     int    `json:"matched"`
	Predictions int    `json:"predictions"`
	GroundTruth int    `json:"groundtruth"`
}

// Add accumulates single match result
func (s *ClassStats) Add(result MatchResult) {
	s.Matched += len(result.Pairs)
	s.Predictions += len(result.Predictions)
	s.GroundTruth += len(result.GroundTruth)
}

// Precision returns matched / predictions. Second value is false when there are no predictions
func (s ClassStats) Precision() (float64, bool) {
	if s.Predictions == 0 {
		return 0, false
	}
	return float64(s.Matched) / float64(s.Predictions), true
}

// Recall returns matched / ground truth. Second value is false when there is no ground truth
func (s ClassStats) Recall() (float64, bool) {
	if s.GroundTruth == 0 {
		return 0, false
	}
	return float64(s.Matched) / float64(s.GroundTruth), true
}

// F1 returns harmonic mean of precision and recall. Second value is false when either is undefined
func (s ClassStats) F1() (float64, bool) {
	precision, okP := s.Precision()
	recall, okR := s.Recall()
	if !okP || !okR {
		return 0, false
	}
	if precision+recall == 0 {
		return 0, true
	}
	return 2 * precision * recall / (precision + recall), true
}

// Reportable is true when both precision and recall are defined
func (s ClassStats) Reportable() bool {
	return s.Predictions != 0 && s.GroundTruth != 0
}

// Report is the outcome of evaluation over a set of images
type Report struct {
	Images               int           `json:"images"`
	Classes              []ClassStats  `json:"classes"`
	AverageInferenceTime time.Duration `json:"average_inference_time"`
}

// Reportable returns classes which have both predictions and ground truth
func (r *Report) Reportable() []ClassStats {
	reportable := make([]ClassStats, 0, len(r.Classes))
	for _, s := range r.Classes {
		if s.Reportable() {
			reportable = append(reportable, s)
		}
	}
	return reportable
}

// Class returns stats for given class
func (r *Report) Class(class string) (ClassStats, bool) {
	for _, s := range r.Classes {
		if s.Class == class {
			return s, true
		}
	}
	return ClassStats{}, false
}
