package eval

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Kind tells where detection came from
type Kind uint16

const (
	// KindPrediction is an output of detection model
	KindPrediction Kind = iota
	// KindGroundTruth is a reference annotation
	KindGroundTruth
	// KindMatch marks prediction confirmed as true positive. Used for drawing only
	KindMatch
)

func (k Kind) String() string {
	switch k {
	case KindPrediction:
		return "prediction"
	case KindGroundTruth:
		return "groundtruth"
	case KindMatch:
		return "match"
	default:
		return "unknown"
	}
}

// Detection is a labeled bounding box with confidence score
type Detection struct {
	ID    uuid.UUID
	BBox  Box
	Class string
	Score float64
	Kind  Kind
}

// NewPrediction creates detection produced by model
func NewPrediction(bbox Box, class string, score float64) Detection {
	return Detection{
		ID:    uuid.New(),
		BBox:  bbox,
		Class: class,
		Score: score,
		Kind:  KindPrediction,
	}
}

// NewGroundTruth creates reference detection. Ground truth always has score 1.0
func NewGroundTruth(bbox Box, class string) Detection {
	return Detection{
		ID:    uuid.New(),
		BBox:  bbox,
		Class: class,
		Score: 1.0,
		Kind:  KindGroundTruth,
	}
}

// NormalizeLabel strips byte-string artifacts from label, e.g. "b'Fish'" becomes "Fish"
func NormalizeLabel(label string) string {
	label = strings.ReplaceAll(label, "b'", "")
	return strings.ReplaceAll(label, "'", "")
}

// ValidateDetections returns copies of detections with checked boxes. Labels are kept as is.
// Detections without ID get a fresh one. Input slice is left untouched.
func ValidateDetections(detections []Detection) ([]Detection, error) {
	validated := make([]Detection, 0, len(detections))
	for i, det := range detections {
		if err := det.BBox.Validate(); err != nil {
			return nil, errors.Wrapf(err, "detection #%d (%s)", i, det.Class)
		}
		if det.ID == uuid.Nil {
			det.ID = uuid.New()
		}
		validated = append(validated, det)
	}
	return validated, nil
}

// NormalizeDetections is ValidateDetections plus NormalizeLabel on every label.
// Meant for model outputs: reference labels are compared raw.
func NormalizeDetections(detections []Detection) ([]Detection, error) {
	normalized, err := ValidateDetections(detections)
	if err != nil {
		return nil, err
	}
	for i := range normalized {
		normalized[i].Class = NormalizeLabel(normalized[i].Class)
	}
	return normalized, nil
}

// FilterByClass keeps detections of given class with score not less than scoreThreshold.
// Order is preserved.
func FilterByClass(detections []Detection, class string, scoreThreshold float64) []Detection {
	filtered := make([]Detection, 0)
	for _, det := range detections {
		if det.Class == class && det.Score >= scoreThreshold {
			filtered = append(filtered, det)
		}
	}
	return filtered
}
