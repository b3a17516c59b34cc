package dataset

import (
	"sort"

	"github.com/LdDl/det-eval/eval"
	"github.com/pkg/errors"
)

// Samples joins annotated images with model outputs by image key. Both sides are validated,
// but only prediction labels are normalized: annotation labels are compared as they are.
// Images without predictions get empty prediction list. Predictions for images missing in
// annotations are an error. Samples are ordered by key.
func Samples(images map[string]*Image, predictions map[string]*PredictionSet) ([]eval.Sample, error) {
	for key := range predictions {
		if _, ok := images[key]; !ok {
			return nil, errors.Wrapf(ErrUnknownImage, "predictions for '%s'", key)
		}
	}

	keys := make([]string, 0, len(images))
	for key := range images {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	samples := make([]eval.Sample, 0, len(keys))
	for _, key := range keys {
		groundtruth, err := eval.ValidateDetections(images[key].GroundTruth)
		if err != nil {
			return nil, errors.Wrapf(err, "bad ground truth for '%s'", key)
		}
		sample := eval.Sample{
			ImageID:     key,
			GroundTruth: groundtruth,
			Predictions: []eval.Detection{},
		}
		if set, ok := predictions[key]; ok {
			predicted, err := eval.NormalizeDetections(set.Detections)
			if err != nil {
				return nil, errors.Wrapf(err, "bad predictions for '%s'", key)
			}
			sample.Predictions = predicted
			sample.InferenceTime = set.InferenceTime
		}
		samples = append(samples, sample)
	}
	return samples, nil
}
