package dataset

import (
	"os"
	"time"

	"github.com/LdDl/det-eval/eval"
	"github.com/pkg/errors"
)

// BBoxOrder is coordinate order of boxes in predictions file
type BBoxOrder string

const (
	// BBoxOrderYXYX is [ymin, xmin, ymax, xmax], the order of TF object detection API
	BBoxOrderYXYX = BBoxOrder("yxyx")
	// BBoxOrderXYXY is [xmin, ymin, xmax, ymax]
	BBoxOrderXYXY = BBoxOrder("xyxy")
)

// PredictionSet is model output for one image
type PredictionSet struct {
	Key           string
	Detections    []eval.Detection
	InferenceTime time.Duration
}

type predictionsFile struct {
	BBoxOrder BBoxOrder         `json:"bbox_order"`
	Images    []predictionImage `json:"images"`
}

type predictionImage struct {
	Key              string           `json:"key"`
	InferenceSeconds float64          `json:"inference_seconds"`
	Detections       []predictionItem `json:"detections"`
}

type predictionItem struct {
	BBox  [4]float64 `json:"bbox"`
	Score float64    `json:"score"`
	Class string     `json:"class"`
}

// LoadPredictions reads model outputs from JSON file. Class labels are kept raw,
// they are normalized when samples are built.
func LoadPredictions(path string) (map[string]*PredictionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read predictions file '%s'", path)
	}
	return ParsePredictions(data)
}

// ParsePredictions decodes predictions file contents
func ParsePredictions(data []byte) (map[string]*PredictionSet, error) {
	var file predictionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "can't decode predictions")
	}
	order := file.BBoxOrder
	if order == "" {
		order = BBoxOrderYXYX
	}
	if order != BBoxOrderYXYX && order != BBoxOrderXYXY {
		return nil, errors.Errorf("unsupported bbox order '%s'", order)
	}

	sets := make(map[string]*PredictionSet, len(file.Images))
	for _, img := range file.Images {
		if _, ok := sets[img.Key]; ok {
			return nil, errors.Errorf("duplicate image key '%s'", img.Key)
		}
		set := &PredictionSet{
			Key:           img.Key,
			Detections:    make([]eval.Detection, 0, len(img.Detections)),
			InferenceTime: time.Duration(img.InferenceSeconds * float64(time.Second)),
		}
		for _, item := range img.Detections {
			var box eval.Box
			if order == BBoxOrderYXYX {
				box = eval.BoxFromYXYX(item.BBox)
			} else {
				box = eval.NewBox(item.BBox[0], item.BBox[1], item.BBox[2], item.BBox[3])
			}
			set.Detections = append(set.Detections, eval.NewPrediction(box, item.Class, item.Score))
		}
		sets[img.Key] = set
	}
	return sets, nil
}
