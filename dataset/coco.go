// Package dataset loads ground truth annotations and model outputs into eval.Detection records.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/LdDl/det-eval/eval"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// COCOAnnotationsFile is the annotation file expected in every dataset folder
const COCOAnnotationsFile = "_annotations.coco.json"

var (
	// ErrUnknownImage is returned when annotation references image missing in the file
	ErrUnknownImage = errors.New("unknown image")
	// ErrUnknownCategory is returned when annotation category can not be resolved to a class name
	ErrUnknownCategory = errors.New("unknown category")
)

// Image is a single annotated image
type Image struct {
	Key         string
	Path        string
	Width       int
	Height      int
	GroundTruth []eval.Detection
}

type cocoFile struct {
	Images      []cocoImage      `json:"images"`
	Annotations []cocoAnnotation `json:"annotations"`
	Categories  []cocoCategory   `json:"categories"`
}

type cocoImage struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type cocoAnnotation struct {
	ID         int64      `json:"id"`
	ImageID    int64      `json:"image_id"`
	CategoryID int        `json:"category_id"`
	BBox       [4]float64 `json:"bbox"`
}

type cocoCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ImageKey builds key identifying image across folders
func ImageKey(folder string, imageID int64) string {
	return fmt.Sprintf("%s_%d", folder, imageID)
}

// LoadCOCO reads COCO annotation files from given folders.
// Boxes are normalized by image size. Class name is taken from file's categories when the
// category is listed there and is one of classes; otherwise classes[category_id-1] is used.
func LoadCOCO(folders []string, classes []string) (map[string]*Image, error) {
	images := make(map[string]*Image)
	for _, folder := range folders {
		err := loadCOCOFolder(folder, classes, images)
		if err != nil {
			return nil, errors.Wrapf(err, "can't load annotations from '%s'", folder)
		}
	}
	return images, nil
}

func loadCOCOFolder(folder string, classes []string, images map[string]*Image) error {
	data, err := os.ReadFile(filepath.Join(folder, COCOAnnotationsFile))
	if err != nil {
		return errors.Wrap(err, "can't read file")
	}
	var file cocoFile
	if err := json.Unmarshal(data, &file); err != nil {
		return errors.Wrap(err, "can't decode file")
	}

	known := make(map[string]struct{}, len(classes))
	for _, class := range classes {
		known[class] = struct{}{}
	}
	categories := make(map[int]string, len(file.Categories))
	for _, cat := range file.Categories {
		if _, ok := known[cat.Name]; ok {
			categories[cat.ID] = cat.Name
		}
	}

	for _, img := range file.Images {
		key := ImageKey(folder, img.ID)
		images[key] = &Image{
			Key:         key,
			Path:        filepath.Join(folder, img.FileName),
			Width:       img.Width,
			Height:      img.Height,
			GroundTruth: make([]eval.Detection, 0),
		}
	}

	for _, ann := range file.Annotations {
		key := ImageKey(folder, ann.ImageID)
		img, ok := images[key]
		if !ok {
			return errors.Wrapf(ErrUnknownImage, "annotation %d references image %d", ann.ID, ann.ImageID)
		}
		if img.Width <= 0 || img.Height <= 0 {
			return errors.Errorf("image %d has invalid size %dx%d", ann.ImageID, img.Width, img.Height)
		}
		class, ok := categories[ann.CategoryID]
		if !ok {
			if ann.CategoryID < 1 || ann.CategoryID > len(classes) {
				return errors.Wrapf(ErrUnknownCategory, "annotation %d has category %d", ann.ID, ann.CategoryID)
			}
			class = classes[ann.CategoryID-1]
		}
		rect := eval.NewRect(ann.BBox[0], ann.BBox[1], ann.BBox[2], ann.BBox[3])
		box := rect.Normalized(float64(img.Width), float64(img.Height))
		img.GroundTruth = append(img.GroundTruth, eval.NewGroundTruth(box, class))
	}
	return nil
}
