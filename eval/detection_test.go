package eval

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"b'Fish'":            "Fish",
		"Fish":               "Fish",
		"b'Rays and skates'": "Rays and skates",
		"'Shark'":            "Shark",
		"":                   "",
	}
	for input, expected := range cases {
		if answer := NormalizeLabel(input); answer != expected {
			t.Errorf("Expected %q for %q, got %q", expected, input, answer)
		}
	}
}

func TestNormalizeDetections(t *testing.T) {
	raw := []Detection{
		{BBox: NewBox(0, 0, 1, 1), Class: "b'Fish'", Score: 0.9, Kind: KindPrediction},
		NewPrediction(NewBox(0, 0, 0.5, 0.5), "b'Bird'", 0.4),
	}
	keepID := raw[1].ID

	normalized, err := NormalizeDetections(raw)
	if err != nil {
		t.Fatalf("NormalizeDetections failed: %v", err)
	}
	if len(normalized) != 2 {
		t.Fatalf("Expected 2 detections, got %d", len(normalized))
	}
	if normalized[0].Class != "Fish" || normalized[1].Class != "Bird" {
		t.Errorf("Labels were not normalized: %q, %q", normalized[0].Class, normalized[1].Class)
	}
	if normalized[0].ID == uuid.Nil {
		t.Error("Detection without ID should get one")
	}
	if normalized[1].ID != keepID {
		t.Errorf("Existing ID should be kept: expected %v, got %v", keepID, normalized[1].ID)
	}
	// Input must not be mutated
	if raw[0].Class != "b'Fish'" || raw[1].Class != "b'Bird'" {
		t.Errorf("Input labels were mutated: %q, %q", raw[0].Class, raw[1].Class)
	}
}

func TestNormalizeDetectionsMalformed(t *testing.T) {
	raw := []Detection{
		NewGroundTruth(NewBox(0, 0, 1, 1), "Fish"),
		NewGroundTruth(NewBox(1, 1, 0, 0), "Fish"),
	}
	_, err := NormalizeDetections(raw)
	if err == nil {
		t.Fatal("Expected error for malformed box")
	}
	if errors.Cause(err) != ErrMalformedBox {
		t.Errorf("Expected ErrMalformedBox, got %v", err)
	}
}

func TestValidateDetectionsKeepsLabels(t *testing.T) {
	raw := []Detection{
		NewGroundTruth(NewBox(0, 0, 1, 1), "Devil's fish"),
		{BBox: NewBox(0, 0, 1, 1), Class: "b'Fish'", Score: 1.0, Kind: KindGroundTruth},
	}
	validated, err := ValidateDetections(raw)
	if err != nil {
		t.Fatalf("ValidateDetections failed: %v", err)
	}
	if validated[0].Class != "Devil's fish" || validated[1].Class != "b'Fish'" {
		t.Errorf("Labels should be kept as is, got %q and %q", validated[0].Class, validated[1].Class)
	}
	if validated[0].ID != raw[0].ID {
		t.Error("Existing ID should be kept")
	}
	if validated[1].ID == uuid.Nil {
		t.Error("Missing ID should be generated")
	}

	result := Match(nil, validated, "Devil's fish", 0.3, 0.6)
	if len(result.GroundTruth) != 1 {
		t.Errorf("Expected 1 ground truth for class with apostrophe, got %d", len(result.GroundTruth))
	}

	_, err = ValidateDetections([]Detection{NewGroundTruth(NewBox(1, 1, 0, 0), "Fish")})
	if errors.Cause(err) != ErrMalformedBox {
		t.Errorf("Expected ErrMalformedBox, got %v", err)
	}
}

func TestFilterByClass(t *testing.T) {
	dets := []Detection{
		NewPrediction(NewBox(0, 0, 1, 1), "Fish", 0.9),
		NewPrediction(NewBox(0, 0, 1, 1), "Bird", 0.9),
		NewPrediction(NewBox(0, 0, 1, 1), "Fish", 0.3),
		NewPrediction(NewBox(0, 0, 1, 1), "Fish", 0.29),
		NewPrediction(NewBox(0, 0, 2, 2), "Fish", 0.5),
	}
	filtered := FilterByClass(dets, "Fish", 0.3)
	if len(filtered) != 3 {
		t.Fatalf("Expected 3 detections, got %d", len(filtered))
	}
	// Order is preserved and threshold is inclusive
	expected := []uuid.UUID{dets[0].ID, dets[2].ID, dets[4].ID}
	for i := range expected {
		if filtered[i].ID != expected[i] {
			t.Errorf("Expected detection %v at position %d, got %v", expected[i], i, filtered[i].ID)
		}
	}
	if len(FilterByClass(dets, "Shark", 0.0)) != 0 {
		t.Error("Expected no detections for absent class")
	}
}

func TestKindString(t *testing.T) {
	if KindPrediction.String() != "prediction" || KindGroundTruth.String() != "groundtruth" || KindMatch.String() != "match" {
		t.Error("Wrong kind names")
	}
	if Kind(42).String() != "unknown" {
		t.Errorf("Expected unknown, got %s", Kind(42).String())
	}
}
