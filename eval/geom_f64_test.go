package eval

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

const (
	eps = 0.00001
)

func TestIntervalOverlap(t *testing.T) {
	cases := []struct {
		aFrom, aTo, bFrom, bTo float64
		expected               float64
	}{
		{0, 10, 2, 5, 3},    // A contains B
		{2, 5, 0, 10, 3},    // B contains A
		{0, 5, 3, 10, 2},    // A overlaps start of B
		{3, 10, 0, 5, 2},    // B overlaps start of A
		{0, 1, 2, 3, 0},     // disjoint
		{2, 3, 0, 1, 0},     // disjoint, reversed
		{0, 1, 1, 2, 0},     // touching
		{-3, 2, 0, 0.5, 0.5},
		{0, 0, 0, 0, 0},
	}
	for _, c := range cases {
		answer := IntervalOverlap(c.aFrom, c.aTo, c.bFrom, c.bTo)
		if math.Abs(answer-c.expected) > eps {
			t.Errorf("Wrong answer for [%v, %v] and [%v, %v]: %v, correct answer: %v", c.aFrom, c.aTo, c.bFrom, c.bTo, answer, c.expected)
		}
		swapped := IntervalOverlap(c.bFrom, c.bTo, c.aFrom, c.aTo)
		if math.Abs(answer-swapped) > eps {
			t.Errorf("Overlap should be symmetric: %v vs %v", answer, swapped)
		}
	}
}

func TestBoxOverlap(t *testing.T) {
	b1 := NewBox(0, 0, 100, 100)
	b2 := NewBox(50, 50, 150, 150)
	correctAnswer := 2500.0
	answer := BoxOverlap(b1, b2)
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}
	if math.Abs(BoxOverlap(b2, b1)-answer) > eps {
		t.Errorf("Box overlap should be symmetric")
	}
	// Overlap on one axis only
	if BoxOverlap(NewBox(0, 0, 1, 1), NewBox(0.5, 2, 1.5, 3)) != 0 {
		t.Errorf("Expected zero overlap for boxes separated along Y")
	}
}

func TestIoU(t *testing.T) {
	b1 := NewBox(0, 0, 100, 100)
	b2 := NewBox(50, 50, 150, 150)
	// 2500 / (10000 + 10000 - 2500)
	correctAnswer := 2500.0 / 17500.0
	answer := IoU(b1, b2)
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}
	if math.Abs(IoU(b2, b1)-answer) > eps {
		t.Errorf("IoU should be symmetric")
	}
}

func TestIoUSelf(t *testing.T) {
	boxes := []Box{
		NewBox(0, 0, 1, 1),
		NewBox(0.6362368, 0.62010753, 0.8589742, 0.66686994),
		NewBox(-5, -5, 10, 3),
	}
	for _, b := range boxes {
		if math.Abs(IoU(b, b)-1.0) > eps {
			t.Errorf("Expected IoU 1.0 for %v with itself, got %v", b, IoU(b, b))
		}
	}
}

func TestIoUDisjoint(t *testing.T) {
	answer := IoU(NewBox(0, 0, 1, 1), NewBox(2, 2, 3, 3))
	if answer != 0 {
		t.Errorf("Expected IoU 0 for disjoint boxes, got %v", answer)
	}
}

func TestIoUZeroArea(t *testing.T) {
	// Both boxes degenerate: union is zero, IoU is defined as 0
	p := NewBox(1, 1, 1, 1)
	answer := IoU(p, p)
	if answer != 0 {
		t.Errorf("Expected IoU 0 for zero-area boxes, got %v", answer)
	}
	if math.IsNaN(answer) {
		t.Error("IoU must not be NaN for zero-area boxes")
	}
	// Degenerate box inside a regular one
	answer = IoU(NewBox(0.5, 0.5, 0.5, 0.8), NewBox(0, 0, 1, 1))
	if answer != 0 {
		t.Errorf("Expected IoU 0 for line box, got %v", answer)
	}
}

func TestBoxValidate(t *testing.T) {
	if err := NewBox(0, 0, 1, 1).Validate(); err != nil {
		t.Errorf("Expected valid box, got %v", err)
	}
	if err := NewBox(0, 0, 0, 0).Validate(); err != nil {
		t.Errorf("Zero-area box should be valid, got %v", err)
	}
	malformed := []Box{
		NewBox(1, 0, 0, 1),
		NewBox(0, 1, 1, 0),
		NewBox(math.NaN(), 0, 1, 1),
		NewBox(0, 0, math.Inf(1), 1),
	}
	for _, b := range malformed {
		err := b.Validate()
		if err == nil {
			t.Errorf("Expected error for %v", b)
			continue
		}
		if errors.Cause(err) != ErrMalformedBox {
			t.Errorf("Expected ErrMalformedBox, got %v", err)
		}
	}
}

func TestBoxFromYXYX(t *testing.T) {
	b := BoxFromYXYX([4]float64{0.1, 0.2, 0.3, 0.4})
	expected := Box{X1: 0.2, Y1: 0.1, X2: 0.4, Y2: 0.3}
	if b != expected {
		t.Errorf("Expected box %v, got %v", expected, b)
	}
}

func TestRectangleNormalized(t *testing.T) {
	r := NewRect(64, 128, 32, 64)
	b := r.Normalized(640, 512)
	expected := Box{X1: 0.1, Y1: 0.25, X2: 0.15, Y2: 0.375}
	if math.Abs(b.X1-expected.X1) > eps || math.Abs(b.Y1-expected.Y1) > eps ||
		math.Abs(b.X2-expected.X2) > eps || math.Abs(b.Y2-expected.Y2) > eps {
		t.Errorf("Expected box %v, got %v", expected, b)
	}
}
