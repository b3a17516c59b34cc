package eval

// Pair is a confirmed true positive: prediction matched to ground truth
type Pair struct {
	Prediction  Detection
	GroundTruth Detection
	IoU         float64
}

// MatchResult holds matched pairs for a single class together with the filtered
// candidate lists. Filtered lists are denominators for precision and recall.
type MatchResult struct {
	Pairs       []Pair
	Predictions []Detection
	GroundTruth []Detection
}

// MatchedPredictions returns copies of matched predictions marked as KindMatch
func (r MatchResult) MatchedPredictions() []Detection {
	matched := make([]Detection, 0, len(r.Pairs))
	for _, pair := range r.Pairs {
		det := pair.Prediction
		det.Kind = KindMatch
		matched = append(matched, det)
	}
	return matched
}

// Matcher assigns predictions to ground truth within a single class.
type Matcher struct {
	// Minimum confidence (inclusive) for detection to be considered
	scoreThreshold float64
	// Minimum IoU (inclusive) for pair to be accepted
	iouThreshold float64
	// Assignment algorithm
	strategy Strategy
}

// DefaultMatcher creates a Matcher with default parameters.
// Default values: scoreThreshold=0.3, iouThreshold=0.6, greedy assignment
func DefaultMatcher() *Matcher {
	return &Matcher{
		scoreThreshold: 0.3,
		iouThreshold:   0.6,
		strategy:       GreedyStrategy{},
	}
}

// NewMatcher creates a new instance of Matcher with specified parameters.
func NewMatcher(scoreThreshold, iouThreshold float64, algorithm MatchingAlgorithm) *Matcher {
	return NewMatcherWithStrategy(scoreThreshold, iouThreshold, NewStrategy(algorithm))
}

// NewMatcherWithStrategy creates a new instance of Matcher with custom assignment strategy.
func NewMatcherWithStrategy(scoreThreshold, iouThreshold float64, strategy Strategy) *Matcher {
	if strategy == nil {
		strategy = GreedyStrategy{}
	}
	return &Matcher{
		scoreThreshold: scoreThreshold,
		iouThreshold:   iouThreshold,
		strategy:       strategy,
	}
}

// ScoreThreshold returns minimum confidence for detection to be considered
func (m *Matcher) ScoreThreshold() float64 {
	return m.scoreThreshold
}

// IoUThreshold returns minimum IoU for pair to be accepted
func (m *Matcher) IoUThreshold() float64 {
	return m.iouThreshold
}

// Match filters both lists down to given class and score threshold, then assigns predictions
// to ground truth one-to-one. Labels are compared as is: normalize them at ingestion
// (see NormalizeDetections). Inputs are not modified.
func (m *Matcher) Match(predictions, groundtruth []Detection, class string) MatchResult {
	classPredictions := FilterByClass(predictions, class, m.scoreThreshold)
	classGroundtruth := FilterByClass(groundtruth, class, m.scoreThreshold)

	// Rows = predictions, columns = ground truth
	iouMatrix := createIoUMatrix(classPredictions, classGroundtruth)
	assignments := m.strategy.Assign(iouMatrix, m.iouThreshold)

	pairs := make([]Pair, 0, len(assignments))
	for _, a := range assignments {
		pairs = append(pairs, Pair{
			Prediction:  classPredictions[a[0]],
			GroundTruth: classGroundtruth[a[1]],
			IoU:         iouMatrix[a[0]][a[1]],
		})
	}
	return MatchResult{
		Pairs:       pairs,
		Predictions: classPredictions,
		GroundTruth: classGroundtruth,
	}
}

// Match is a shortcut for greedy matching with given thresholds
func Match(predictions, groundtruth []Detection, class string, scoreThreshold, iouThreshold float64) MatchResult {
	return NewMatcher(scoreThreshold, iouThreshold, MatchingAlgorithmGreedy).Match(predictions, groundtruth, class)
}

// createIoUMatrix is helper function to create IoU matrix.
// Rows are predictions, columns are ground truth.
func createIoUMatrix(predictions, groundtruth []Detection) [][]float64 {
	iouMatrix := make([][]float64, len(predictions))
	for i, pred := range predictions {
		row := make([]float64, len(groundtruth))
		for j, gt := range groundtruth {
			row[j] = IoU(pred.BBox, gt.BBox)
		}
		iouMatrix[i] = row
	}
	return iouMatrix
}
