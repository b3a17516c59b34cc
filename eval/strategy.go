package eval

// MatchingAlgorithm is for algorithm type for matching predictions to ground truth
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmGreedy commits the highest-IoU available pair first and never revisits it
	MatchingAlgorithmGreedy MatchingAlgorithm = iota
	// MatchingAlgorithmHungarian uses the Hungarian algorithm (Kuhn-Munkres) for maximum-weight assignment
	MatchingAlgorithmHungarian
)

func (alg MatchingAlgorithm) String() string {
	switch alg {
	case MatchingAlgorithmGreedy:
		return "greedy"
	case MatchingAlgorithmHungarian:
		return "hungarian"
	default:
		return "unknown"
	}
}

// Strategy assigns rows (predictions) to columns (ground truth) of IoU matrix.
// Every returned pair {row, col} must satisfy iouMatrix[row][col] >= minIoU,
// and no row or column may appear twice.
type Strategy interface {
	Assign(iouMatrix [][]float64, minIoU float64) [][2]int
}

// NewStrategy returns strategy for given algorithm. Unknown values fall back to greedy
func NewStrategy(alg MatchingAlgorithm) Strategy {
	switch alg {
	case MatchingAlgorithmHungarian:
		return HungarianStrategy{}
	default:
		return GreedyStrategy{}
	}
}

// GreedyStrategy scans all pairs by descending IoU and claims a pair if both sides are still free.
// Ties are resolved in generation order (row-major).
type GreedyStrategy struct{}

func (GreedyStrategy) Assign(iouMatrix [][]float64, minIoU float64) [][2]int {
	matches := make([][2]int, 0)
	if len(iouMatrix) == 0 {
		return matches
	}
	pq := make(candidateHeap, 0, len(iouMatrix)*len(iouMatrix[0]))
	seq := 0
	for i, row := range iouMatrix {
		for j, iouVal := range row {
			pq.Push(&candidate{
				predIdx: i,
				gtIdx:   j,
				iou:     iouVal,
				seq:     seq,
			})
			seq++
		}
	}

	usedRows := make(map[int]struct{})
	usedCols := make(map[int]struct{})
	for pq.Len() > 0 {
		c := pq.Pop()
		if _, ok := usedRows[c.predIdx]; ok {
			continue
		}
		if _, ok := usedCols[c.gtIdx]; ok {
			continue
		}
		// Low pairs are skipped, but scan goes on
		if c.iou < minIoU {
			continue
		}
		matches = append(matches, [2]int{c.predIdx, c.gtIdx})
		usedRows[c.predIdx] = struct{}{}
		usedCols[c.gtIdx] = struct{}{}
	}
	return matches
}

// HungarianStrategy finds assignment maximizing total IoU over pairs passing minIoU.
// Output is ordered by row index.
type HungarianStrategy struct{}

func (HungarianStrategy) Assign(iouMatrix [][]float64, minIoU float64) [][2]int {
	matches := make([][2]int, 0)
	numRows := len(iouMatrix)
	if numRows == 0 {
		return matches
	}
	numCols := len(iouMatrix[0])
	if numCols == 0 {
		return matches
	}

	// Pairs under threshold get zero weight, so they can not steal a row or column from a valid pair
	weights := make([][]float64, numRows)
	for i := 0; i < numRows; i++ {
		weights[i] = make([]float64, numCols)
		for j := 0; j < numCols; j++ {
			if iouMatrix[i][j] >= minIoU {
				weights[i][j] = iouMatrix[i][j]
			}
		}
	}

	for rowIdx, colIdx := range maxWeightAssignment(weights) {
		if colIdx < 0 {
			continue
		}
		// Zero IoU is never a match even with zero threshold: it is filler weight
		if weights[rowIdx][colIdx] <= 0 {
			continue
		}
		matches = append(matches, [2]int{rowIdx, colIdx})
	}
	return matches
}
