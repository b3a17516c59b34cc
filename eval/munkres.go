package eval

import (
	"math"
)

// maxWeightAssignment solves rectangular assignment problem maximizing total weight
// (Kuhn-Munkres with row and column potentials, O(n^2 * m)).
// Returns column assigned to every row, or -1 for rows left without column.
// Rows assigned to zero-weight cells are reported as well: callers decide whether such pairs count.
func maxWeightAssignment(weights [][]float64) []int {
	numRows := len(weights)
	if numRows == 0 {
		return []int{}
	}
	numCols := len(weights[0])
	links := make([]int, numRows)
	for i := range links {
		links[i] = -1
	}
	if numCols == 0 {
		return links
	}

	// Solver needs rows <= columns
	if numRows > numCols {
		transposed := make([][]float64, numCols)
		for j := range transposed {
			transposed[j] = make([]float64, numRows)
			for i := 0; i < numRows; i++ {
				transposed[j][i] = weights[i][j]
			}
		}
		for col, row := range potentialLinks(transposed) {
			if row >= 0 {
				links[row] = col
			}
		}
		return links
	}
	return potentialLinks(weights)
}

// potentialLinks expects len(weights) <= len(weights[0]). Weights are negated, so the
// minimum-cost search gives maximum total weight.
func potentialLinks(weights [][]float64) []int {
	n := len(weights)
	m := len(weights[0])

	// 1-based indexing, column 0 is a virtual one
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	rowOf := make([]int, m+1)
	way := make([]int, m+1)
	minv := make([]float64, m+1)
	used := make([]bool, m+1)
	for i := 1; i <= n; i++ {
		rowOf[0] = i
		j0 := 0
		for j := 0; j <= m; j++ {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := rowOf[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := -weights[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[rowOf[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if rowOf[j0] == 0 {
				break
			}
		}
		// Flip augmenting path
		for j0 != 0 {
			j1 := way[j0]
			rowOf[j0] = rowOf[j1]
			j0 = j1
		}
	}

	links := make([]int, n)
	for i := range links {
		links[i] = -1
	}
	for j := 1; j <= m; j++ {
		if rowOf[j] > 0 {
			links[rowOf[j]-1] = j - 1
		}
	}
	return links
}
