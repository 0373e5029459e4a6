package domain

import "slices"

// Center is the wildcard cell: it reaches, and is reachable from, every cell.
const Center = 4

// adjacency lists orthogonal neighbours on the 3x3 grid.
var adjacency = [9][]int{
	0: {1, 3},
	1: {0, 2, 4},
	2: {1, 5},
	3: {0, 4, 6},
	4: {1, 3, 5, 7},
	5: {2, 4, 8},
	6: {3, 7},
	7: {4, 6, 8},
	8: {5, 7},
}

var lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// ValidDestinations returns, in ascending order, the empty cells a piece on
// from may move to. The centre piece may jump to any empty cell, and any
// piece may step onto an empty centre.
func ValidDestinations(b Board, from int) []int {
	if from < 0 || from >= len(b) {
		return nil
	}
	var out []int
	for i, c := range b {
		if i == from || c != Empty {
			continue
		}
		if from == Center || i == Center || slices.Contains(adjacency[from], i) {
			out = append(out, i)
		}
	}
	return out
}

// Winner returns the mark owning a completed line, or Empty.
func Winner(b Board) Cell {
	for _, ln := range lines {
		if c := b[ln[0]]; c != Empty && b[ln[1]] == c && b[ln[2]] == c {
			return c
		}
	}
	return Empty
}
