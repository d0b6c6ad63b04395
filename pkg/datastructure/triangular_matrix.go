package datastructure

import (
	"fmt"

	"github.com/lintang-b-s/vrptour/pkg/util"
	"golang.org/x/exp/constraints"
)

/*
TriangularMatrix stores one value per unordered pair {i,j} of an n×n symmetric relation, i.e. the upper triangle
including the diagonal: n(n+1)/2 values instead of n².
Row i starts at rowPtr(i) = i*n - i*(i-1)/2 and holds the values for j in [i, n).
A pair (i,j) with j < i is normalised to (j,i).

In diagonal-only mode only the n values (i,i) are allocated; reading or writing an off-diagonal pair panics.
*/
type TriangularMatrix[T constraints.Integer | constraints.Float] struct {
	n            int
	vals         []T
	diagonalOnly bool
}

func NewTriangularMatrix[T constraints.Integer | constraints.Float](n int, diagonalOnly bool) *TriangularMatrix[T] {
	size := n * (n + 1) / 2
	if diagonalOnly {
		size = n
	}
	return &TriangularMatrix[T]{
		n:            n,
		vals:         make([]T, size),
		diagonalOnly: diagonalOnly,
	}
}

func (tm *TriangularMatrix[T]) Size() int {
	return tm.n
}

func (tm *TriangularMatrix[T]) IsDiagonalOnly() bool {
	return tm.diagonalOnly
}

func (tm *TriangularMatrix[T]) index(i, j int) int {
	if j < i {
		i, j = j, i
	}
	util.AssertPanic(i >= 0 && j < tm.n, fmt.Sprintf("triangular matrix: pair (%d,%d) out of range [0,%d)", i, j, tm.n))
	if tm.diagonalOnly {
		util.AssertPanic(i == j, fmt.Sprintf("triangular matrix: pair (%d,%d) is not stored in diagonal-only mode", i, j))
		return i
	}
	return i*tm.n - i*(i-1)/2 + (j - i)
}

func (tm *TriangularMatrix[T]) Get(i, j int) T {
	return tm.vals[tm.index(i, j)]
}

func (tm *TriangularMatrix[T]) Set(i, j int, val T) {
	tm.vals[tm.index(i, j)] = val
}

func (tm *TriangularMatrix[T]) Fill(val T) {
	for k := range tm.vals {
		tm.vals[k] = val
	}
}

// FillRow sets every stored pair (i, j), j >= i.
func (tm *TriangularMatrix[T]) FillRow(i int, val T) {
	if tm.diagonalOnly {
		tm.vals[tm.index(i, i)] = val
		return
	}
	start := tm.index(i, i)
	end := start + (tm.n - i)
	for k := start; k < end; k++ {
		tm.vals[k] = val
	}
}

func (tm *TriangularMatrix[T]) Clone() *TriangularMatrix[T] {
	vals := make([]T, len(tm.vals))
	copy(vals, tm.vals)
	return &TriangularMatrix[T]{n: tm.n, vals: vals, diagonalOnly: tm.diagonalOnly}
}

// CopyFrom overwrites the values with those of a matrix of the same shape.
func (tm *TriangularMatrix[T]) CopyFrom(other *TriangularMatrix[T]) {
	util.AssertPanic(tm.n == other.n && tm.diagonalOnly == other.diagonalOnly,
		"triangular matrix: cannot copy from a matrix of a different shape")
	copy(tm.vals, other.vals)
}
