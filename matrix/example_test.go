package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/shmmul/matrix"
)

// ExampleMul demonstrates the sequential baseline product.
func ExampleMul() {
	A, _ := matrix.FromRows([][]float64{{1, 2}, {3, 4}})
	B, _ := matrix.FromRows([][]float64{{5, 6}, {7, 8}})

	C, err := matrix.Mul(A, B)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(C)

	// Output:
	// [19, 22]
	// [43, 50]
}

// ExampleMulRows fills the result in two disjoint row ranges.
func ExampleMulRows() {
	A, _ := matrix.FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	B, _ := matrix.FromRows([][]float64{{1, 0}, {0, 1}})
	C, _ := matrix.NewDense(3, 2)

	_ = matrix.MulRows(C, A, B, 0, 2) // first worker
	_ = matrix.MulRows(C, A, B, 2, 3) // second worker
	fmt.Print(C)

	// Output:
	// [1, 2]
	// [3, 4]
	// [5, 6]
}
