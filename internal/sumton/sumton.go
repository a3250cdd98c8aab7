// Package sumton computes 1 + 2 + ... + n three different ways.
package sumton

import (
	"errors"
	"fmt"
)

// Input bounds.
const (
	// MaxN is the largest n whose sum fits in a 64-bit int.
	MaxN = 1<<32 - 1
	// MaxRecursiveN caps the recursion depth of Recursive.
	MaxRecursiveN = 1_000_000
)

// ErrNegative is returned for n < 0.
var ErrNegative = errors.New("sumton: n must not be negative")

// ErrTooLarge is returned when n is above a variant's bound.
var ErrTooLarge = errors.New("sumton: n too large")

func check(n, max int) error {
	if n < 0 {
		return ErrNegative
	}
	if n > max {
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, n, max)
	}
	return nil
}

// Recursive sums by recursion. O(n) time, O(n) stack.
func Recursive(n int) (int, error) {
	if err := check(n, MaxRecursiveN); err != nil {
		return 0, err
	}
	return recurse(n), nil
}

func recurse(n int) int {
	if n <= 1 {
		return n
	}
	return n + recurse(n-1)
}

// Iterative sums with a loop. O(n) time, O(1) space.
func Iterative(n int) (int, error) {
	if err := check(n, MaxN); err != nil {
		return 0, err
	}
	total := 0
	for i := 1; i <= n; i++ {
		total += i
	}
	return total, nil
}

// Formula uses n(n+1)/2. O(1). The even factor is halved first so the
// product never exceeds the result.
func Formula(n int) (int, error) {
	if err := check(n, MaxN); err != nil {
		return 0, err
	}
	if n%2 == 0 {
		return (n / 2) * (n + 1), nil
	}
	return n * ((n + 1) / 2), nil
}

// Variant names one implementation.
type Variant struct {
	Name string
	Fn   func(int) (int, error)
}

// Variants lists every implementation in a stable order.
func Variants() []Variant {
	return []Variant{
		{Name: "recursive", Fn: Recursive},
		{Name: "iterative", Fn: Iterative},
		{Name: "formula", Fn: Formula},
	}
}
