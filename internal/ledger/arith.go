package ledger

import "golang.org/x/exp/constraints"

// OAdd returns a+b and reports whether the sum no longer fits in T.
func OAdd[T constraints.Unsigned](a, b T) (T, bool) {
	sum := a + b
	return sum, sum < a
}

// OSub returns a-b and reports whether b was larger than a.
func OSub[T constraints.Unsigned](a, b T) (T, bool) {
	return a - b, b > a
}

// OMul returns a*b, or zero and true when the product does not fit in T.
func OMul[T constraints.Unsigned](a, b T) (T, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	product := a * b
	if product/b != a {
		return 0, true
	}
	return product, false
}

// WrappingAdd returns (a + b) modulo the width of T.
func WrappingAdd[T constraints.Unsigned](a, b T) T {
	return a + b
}

// WrappingSub returns (a - b) modulo the width of T.
func WrappingSub[T constraints.Unsigned](a, b T) T {
	return a - b
}

// WrappingMul returns (a * b) modulo the width of T.
func WrappingMul[T constraints.Unsigned](a, b T) T {
	return a * b
}
