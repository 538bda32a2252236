package utils

// GCD returns the greatest common divisor of |a| and |b|.
// GCD(0, 0) is 0.
func GCD(a, b int) int {
	a, b = Abs(a), Abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Abs returns the absolute value of n
func Abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ClampNonNegative returns n, or 0 when n is negative
func ClampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
