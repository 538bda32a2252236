package utils

import (
	"indentpaste/assert"
	"testing"
)

func TestGCD_Basic(t *testing.T) {
	assert.Equal(t, 2, GCD(4, 6), "gcd(4,6)")
	assert.Equal(t, 4, GCD(4, 8), "gcd(4,8)")
	assert.Equal(t, 1, GCD(3, 4), "gcd(3,4)")
}

func TestGCD_Zero(t *testing.T) {
	assert.Equal(t, 5, GCD(0, 5), "gcd(0,5)")
	assert.Equal(t, 5, GCD(5, 0), "gcd(5,0)")
	assert.Equal(t, 0, GCD(0, 0), "gcd(0,0)")
}

func TestGCD_Negative(t *testing.T) {
	assert.Equal(t, 3, GCD(-6, 9), "gcd(-6,9)")
	assert.Equal(t, 3, GCD(6, -9), "gcd(6,-9)")
}

func TestClampNonNegative(t *testing.T) {
	assert.Equal(t, 0, ClampNonNegative(-3), "negative clamps to zero")
	assert.Equal(t, 0, ClampNonNegative(0), "zero stays zero")
	assert.Equal(t, 7, ClampNonNegative(7), "positive unchanged")
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 4, Abs(-4), "abs(-4)")
	assert.Equal(t, 4, Abs(4), "abs(4)")
}
