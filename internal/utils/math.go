// internal/utils/math.go
package utils

import "math"

// Clamp ограничивает значение диапазоном [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RoundToInt rounds to the nearest integer, halves away from zero.
func RoundToInt(v float64) int {
	return int(math.Round(v))
}

// Lerp выполняет стандартную линейную интерполяцию.
func Lerp(from, to float64, t float64) float64 {
	return from + (to-from)*t
}
