package service

import (
	"math"
	"strconv"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

// round2 rounds a monetary or metric value to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
