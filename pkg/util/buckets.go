package util

import (
	"fmt"
	"math"
	"strconv"
)

func parseBucketBoundary(significand string, exponent int) float64 {
	v, err := strconv.ParseFloat(fmt.Sprintf("%se%d", significand, exponent), 64)
	if err != nil {
		panic(fmt.Sprintf("Invalid bucket boundary %se%d: %s", significand, exponent, err))
	}
	return v
}

// DecimalExponentialBuckets generates bucket boundaries for Prometheus
// histograms that grow exponentially, having stepsInBetween+1 buckets
// per power of ten. Significands are truncated to five digits, so
// that every power of ten is represented exactly and label values
// remain short.
func DecimalExponentialBuckets(lowestPowerOf10, powersOf10, stepsInBetween int) []float64 {
	stepsPerPowerOf10 := stepsInBetween + 1
	buckets := make([]float64, 0, powersOf10*stepsPerPowerOf10+1)
	for i := 0; i < powersOf10*stepsPerPowerOf10; i++ {
		significand := math.Pow(10, float64(i%stepsPerPowerOf10)/float64(stepsPerPowerOf10))
		buckets = append(
			buckets,
			parseBucketBoundary(fmt.Sprintf("%.6f", significand)[:6], lowestPowerOf10+i/stepsPerPowerOf10))
	}
	return append(buckets, parseBucketBoundary("1", lowestPowerOf10+powersOf10))
}
