package analytics

import (
	"math"
	"sort"

	"github.com/pulseworks/pulse/internal/models"
)

// Statistics primitives over slider scores. All functions treat an empty
// input as a neutral case and return zero rather than failing, so empty
// answer sets flow through whole-survey aggregation without guards at every
// call site.

// SliderValues extracts the numeric scores from an answer set, skipping rows
// without a slider value.
func SliderValues(answers []*models.Answer) []float64 {
	values := make([]float64, 0, len(answers))
	for _, a := range answers {
		if a.SliderAnswer != nil {
			values = append(values, *a.SliderAnswer)
		}
	}
	return values
}

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation (divide by N, not N-1),
// rounded to 2 decimals. Zero for empty input.
func StdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return round2(math.Sqrt(sum / float64(n)))
}

// VariationCoefficient returns (stddev/mean)*100 rounded to 2 decimals.
// Zero for empty input or a zero mean, which would otherwise divide by zero.
func VariationCoefficient(values []float64) float64 {
	mean := Mean(values)
	if len(values) == 0 || mean == 0 {
		return 0
	}
	return round2(StdDev(values) / mean * 100)
}

// Median returns the standard median rounded to 2 decimals, or 0 for empty
// input.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return round2(sorted[n/2])
	}
	return round2((sorted[n/2-1] + sorted[n/2]) / 2)
}

// CategorizeENPS partitions scores into promoters (>= 9), passives ([7, 9))
// and detractors (< 7).
func CategorizeENPS(values []float64) (promoters, passives, detractors int) {
	for _, v := range values {
		switch {
		case v >= 9:
			promoters++
		case v >= 7:
			passives++
		default:
			detractors++
		}
	}
	return promoters, passives, detractors
}

// ENPSScore computes floor(((promoters - detractors) / total) * 100), an
// integer percentage in [-100, 100]. Zero when nobody answered.
func ENPSScore(promoters, passives, detractors int) int {
	total := promoters + passives + detractors
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(promoters-detractors) / float64(total) * 100))
}

// SliderDistribution counts values per integer bucket in [low, high]. A
// value lands in bucket i when i-0.5 <= v < i+0.5, so fractional scores fall
// into the nearest bucket instead of disappearing.
func SliderDistribution(values []float64, low, high int) []int {
	if high < low {
		return []int{}
	}
	dist := make([]int, high-low+1)
	for _, v := range values {
		for i := low; i <= high; i++ {
			if v >= float64(i)-0.5 && v < float64(i)+0.5 {
				dist[i-low]++
				break
			}
		}
	}
	return dist
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
