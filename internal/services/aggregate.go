package services

// ComputeAggregate returns a movie's rate and review count for the given
// ratings. With no ratings the prior rate is kept and the count is zero.
func ComputeAggregate(ratings []float64, prior float64) (float64, int) {
	if len(ratings) == 0 {
		return prior, 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings)), len(ratings)
}
