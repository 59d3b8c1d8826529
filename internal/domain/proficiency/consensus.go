package proficiency

// Scores converts levels to their canonical scores, preserving order.
func Scores(levels []Level) []int64 {
	out := make([]int64, 0, len(levels))
	for _, l := range levels {
		out = append(out, ScoreOf(l))
	}
	return out
}

// Mean is the truncating integer mean of values. ok is false for an empty slice.
func Mean(values []int64) (mean int64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return sum / int64(len(values)), true
}

// Consensus buckets the mean of values. Every write path that derives a
// validated level goes through here.
func Consensus(values []int64) (Level, int64, bool) {
	mean, ok := Mean(values)
	if !ok {
		return Desired, 0, false
	}
	return LevelOf(mean), mean, true
}

// Average expresses a mean score on the 0..4 scale of the level ordinals.
func Average(mean int64) float64 {
	return float64(mean) / 100.0
}
