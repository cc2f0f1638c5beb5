package pipeline

import "sort"

// ScoresDescending returns the distinct scores seen, highest first.
func (r *Result) ScoresDescending() []int {
	scores := make([]int, 0, len(r.Scores))
	for score := range r.Scores {
		scores = append(scores, score)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))
	return scores
}

// RatingsDescending returns the distinct ratings seen, highest first.
func (r *Result) RatingsDescending() []float64 {
	ratings := make([]float64, 0, len(r.Ratings))
	for rating := range r.Ratings {
		ratings = append(ratings, rating)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ratings)))
	return ratings
}
