package score

import (
	"math"

	"quizdown/internal/grading"
)

// Summary is the aggregate over every current result.
type Summary struct {
	Counts       map[grading.Status]int `json:"counts"`
	Questions    int                    `json:"questions"`
	TotalPoints  float64                `json:"total_points"`
	EarnedPoints float64                `json:"earned_points"`
	Percentage   float64                `json:"percentage"`
	ScaledGrade  float64                `json:"scaled_grade"`
	Scale        float64                `json:"scale"`
	PassingScore float64                `json:"passing_score"`
	Passed       bool                   `json:"passed"`
}

// Aggregate recomputes the summary from scratch. The result does not depend
// on the order of results.
func Aggregate(results []grading.Result, scale, passingScore float64) Summary {
	summary := Summary{
		Counts:       make(map[grading.Status]int, len(grading.Statuses)),
		Questions:    len(results),
		Scale:        scale,
		PassingScore: passingScore,
	}
	for _, status := range grading.Statuses {
		summary.Counts[status] = 0
	}
	for _, result := range results {
		summary.Counts[result.Status]++
		summary.TotalPoints += result.Points
		summary.EarnedPoints += math.Min(math.Max(result.Earned, 0), result.Points)
	}
	if summary.TotalPoints > 0 {
		ratio := summary.EarnedPoints / summary.TotalPoints
		summary.Percentage = math.Round(ratio * 100)
		summary.ScaledGrade = ratio * scale
	}
	summary.Passed = summary.TotalPoints > 0 && summary.Percentage >= passingScore
	return summary
}

// Pending reports how many results still await a self-grade.
func (s Summary) Pending() int {
	return s.Counts[grading.StatusPendingSelfGrade]
}
