package score

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizdown/internal/grading"
)

func sampleResults() []grading.Result {
	return []grading.Result{
		{QuestionID: "q1", Status: grading.StatusCorrect, Earned: 2, Points: 2},
		{QuestionID: "q2", Status: grading.StatusPartial, Earned: 1, Points: 3},
		{QuestionID: "q3", Status: grading.StatusUnanswered, Earned: 0, Points: 1},
		{QuestionID: "q4", Status: grading.StatusPendingSelfGrade, Earned: 0, Points: 2},
	}
}

func TestAggregate(t *testing.T) {
	summary := Aggregate(sampleResults(), 20, 50)
	assert.Equal(t, 8.0, summary.TotalPoints)
	assert.Equal(t, 3.0, summary.EarnedPoints)
	assert.Equal(t, 38.0, summary.Percentage)
	assert.InDelta(t, 7.5, summary.ScaledGrade, 1e-9)
	assert.False(t, summary.Passed)
	assert.Equal(t, 1, summary.Counts[grading.StatusCorrect])
	assert.Equal(t, 0, summary.Counts[grading.StatusSelfGraded])
	assert.Equal(t, 1, summary.Pending())
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil, 20, 50)
	assert.Zero(t, summary.Percentage)
	assert.Zero(t, summary.ScaledGrade)
	assert.False(t, summary.Passed)
}

func TestAggregateIsOrderIndependent(t *testing.T) {
	results := sampleResults()
	expected := Aggregate(results, 10, 30)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]grading.Result(nil), results...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		require.Equal(t, expected, Aggregate(shuffled, 10, 30))
	}
	assert.True(t, expected.Passed)
}

func TestAggregateAfterSelfGrade(t *testing.T) {
	results := sampleResults()
	graded, err := grading.ApplySelfGrade(results[3], 0.5)
	require.NoError(t, err)
	results[3] = graded

	summary := Aggregate(results, 20, 50)
	assert.Equal(t, 4.0, summary.EarnedPoints)
	assert.Equal(t, 50.0, summary.Percentage)
	assert.True(t, summary.Passed)
	assert.Equal(t, 0, summary.Pending())
}
