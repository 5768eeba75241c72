package dictation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
)

func TestCheck_PerfectTranscript(t *testing.T) {
	s := NewScorer()

	analysis, err := s.Check("the quick brown fox", "the quick brown fox")
	assert.NoError(t, err)
	assert.Equal(t, 100, analysis.Score)
	assert.Len(t, analysis.Diffs, 1)
	assert.Equal(t, models.DiffEqual, analysis.Diffs[0].Type)
	assert.Empty(t, analysis.Explanations)
}

func TestCheck_MissingWord(t *testing.T) {
	s := NewScorer()

	analysis, err := s.Check("the quick brown fox", "the brown fox")
	assert.NoError(t, err)

	var deleted []string
	for _, d := range analysis.Diffs {
		if d.Type == models.DiffDelete {
			deleted = append(deleted, d.Text)
		}
	}
	assert.NotEmpty(t, deleted, "the dropped word should appear as a delete segment")
	assert.Less(t, analysis.Score, 100)
	assert.NotEmpty(t, analysis.Explanations)
	assert.Contains(t, analysis.Explanations[0], "Missing from your answer")
}

func TestCheck_ExtraWord(t *testing.T) {
	s := NewScorer()

	analysis, err := s.Check("the brown fox", "the very brown fox")
	assert.NoError(t, err)

	var inserted []string
	for _, d := range analysis.Diffs {
		if d.Type == models.DiffInsert {
			inserted = append(inserted, d.Text)
		}
	}
	assert.NotEmpty(t, inserted)
	assert.Contains(t, analysis.Explanations[0], "Not in the original sentence")
}

func TestCheck_CompletelyWrong(t *testing.T) {
	s := NewScorer()

	analysis, err := s.Check("bonjour", "xyzzy")
	assert.NoError(t, err)
	assert.LessOrEqual(t, analysis.Score, 50)
}

func TestCheck_EmptyReference(t *testing.T) {
	s := NewScorer()

	_, err := s.Check("   ", "anything")
	assert.ErrorIs(t, err, ErrScoring)
}

func TestScoreBand(t *testing.T) {
	cases := []struct {
		score int
		band  string
	}{
		{100, "green"},
		{81, "green"},
		{80, "orange"},
		{51, "orange"},
		{50, "red"},
		{45, "red"},
		{0, "red"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.band, models.ScoreBand(tc.score), "score %d", tc.score)
	}
}
