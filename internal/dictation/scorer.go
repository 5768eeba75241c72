// Package dictation scores a learner's transcript of a dictation sentence
// against the reference text and produces the diff segments the feedback UI
// renders. A re-check replaces the previous analysis wholesale.
package dictation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/hnimkwazeo/quiz-review-service/internal/models"
)

// ErrScoring marks a failed sentence check. Non-fatal; the learner can retry.
var ErrScoring = errors.New("dictation scoring failed")

type Scorer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

func NewScorer() *Scorer {
	return &Scorer{dmp: diffmatchpatch.New()}
}

// Check diffs userText against the reference text. Segment types follow the
// transform user -> reference: "delete" text is missing from the learner's
// answer, "insert" text is extra in it.
func (s *Scorer) Check(referenceText, userText string) (*models.NlpAnalysis, error) {
	if strings.TrimSpace(referenceText) == "" {
		return nil, fmt.Errorf("%w: sentence has no reference text", ErrScoring)
	}

	diffs := s.dmp.DiffMain(referenceText, userText, false)
	diffs = s.dmp.DiffCleanupSemantic(diffs)

	analysis := &models.NlpAnalysis{
		Score: score(diffs, referenceText, userText),
		Diffs: make([]models.DiffSegment, 0, len(diffs)),
	}

	for _, d := range diffs {
		segment := models.DiffSegment{Text: d.Text}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			segment.Type = models.DiffEqual
		case diffmatchpatch.DiffDelete:
			// present in the reference, missing from the learner's answer
			segment.Type = models.DiffDelete
		case diffmatchpatch.DiffInsert:
			segment.Type = models.DiffInsert
		}
		analysis.Diffs = append(analysis.Diffs, segment)
	}

	analysis.Explanations = explanations(analysis.Diffs)
	return analysis, nil
}

// score is the ratio of matching characters to the longer of the two texts,
// as an integer percentage.
func score(diffs []diffmatchpatch.Diff, referenceText, userText string) int {
	equal := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			equal += len([]rune(d.Text))
		}
	}

	longest := len([]rune(referenceText))
	if l := len([]rune(userText)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	return equal * 100 / longest
}

func explanations(diffs []models.DiffSegment) []string {
	var notes []string
	for _, d := range diffs {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		switch d.Type {
		case models.DiffDelete:
			notes = append(notes, fmt.Sprintf("Missing from your answer: %q", text))
		case models.DiffInsert:
			notes = append(notes, fmt.Sprintf("Not in the original sentence: %q", text))
		}
	}
	return notes
}
