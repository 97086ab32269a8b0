// Package scoring computes per-question verdicts and aggregate scores.
// Everything here is pure: no I/O, no clock, no provider calls.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"notemind-backend/internal/models"
)

// Summary is the aggregate outcome of a graded question set.
type Summary struct {
	TotalQuestions  int
	CorrectAnswers  int
	ScorePercentage float64
}

// Aggregate folds per-question corrections into a summary.
// score_percentage = 100 * sum(score) / total, rounded to 2 decimals.
func Aggregate(corrections []models.QuestionCorrection) Summary {
	s := Summary{TotalQuestions: len(corrections)}
	if len(corrections) == 0 {
		return s
	}

	total := 0.0
	for _, c := range corrections {
		if c.IsCorrect {
			s.CorrectAnswers++
		}
		total += clampScore(c.Score)
	}
	s.ScorePercentage = Round2(total / float64(len(corrections)) * 100)
	return s
}

// GradeStrict grades submitted answers against the authoritative question
// set without AI involvement: trim- and case-insensitive string equality,
// score 0 or 1, no explanation text. Used for anonymous shared quizzes.
// Answers referencing unknown question IDs are skipped.
func GradeStrict(questions []models.QuizQuestion, answers []models.UserAnswer) []models.QuestionCorrection {
	byID := make(map[string]models.QuizQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	var corrections []models.QuestionCorrection
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}

		correct := AnswersMatch(a.Answer, q.CorrectAnswer)
		score := 0.0
		if correct {
			score = 1.0
		}

		corrections = append(corrections, models.QuestionCorrection{
			QuestionID:    q.ID,
			Question:      q.Question,
			UserAnswer:    a.Answer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
			Explanation:   "",
			Score:         score,
		})
	}
	return corrections
}

// AnswersMatch compares a submitted answer to the expected one,
// ignoring surrounding whitespace and letter case.
func AnswersMatch(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}

// FeedbackFor builds the local overall-feedback line used when no AI
// grading is involved.
func FeedbackFor(s Summary) string {
	return fmt.Sprintf("You scored %d out of %d questions correctly!", s.CorrectAnswers, s.TotalQuestions)
}

// Round2 rounds to 2 decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
