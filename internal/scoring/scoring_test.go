package scoring

import (
	"testing"

	"notemind-backend/internal/models"
)

func mcQuestion(id, correct string) models.QuizQuestion {
	return models.QuizQuestion{
		ID:       id,
		Question: "Question " + id,
		Type:     models.QuestionTypeMultipleChoice,
		Options: []models.QuizOption{
			{ID: "A", Text: "first"},
			{ID: "B", Text: "second"},
			{ID: "C", Text: "third"},
			{ID: "D", Text: "fourth"},
		},
		CorrectAnswer: correct,
	}
}

func TestAggregateHalfCorrect(t *testing.T) {
	corrections := []models.QuestionCorrection{
		{QuestionID: "q1", IsCorrect: true, Score: 1.0},
		{QuestionID: "q2", IsCorrect: false, Score: 0.0},
		{QuestionID: "q3", IsCorrect: true, Score: 1.0},
		{QuestionID: "q4", IsCorrect: false, Score: 0.0},
	}

	s := Aggregate(corrections)
	if s.CorrectAnswers != 2 {
		t.Errorf("Expected 2 correct answers, got %d", s.CorrectAnswers)
	}
	if s.TotalQuestions != 4 {
		t.Errorf("Expected 4 total questions, got %d", s.TotalQuestions)
	}
	if s.ScorePercentage != 50.0 {
		t.Errorf("Expected score 50.0, got %v", s.ScorePercentage)
	}
}

func TestAggregatePartialCredit(t *testing.T) {
	corrections := []models.QuestionCorrection{
		{QuestionID: "q1", IsCorrect: true, Score: 1.0},
		{QuestionID: "q2", IsCorrect: false, Score: 0.5},
		{QuestionID: "q3", IsCorrect: false, Score: 0.0},
	}

	s := Aggregate(corrections)
	if s.CorrectAnswers != 1 {
		t.Errorf("Expected 1 correct answer, got %d", s.CorrectAnswers)
	}
	if s.ScorePercentage != 50.0 {
		t.Errorf("Expected score 50.0, got %v", s.ScorePercentage)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if s.TotalQuestions != 0 || s.CorrectAnswers != 0 || s.ScorePercentage != 0 {
		t.Errorf("Expected zero summary, got %+v", s)
	}
}

func TestAggregateBounds(t *testing.T) {
	// Out-of-range provider scores must not push the aggregate outside [0,100].
	corrections := []models.QuestionCorrection{
		{QuestionID: "q1", IsCorrect: true, Score: 3.0},
		{QuestionID: "q2", IsCorrect: false, Score: -1.0},
	}

	s := Aggregate(corrections)
	if s.ScorePercentage < 0 || s.ScorePercentage > 100 {
		t.Errorf("Score percentage out of bounds: %v", s.ScorePercentage)
	}
	if s.CorrectAnswers < 0 || s.CorrectAnswers > s.TotalQuestions {
		t.Errorf("Correct answers out of bounds: %d of %d", s.CorrectAnswers, s.TotalQuestions)
	}
}

func TestGradeStrictCaseAndWhitespace(t *testing.T) {
	questions := []models.QuizQuestion{mcQuestion("q1", "B")}
	answers := []models.UserAnswer{{QuestionID: "q1", Answer: " b "}}

	corrections := GradeStrict(questions, answers)
	if len(corrections) != 1 {
		t.Fatalf("Expected 1 correction, got %d", len(corrections))
	}
	if !corrections[0].IsCorrect {
		t.Errorf("Expected ' b ' to match 'B'")
	}
	if corrections[0].Score != 1.0 {
		t.Errorf("Expected score 1.0, got %v", corrections[0].Score)
	}
}

func TestGradeStrictNoPartialCredit(t *testing.T) {
	questions := []models.QuizQuestion{
		{
			ID:            "q1",
			Question:      "Explain TCP handshake",
			Type:          models.QuestionTypeOpenEnded,
			CorrectAnswer: "SYN, SYN-ACK, ACK",
		},
	}
	answers := []models.UserAnswer{{QuestionID: "q1", Answer: "SYN then ACK"}}

	corrections := GradeStrict(questions, answers)
	if len(corrections) != 1 {
		t.Fatalf("Expected 1 correction, got %d", len(corrections))
	}
	if corrections[0].IsCorrect {
		t.Errorf("Expected conceptually-close answer to be wrong under strict grading")
	}
	if corrections[0].Score != 0.0 {
		t.Errorf("Expected score 0.0, got %v", corrections[0].Score)
	}
	if corrections[0].Explanation != "" {
		t.Errorf("Expected no explanation for strict grading, got %q", corrections[0].Explanation)
	}
}

func TestGradeStrictSkipsUnknownQuestions(t *testing.T) {
	questions := []models.QuizQuestion{mcQuestion("q1", "A")}
	answers := []models.UserAnswer{
		{QuestionID: "q1", Answer: "A"},
		{QuestionID: "q999", Answer: "B"},
	}

	corrections := GradeStrict(questions, answers)
	if len(corrections) != 1 {
		t.Errorf("Expected unknown question to be skipped, got %d corrections", len(corrections))
	}
}

func TestFeedbackFor(t *testing.T) {
	s := Summary{TotalQuestions: 4, CorrectAnswers: 2}
	got := FeedbackFor(s)
	want := "You scored 2 out of 4 questions correctly!"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{66.666666, 66.67},
		{33.333333, 33.33},
		{50.0, 50.0},
		{0.005, 0.01},
	}
	for _, tc := range tests {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
