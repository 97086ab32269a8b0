package export

import (
	"strings"
	"testing"
	"time"

	"notemind-backend/internal/models"
)

const secretMarker = "SECRET-ANSWER-MARKER"

func sampleQuiz() QuizData {
	return QuizData{
		QuizID: "quiz-123",
		Questions: []models.QuizQuestion{
			{
				ID:       "q1",
				Question: "What does TCP stand for?",
				Type:     models.QuestionTypeMultipleChoice,
				Options: []models.QuizOption{
					{ID: "A", Text: "Transmission Control Protocol"},
					{ID: "B", Text: "Transfer Check Protocol"},
					{ID: "C", Text: "Total Connection Plan"},
					{ID: "D", Text: "Timed Control Packet"},
				},
				CorrectAnswer: "A",
			},
			{
				ID:            "q2",
				Question:      "Describe the three-way handshake.",
				Type:          models.QuestionTypeOpenEnded,
				CorrectAnswer: secretMarker,
			},
		},
		QuestionCount: 2,
		QuestionType:  models.QuestionTypeMixed,
		Difficulty:    models.DifficultyMedium,
		CreatedAt:     time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
	}
}

func sampleResult() ResultData {
	return ResultData{
		QuizID:          "quiz-123",
		QuestionType:    models.QuestionTypeMixed,
		Difficulty:      models.DifficultyHard,
		ScorePercentage: 50.0,
		CorrectAnswers:  1,
		TotalQuestions:  2,
		OverallFeedback: "Solid grasp of the basics.",
		Corrections: []models.QuestionCorrection{
			{QuestionID: "q1", Question: "What does TCP stand for?", UserAnswer: "A", CorrectAnswer: "A", IsCorrect: true, Explanation: "Straightforward recall.", Score: 1.0},
			{QuestionID: "q2", Question: "Describe the three-way handshake.", UserAnswer: "no idea", CorrectAnswer: secretMarker, IsCorrect: false, Explanation: secretMarker + " explanation", Score: 0.0},
		},
		CompletedAt: time.Date(2025, 3, 14, 11, 0, 0, 0, time.UTC),
	}
}

func TestQuizOutlineHidesAnswers(t *testing.T) {
	blocks := QuizOutline(sampleQuiz(), false)

	for _, blk := range blocks {
		if strings.Contains(blk.Text, secretMarker) || strings.Contains(blk.Label, secretMarker) {
			t.Fatalf("Answer marker leaked into outline block %+v", blk)
		}
		if blk.Kind == KindOption && blk.Correct {
			t.Fatalf("Option marked correct with includeAnswers=false: %+v", blk)
		}
	}

	md := RenderMarkdown(blocks)
	if strings.Contains(md, secretMarker) {
		t.Errorf("Answer marker leaked into markdown output")
	}
	if strings.Contains(md, "Correct answer") || strings.Contains(md, "Expected answer") {
		t.Errorf("Answer-key sections present without includeAnswers")
	}
}

func TestQuizOutlineWithAnswers(t *testing.T) {
	md := RenderMarkdown(QuizOutline(sampleQuiz(), true))

	if !strings.Contains(md, "**Correct answer:** A") {
		t.Errorf("Expected correct answer for multiple choice, got:\n%s", md)
	}
	if !strings.Contains(md, secretMarker) {
		t.Errorf("Expected expected-answer text for open question")
	}
	if !strings.Contains(md, "✓") {
		t.Errorf("Expected correct option to be marked")
	}
}

func TestResultOutlineHidesAnswersWhenAsked(t *testing.T) {
	md := RenderMarkdown(ResultOutline(sampleResult(), false))

	if strings.Contains(md, secretMarker) {
		t.Errorf("Answer marker leaked into answer-free result export")
	}
	// Verdicts and scores remain.
	if !strings.Contains(md, "Question 2 (incorrect)") {
		t.Errorf("Expected per-question verdicts to survive, got:\n%s", md)
	}
}

func TestMarkdownExportIdempotent(t *testing.T) {
	data := sampleResult()
	first := RenderMarkdown(ResultOutline(data, true))
	second := RenderMarkdown(ResultOutline(data, true))
	if first != second {
		t.Errorf("Markdown export is not byte-identical across calls")
	}
}

func TestMarkdownResultSections(t *testing.T) {
	md := RenderMarkdown(ResultOutline(sampleResult(), true))

	sections := []string{
		"# Quiz Results",
		"## Score: 50.0%",
		"**Correct answers:** 1/2",
		"### Overall feedback",
		"## Detailed review",
		"### Question 1 (correct)",
		"### Question 2 (incorrect)",
		"*Generated by NoteMind AI*",
	}

	pos := -1
	for _, s := range sections {
		idx := strings.Index(md, s)
		if idx < 0 {
			t.Fatalf("Section %q missing from markdown:\n%s", s, md)
		}
		if idx < pos {
			t.Fatalf("Section %q out of order", s)
		}
		pos = idx
	}
}

func TestPDFRendersSameOutline(t *testing.T) {
	blocks := QuizOutline(sampleQuiz(), false)

	pdfBytes, err := RenderPDF(blocks)
	if err != nil {
		t.Fatalf("RenderPDF failed: %v", err)
	}
	if len(pdfBytes) == 0 {
		t.Fatal("Expected non-empty PDF output")
	}
	if !strings.HasPrefix(string(pdfBytes[:5]), "%PDF-") {
		t.Errorf("Output does not look like a PDF")
	}
}

func TestQuizOutlineStructure(t *testing.T) {
	blocks := QuizOutline(sampleQuiz(), false)

	if blocks[0].Kind != KindTitle {
		t.Errorf("Expected outline to start with a title")
	}
	if blocks[len(blocks)-1].Kind != KindFooter {
		t.Errorf("Expected outline to end with a footer")
	}

	headings := 0
	for _, blk := range blocks {
		if blk.Kind == KindHeading && strings.HasPrefix(blk.Text, "Question ") {
			headings++
		}
	}
	if headings != 2 {
		t.Errorf("Expected 2 question headings, got %d", headings)
	}
}
